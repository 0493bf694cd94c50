package receipt

import (
	"bytes"
	"testing"
	"time"

	"wheelstrust/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPDF(t *testing.T) {
	detail := models.BookingDetail{
		Booking: models.Booking{
			ID:         "b-1",
			Status:     models.BookingConfirmed,
			Date:       time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
			Time:       "10:00 AM",
			TotalPrice: 120.5,
			Services: []models.BookingLineItem{
				{Name: "Oil change", Price: 40.5, Duration: "1h"},
				{Name: "Brake check", Price: 80, Duration: "2h"},
			},
			Notes: "Bring the spare key",
		},
		UserInfo:     &models.BookingContact{ID: "u-1", Name: "Sam", Email: "sam@example.com"},
		ProviderInfo: &models.BookingContact{ID: "p-1", Name: "Fast Garage", Phone: "555-0100"},
	}

	doc, err := NewRenderer("").Render(detail)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
	assert.Greater(t, len(doc), 1000)
}

func TestRenderWithoutParties(t *testing.T) {
	doc, err := NewRenderer("Acme").Render(models.BookingDetail{Booking: models.Booking{ID: "b-2", Status: models.BookingPending}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}
