package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"wheelstrust/database/repository"
	bookingRepo "wheelstrust/database/repository/booking"
	"wheelstrust/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newBooking(id, provider, slot string, status models.BookingStatus, day time.Time) *models.Booking {
	return &models.Booking{
		ID:              id,
		ServiceProvider: provider,
		User:            "u1",
		Date:            day,
		Time:            slot,
		Status:          status,
		CreatedAt:       time.Now().UTC(),
	}
}

func TestBookingRepo_SlotHoldIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepo()
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newBooking("b1", "p1", "10:00 AM", models.BookingPending, day)))

	err := repo.Create(ctx, newBooking("b2", "p1", "10:00 AM", models.BookingPending, day))
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	// Other provider, other time, other day, and non-holding statuses never clash.
	assert.NoError(t, repo.Create(ctx, newBooking("b3", "p2", "10:00 AM", models.BookingPending, day)))
	assert.NoError(t, repo.Create(ctx, newBooking("b4", "p1", "11:00 AM", models.BookingPending, day)))
	assert.NoError(t, repo.Create(ctx, newBooking("b5", "p1", "10:00 AM", models.BookingPending, day.AddDate(0, 0, 1))))
	assert.NoError(t, repo.Create(ctx, newBooking("b6", "p1", "10:00 AM", models.BookingCancelled, day)))
}

func TestBookingRepo_CancellingReleasesSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepo()
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newBooking("b1", "p1", "09:00 AM", models.BookingConfirmed, day)))

	updated, err := repo.UpdateStatus(ctx, "b1", models.BookingConfirmed, models.BookingCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, updated.Status)
	assert.False(t, updated.HoldsSlot)

	assert.NoError(t, repo.Create(ctx, newBooking("b2", "p1", "09:00 AM", models.BookingPending, day)))
}

func TestBookingRepo_UpdateStatusCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepo()
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newBooking("b1", "p1", "09:00 AM", models.BookingPending, day)))

	_, err := repo.UpdateStatus(ctx, "b1", models.BookingConfirmed, models.BookingCompleted)
	assert.ErrorIs(t, err, bookingRepo.ErrStatusChanged)

	_, err = repo.UpdateStatus(ctx, "missing", models.BookingPending, models.BookingConfirmed)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBookingRepo_FindSlotHolders(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepo()
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newBooking("b1", "p1", "09:00 AM", models.BookingPending, day)))
	require.NoError(t, repo.Create(ctx, newBooking("b2", "p1", "10:00 AM", models.BookingConfirmed, day)))
	require.NoError(t, repo.Create(ctx, newBooking("b3", "p1", "11:00 AM", models.BookingCompleted, day)))
	require.NoError(t, repo.Create(ctx, newBooking("b4", "p1", "12:00 PM", models.BookingPending, day.AddDate(0, 0, 1))))

	holders, err := repo.FindSlotHolders(ctx, "p1", day.Add(15*time.Hour))
	require.NoError(t, err)

	var times []string
	for _, h := range holders {
		times = append(times, h.Time)
	}
	assert.ElementsMatch(t, []string{"09:00 AM", "10:00 AM"}, times)
}

func TestStorePage(t *testing.T) {
	ctx := context.Background()
	repo := NewCarRepo()
	for i := 0; i < 25; i++ {
		require.NoError(t, repo.Create(ctx, &models.Car{ID: fmt.Sprintf("c%02d", i), Year: 2000 + i, Status: models.CarActive}))
	}

	items, total, q, err := repo.List(ctx, repository.ListQuery{Page: 2, Limit: 10, Sort: bson.D{{Key: "year", Value: 1}}})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Equal(t, int64(2), q.Page)
	require.Len(t, items, 10)
	assert.Equal(t, 2010, items[0].Year)

	items, _, _, err = repo.List(ctx, repository.ListQuery{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

func TestMatches(t *testing.T) {
	doc := toDoc(models.Car{
		ID:       "c1",
		Make:     "Toyota",
		Year:     2018,
		Price:    15000,
		Features: []string{"sunroof", "abs"},
		Status:   models.CarActive,
	})

	tests := []struct {
		name   string
		filter bson.M
		want   bool
	}{
		{"equality", bson.M{"make": "Toyota"}, true},
		{"equality miss", bson.M{"make": "Honda"}, false},
		{"array contains", bson.M{"features": "abs"}, true},
		{"range", bson.M{"price": bson.M{"$gte": 10000.0, "$lt": 20000.0}}, true},
		{"range miss", bson.M{"year": bson.M{"$gt": 2018}}, false},
		{"in", bson.M{"status": bson.M{"$in": []string{"sold", "active"}}}, true},
		{"or", bson.M{"$or": bson.A{bson.M{"make": "Honda"}, bson.M{"year": 2018}}}, true},
		{"and", bson.M{"$and": bson.A{bson.M{"make": "Toyota"}, bson.M{"year": 2019}}}, false},
		{"regex", bson.M{"make": bson.M{"$regex": primitive.Regex{Pattern: "^toy", Options: "i"}}}, true},
		{"ne", bson.M{"status": bson.M{"$ne": models.CarSold}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matches(doc, tt.filter))
		})
	}
}
