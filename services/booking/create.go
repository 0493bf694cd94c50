package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wheelstrust/database/repository"
	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking persists a pending booking for the acting user. The provider reference is
// resolved first, then services, date, time and totalPrice are checked in that order.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, actor access.Actor, input models.BookingInput) (*models.Booking, error) {
	providerID := strings.TrimSpace(input.ServiceProvider)
	if providerID == "" {
		return nil, utils.MissingField("serviceProvider")
	}
	provider, err := s.Providers.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			nf := utils.NotFound("Service provider")
			nf.Details = utils.FieldDetails{Field: "serviceProvider"}
			return nil, nf
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	fields, err := validateFields(input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:              uuid.New().String(),
		ServiceProvider: provider.ID,
		User:            actor.ID,
		Services:        fields.services,
		Date:            fields.date,
		Time:            fields.time,
		Status:          models.BookingPending,
		TotalPrice:      fields.total,
		Notes:           fields.notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, slotTaken(booking)
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.Cache.Invalidate(ctx, booking.ServiceProvider, booking.Date)

	s.Logger.Info("Booking created",
		zap.String("bookingId", booking.ID),
		zap.String("providerId", booking.ServiceProvider),
		zap.String("date", models.FormatCalendarDate(booking.Date)),
		zap.String("time", booking.Time))

	s.notify(ctx, models.Notification{
		Recipient: provider.User,
		Type:      models.NotificationBookingCreated,
		Title:     "New booking request",
		Message:   fmt.Sprintf("New booking for %s at %s", models.FormatCalendarDate(booking.Date), booking.Time),
		Data:      map[string]any{"bookingId": booking.ID, "status": string(booking.Status)},
	})
	return booking, nil
}

func slotTaken(b *models.Booking) *utils.AppError {
	return utils.Conflict(fmt.Sprintf("The %s slot on %s is already booked", b.Time, models.FormatCalendarDate(b.Date)))
}
