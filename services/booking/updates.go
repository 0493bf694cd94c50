package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wheelstrust/database/repository"
	bookingRepo "wheelstrust/database/repository/booking"
	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/utils"

	"go.uber.org/zap"
)

// ReplaceBooking rewrites the services, date, time, price and notes of a live booking.
// The provider of a booking cannot change.
func (s *DefaultBookingService) ReplaceBooking(ctx context.Context, actor access.Actor, id string, input models.BookingInput) (*models.Booking, error) {
	booking, _, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if p := strings.TrimSpace(input.ServiceProvider); p != "" && p != booking.ServiceProvider {
		return nil, utils.InvalidField("serviceProvider", "serviceProvider cannot be changed")
	}
	if booking.Status.IsTerminal() {
		return nil, utils.InvalidField("status", fmt.Sprintf("a %s booking cannot be modified", booking.Status))
	}

	fields, err := validateFields(input)
	if err != nil {
		return nil, err
	}

	previousDate := booking.Date
	booking.Services = fields.services
	booking.Date = fields.date
	booking.Time = fields.time
	booking.TotalPrice = fields.total
	booking.Notes = fields.notes

	if err := s.Bookings.Replace(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, slotTaken(booking)
		case errors.Is(err, repository.ErrNotFound):
			return nil, utils.NotFound("Booking")
		}
		return nil, fmt.Errorf("replace booking: %w", err)
	}
	s.Cache.Invalidate(ctx, booking.ServiceProvider, previousDate)
	if !previousDate.Equal(booking.Date) {
		s.Cache.Invalidate(ctx, booking.ServiceProvider, booking.Date)
	}
	return booking, nil
}

// UpdateStatus moves a booking along the status graph. The actor is authorized before the
// requested status is examined.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, actor access.Actor, id, status string) (*models.BookingStatusResult, error) {
	booking, providerOwner, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	target, err := models.ParseBookingStatus(strings.TrimSpace(status))
	if err != nil {
		appErr := utils.InvalidField("status", "status must be one of pending, confirmed, completed, cancelled")
		return nil, appErr.Wrap(err)
	}
	if !booking.Status.CanTransitionTo(target) {
		return nil, utils.InvalidField("status", fmt.Sprintf("cannot change status from %s to %s", booking.Status, target))
	}
	if booking.Status == target {
		return &models.BookingStatusResult{ID: booking.ID, Status: booking.Status, UpdatedAt: booking.UpdatedAt}, nil
	}

	updated, err := s.Bookings.UpdateStatus(ctx, booking.ID, booking.Status, target)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrStatusChanged):
			return nil, utils.Conflict("Booking status was changed by another request, reload and retry")
		case errors.Is(err, repository.ErrNotFound):
			return nil, utils.NotFound("Booking")
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	s.Cache.Invalidate(ctx, updated.ServiceProvider, updated.Date)

	s.Logger.Info("Booking status changed",
		zap.String("bookingId", updated.ID),
		zap.String("from", string(booking.Status)),
		zap.String("to", string(updated.Status)),
		zap.String("actor", actor.ID))

	for _, recipient := range []string{updated.User, providerOwner} {
		if recipient == "" || recipient == actor.ID {
			continue
		}
		s.notify(ctx, models.Notification{
			Recipient: recipient,
			Type:      models.NotificationBookingStatus,
			Title:     "Booking " + string(updated.Status),
			Message:   fmt.Sprintf("Booking on %s at %s is now %s", models.FormatCalendarDate(updated.Date), updated.Time, updated.Status),
			Data:      map[string]any{"bookingId": updated.ID, "status": string(updated.Status)},
		})
	}

	return &models.BookingStatusResult{ID: updated.ID, Status: updated.Status, UpdatedAt: updated.UpdatedAt}, nil
}

// DeleteBooking removes a booking owned by the actor's side, or any booking for an admin.
func (s *DefaultBookingService) DeleteBooking(ctx context.Context, actor access.Actor, id string) error {
	booking, _, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.Bookings.Delete(ctx, booking.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Booking")
		}
		return fmt.Errorf("delete booking: %w", err)
	}
	s.Cache.Invalidate(ctx, booking.ServiceProvider, booking.Date)
	s.Logger.Info("Booking deleted", zap.String("bookingId", booking.ID), zap.String("actor", actor.ID))
	return nil
}

func (s *DefaultBookingService) notify(ctx context.Context, n models.Notification) {
	if s.Notifier == nil || n.Recipient == "" {
		return
	}
	if err := s.Notifier.Notify(ctx, n); err != nil {
		s.Logger.Warn("Booking notification failed",
			zap.String("recipient", n.Recipient),
			zap.String("type", n.Type),
			zap.Error(err))
	}
}
