package booking

import (
	"context"
	"errors"
	"fmt"

	"wheelstrust/database/repository"
	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/utils"

	"go.mongodb.org/mongo-driver/bson"
)

var contactProjection = bson.M{"id": 1, "name": 1, "email": 1, "phone": 1}

// GetBooking returns a booking with its user and provider contacts populated.
func (s *DefaultBookingService) GetBooking(ctx context.Context, actor access.Actor, id string) (*models.BookingDetail, error) {
	booking, _, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, booking)
}

func (s *DefaultBookingService) populate(ctx context.Context, booking *models.Booking) (*models.BookingDetail, error) {
	detail := &models.BookingDetail{Booking: *booking}

	user, err := s.Users.GetByIDWithProjection(ctx, booking.User, contactProjection)
	switch {
	case err == nil:
		detail.UserInfo = &models.BookingContact{ID: user.ID, Name: user.Name, Email: user.Email, Phone: user.Phone}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("populate booking user: %w", err)
	}

	provider, err := s.Providers.GetByID(ctx, booking.ServiceProvider)
	switch {
	case err == nil:
		detail.ProviderInfo = &models.BookingContact{ID: provider.ID, Name: provider.BusinessName, Email: provider.Email, Phone: provider.Phone}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("populate booking provider: %w", err)
	}
	return detail, nil
}

// ListBookings pages through bookings visible to actor: everything for admins, otherwise
// bookings the actor made plus bookings for providers the actor owns.
func (s *DefaultBookingService) ListBookings(ctx context.Context, actor access.Actor, q repository.ListQuery) ([]models.Booking, models.Pagination, error) {
	q = q.Normalize()
	if !actor.IsAdmin() {
		scope := bson.A{bson.M{"user": actor.ID}}
		providerIDs, err := s.Providers.IDsByUser(ctx, actor.ID)
		if err != nil {
			return nil, models.Pagination{}, fmt.Errorf("list bookings: %w", err)
		}
		if len(providerIDs) > 0 {
			scope = append(scope, bson.M{"serviceProvider": bson.M{"$in": providerIDs}})
		}
		q.Filter = bson.M{"$and": bson.A{q.Filter, bson.M{"$or": scope}}}
	}

	bookings, total, q, err := s.Bookings.List(ctx, q)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, models.NewPagination(total, q.Page, q.Limit), nil
}

// ListProviderBookings returns all bookings of a provider to its owner or an admin.
func (s *DefaultBookingService) ListProviderBookings(ctx context.Context, actor access.Actor, providerID string) ([]models.Booking, error) {
	provider, err := s.Providers.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Service provider")
		}
		return nil, fmt.Errorf("list provider bookings: %w", err)
	}
	if err := access.Authorize(actor, provider.User); err != nil {
		return nil, err
	}
	bookings, err := s.Bookings.ListByProvider(ctx, provider.ID)
	if err != nil {
		return nil, fmt.Errorf("list provider bookings: %w", err)
	}
	return bookings, nil
}

// Receipt renders the booking receipt document.
func (s *DefaultBookingService) Receipt(ctx context.Context, actor access.Actor, id string) ([]byte, error) {
	if s.Receipts == nil {
		return nil, errors.New("receipt renderer not configured")
	}
	detail, err := s.GetBooking(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	doc, err := s.Receipts.Render(*detail)
	if err != nil {
		return nil, fmt.Errorf("render receipt for booking %s: %w", id, err)
	}
	return doc, nil
}
