package bookingRepo

import (
	"context"
	"time"

	"wheelstrust/database/repository"
	"wheelstrust/models"
)

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// Create inserts a booking. A second slot-holding booking for the same
	// (serviceProvider, date, time) fails with repository.ErrDuplicate.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// List returns one page of bookings matching q.
	List(ctx context.Context, q repository.ListQuery) ([]models.Booking, int64, repository.ListQuery, error)
	// ListByProvider returns every booking for a provider, newest date first.
	ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error)
	// FindSlotHolders returns the time and status of bookings holding a slot on date.
	FindSlotHolders(ctx context.Context, providerID string, date time.Time) ([]models.Booking, error)
	// Replace overwrites the mutable fields of an existing booking.
	Replace(ctx context.Context, booking *models.Booking) error
	// UpdateStatus moves a booking from one status to another only if it is
	// still in the from status, and returns the updated document.
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) (*models.Booking, error)
	// Delete removes a booking by its ID.
	Delete(ctx context.Context, id string) error
}
