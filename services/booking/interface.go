package booking

import (
	"context"
	"time"

	"wheelstrust/database/repository"
	bookingRepo "wheelstrust/database/repository/booking"
	providerRepo "wheelstrust/database/repository/provider"
	userRepo "wheelstrust/database/repository/user"
	"wheelstrust/models"
	"wheelstrust/services/access"

	"go.uber.org/zap"
)

// BookingService is the booking subsystem: availability, writes, status lifecycle and reads.
type BookingService interface {
	CheckAvailability(ctx context.Context, providerID string, date time.Time) ([]models.SlotAvailability, error)
	CreateBooking(ctx context.Context, actor access.Actor, input models.BookingInput) (*models.Booking, error)
	ReplaceBooking(ctx context.Context, actor access.Actor, id string, input models.BookingInput) (*models.Booking, error)
	UpdateStatus(ctx context.Context, actor access.Actor, id, status string) (*models.BookingStatusResult, error)
	DeleteBooking(ctx context.Context, actor access.Actor, id string) error
	GetBooking(ctx context.Context, actor access.Actor, id string) (*models.BookingDetail, error)
	ListBookings(ctx context.Context, actor access.Actor, q repository.ListQuery) ([]models.Booking, models.Pagination, error)
	ListProviderBookings(ctx context.Context, actor access.Actor, providerID string) ([]models.Booking, error)
	Receipt(ctx context.Context, actor access.Actor, id string) ([]byte, error)
}

// Notifier delivers in-app notifications. Delivery failures never fail a booking write.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// ReceiptRenderer turns a populated booking into a printable document.
type ReceiptRenderer interface {
	Render(detail models.BookingDetail) ([]byte, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Bookings  bookingRepo.BookingRepository
	Providers providerRepo.ProviderRepository
	Users     userRepo.UserRepository
	Cache     AvailabilityCache
	Notifier  Notifier
	Receipts  ReceiptRenderer
	Logger    *zap.Logger
}

// NewDefaultBookingService wires the service. A nil cache or notifier disables that concern.
func NewDefaultBookingService(
	bookings bookingRepo.BookingRepository,
	providers providerRepo.ProviderRepository,
	users userRepo.UserRepository,
	cache AvailabilityCache,
	notifier Notifier,
	receipts ReceiptRenderer,
	logger *zap.Logger,
) *DefaultBookingService {
	if cache == nil {
		cache = NoopAvailabilityCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Bookings:  bookings,
		Providers: providers,
		Users:     users,
		Cache:     cache,
		Notifier:  notifier,
		Receipts:  receipts,
		Logger:    logger,
	}
}
