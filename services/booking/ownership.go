package booking

import (
	"context"
	"errors"
	"fmt"

	"wheelstrust/database/repository"
	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/utils"
)

// loadOwned fetches a booking and checks the actor is its user, the owner of its
// provider, or an admin. It also returns the provider owner's id ("" if the provider is gone).
func (s *DefaultBookingService) loadOwned(ctx context.Context, actor access.Actor, id string) (*models.Booking, string, error) {
	booking, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", utils.NotFound("Booking")
		}
		return nil, "", fmt.Errorf("load booking: %w", err)
	}

	providerOwner, err := s.providerOwner(ctx, booking.ServiceProvider)
	if err != nil {
		return nil, "", err
	}
	if err := access.Authorize(actor, booking.User, providerOwner); err != nil {
		return nil, "", err
	}
	return booking, providerOwner, nil
}

func (s *DefaultBookingService) providerOwner(ctx context.Context, providerID string) (string, error) {
	provider, err := s.Providers.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("load booking provider: %w", err)
	}
	return provider.User, nil
}
