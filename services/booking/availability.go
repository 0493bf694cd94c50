package booking

import (
	"context"
	"fmt"
	"time"

	"wheelstrust/models"
)

const (
	slotBooked    = "booked"
	slotAvailable = "available"
)

// CheckAvailability reports, for each fixed slot in display order, whether a pending or
// confirmed booking holds it. Unknown providers and past dates simply yield free slots.
func (s *DefaultBookingService) CheckAvailability(ctx context.Context, providerID string, date time.Time) ([]models.SlotAvailability, error) {
	date = models.MidnightUTC(date)
	cached, gen, ok := s.Cache.Get(ctx, providerID, date)
	if ok {
		return cached, nil
	}

	holders, err := s.Bookings.FindSlotHolders(ctx, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}

	slots := BuildSlotGrid(holders)
	s.Cache.Set(ctx, providerID, date, gen, slots)
	return slots, nil
}

// BuildSlotGrid maps the fixed slot list against bookings by exact label match.
// Bookings whose status does not hold a slot are ignored.
func BuildSlotGrid(bookings []models.Booking) []models.SlotAvailability {
	taken := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		if b.Status.HoldsSlot() {
			taken[b.Time] = true
		}
	}

	slots := make([]models.SlotAvailability, 0, len(models.SlotLabels))
	for _, label := range models.SlotLabels {
		slot := models.SlotAvailability{Time: label, Status: slotAvailable}
		if taken[label] {
			slot.IsBooked = true
			slot.Status = slotBooked
		}
		slots = append(slots, slot)
	}
	return slots
}
