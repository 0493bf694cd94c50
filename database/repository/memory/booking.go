package memory

import (
	"context"
	"fmt"
	"time"

	"wheelstrust/database/repository"
	bookingRepo "wheelstrust/database/repository/booking"
	"wheelstrust/models"

	"go.mongodb.org/mongo-driver/bson"
)

// BookingRepo is an in-memory bookingRepo.BookingRepository that enforces the
// slot-hold uniqueness the partial index provides in Mongo.
type BookingRepo struct {
	store *store[models.Booking]
}

var _ bookingRepo.BookingRepository = (*BookingRepo)(nil)

func NewBookingRepo() *BookingRepo {
	return &BookingRepo{store: newStore[models.Booking]("booking")}
}

func slotClash(existing, candidate bson.M) bool {
	if existing["holdsSlot"] != true || candidate["holdsSlot"] != true {
		return false
	}
	for _, key := range []string{"serviceProvider", "date", "time"} {
		if c, ok := compare(existing[key], candidate[key]); !ok || c != 0 {
			return false
		}
	}
	return true
}

func (r *BookingRepo) Create(_ context.Context, b *models.Booking) error {
	b.HoldsSlot = b.Status.HoldsSlot()
	return r.store.insert(b.ID, *b, slotClash)
}

func (r *BookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, err := r.store.get(id)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) List(_ context.Context, q repository.ListQuery) ([]models.Booking, int64, repository.ListQuery, error) {
	items, total, q := r.store.page(q)
	return items, total, q, nil
}

func (r *BookingRepo) ListByProvider(_ context.Context, providerID string) ([]models.Booking, error) {
	return r.store.find(bson.M{"serviceProvider": providerID}, bson.D{{Key: "date", Value: -1}, {Key: "time", Value: 1}}), nil
}

func (r *BookingRepo) FindSlotHolders(_ context.Context, providerID string, date time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"serviceProvider": providerID,
		"date":            models.MidnightUTC(date),
		"status":          bson.M{"$in": []models.BookingStatus{models.BookingPending, models.BookingConfirmed}},
	}
	found := r.store.find(filter, nil)
	out := make([]models.Booking, 0, len(found))
	for _, b := range found {
		out = append(out, models.Booking{Time: b.Time, Status: b.Status})
	}
	return out, nil
}

func (r *BookingRepo) Replace(_ context.Context, b *models.Booking) error {
	b.UpdatedAt = time.Now().UTC()
	_, err := r.store.update(b.ID, func(doc bson.M) (bson.M, error) {
		return setFields(doc, bson.M{
			"services":   b.Services,
			"date":       b.Date,
			"time":       b.Time,
			"totalPrice": b.TotalPrice,
			"notes":      b.Notes,
			"updatedAt":  b.UpdatedAt,
		}), nil
	}, slotClash)
	return err
}

func (r *BookingRepo) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus) (*models.Booking, error) {
	updated, err := r.store.update(id, func(doc bson.M) (bson.M, error) {
		if doc["status"] != string(from) {
			return nil, fmt.Errorf("update booking %s status: %w", id, bookingRepo.ErrStatusChanged)
		}
		return setFields(doc, bson.M{
			"status":    string(to),
			"holdsSlot": to.HoldsSlot(),
			"updatedAt": time.Now().UTC(),
		}), nil
	}, slotClash)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *BookingRepo) Delete(_ context.Context, id string) error {
	if r.store.remove(bson.M{"id": id}) == 0 {
		return fmt.Errorf("delete booking %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
