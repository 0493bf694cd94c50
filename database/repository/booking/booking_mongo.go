package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wheelstrust/database"
	"wheelstrust/database/repository"
	"wheelstrust/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrStatusChanged is returned by UpdateStatus when the booking left the
// expected status between read and write.
var ErrStatusChanged = errors.New("booking status changed concurrently")

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates the repository and ensures its indexes.
func NewMongoBookingRepo(ctx context.Context, db *mongo.Database) (BookingRepository, error) {
	repo := &MongoBookingRepo{coll: db.Collection(database.BookingsCollection)}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	booking.HoldsSlot = booking.Status.HoldsSlot()
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return repository.Translate("create booking", err)
	}
	return nil
}

// GetByID retrieves a booking by its ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		return nil, repository.Translate(fmt.Sprintf("get booking %s", id), err)
	}
	return &booking, nil
}

// List returns a page of bookings.
func (r *MongoBookingRepo) List(ctx context.Context, q repository.ListQuery) ([]models.Booking, int64, repository.ListQuery, error) {
	return repository.FindPage[models.Booking](ctx, r.coll, q)
}

// ListByProvider returns all bookings for a provider.
func (r *MongoBookingRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "time", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"serviceProvider": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for provider %s: %w", providerID, err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// FindSlotHolders projects time and status of pending or confirmed bookings on date.
func (r *MongoBookingRepo) FindSlotHolders(ctx context.Context, providerID string, date time.Time) ([]models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"serviceProvider": providerID,
		"date":            models.MidnightUTC(date),
		"status":          bson.M{"$in": []models.BookingStatus{models.BookingPending, models.BookingConfirmed}},
	}
	opts := options.Find().SetProjection(bson.M{"time": 1, "status": 1, "_id": 0})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find slot holders: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode slot holders: %w", err)
	}
	return bookings, nil
}

// Replace overwrites the mutable fields of a booking.
func (r *MongoBookingRepo) Replace(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	booking.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"services":   booking.Services,
		"date":       booking.Date,
		"time":       booking.Time,
		"totalPrice": booking.TotalPrice,
		"notes":      booking.Notes,
		"updatedAt":  booking.UpdatedAt,
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": booking.ID}, update)
	if err != nil {
		return repository.Translate(fmt.Sprintf("update booking %s", booking.ID), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("update booking %s: %w", booking.ID, repository.ErrNotFound)
	}
	return nil
}

// UpdateStatus performs a compare-and-swap on the status field.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": from}
	update := bson.M{"$set": bson.M{
		"status":    to,
		"holdsSlot": to.HoldsSlot(),
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Distinguish a vanished booking from a lost race.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("update booking %s status: %w", id, ErrStatusChanged)
	}
	if err != nil {
		return nil, repository.Translate(fmt.Sprintf("update booking %s status", id), err)
	}
	return &updated, nil
}

// Delete removes a booking by its ID.
func (r *MongoBookingRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("delete booking %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
