package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPageLimit int64 = 25
	MaxPageLimit     int64 = 100
)

// ListQuery is a filtered, projected, sorted page request.
type ListQuery struct {
	Filter     bson.M
	Projection bson.M
	Sort       bson.D
	Page       int64
	Limit      int64
}

// Normalize fills defaults: page 1, DefaultPageLimit, newest first.
func (q ListQuery) Normalize() ListQuery {
	if q.Filter == nil {
		q.Filter = bson.M{}
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if len(q.Sort) == 0 {
		q.Sort = bson.D{{Key: "createdAt", Value: -1}}
	}
	return q
}

// Skip is the number of documents before the requested page.
func (q ListQuery) Skip() int64 {
	return (q.Page - 1) * q.Limit
}

// WithTimeout derives a bounded context for a single database round trip.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// FindPage counts documents matching q and decodes the requested page.
// The returned query is the normalized one actually executed.
func FindPage[T any](ctx context.Context, coll *mongo.Collection, q ListQuery) ([]T, int64, ListQuery, error) {
	q = q.Normalize()
	ctx, cancel := WithTimeout(ctx, 10*time.Second)
	defer cancel()

	total, err := coll.CountDocuments(ctx, q.Filter)
	if err != nil {
		return nil, 0, q, fmt.Errorf("failed to count %s: %w", coll.Name(), err)
	}

	opts := options.Find().
		SetSort(q.Sort).
		SetSkip(q.Skip()).
		SetLimit(q.Limit)
	if len(q.Projection) > 0 {
		opts.SetProjection(q.Projection)
	}

	cursor, err := coll.Find(ctx, q.Filter, opts)
	if err != nil {
		return nil, 0, q, fmt.Errorf("failed to list %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	items := make([]T, 0, q.Limit)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, q, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	return items, total, q, nil
}
