package memory

import (
	"context"
	"fmt"
	"time"

	"wheelstrust/database/repository"
	carRepo "wheelstrust/database/repository/car"
	"wheelstrust/models"

	"go.mongodb.org/mongo-driver/bson"
)

// CarRepo is an in-memory carRepo.CarRepository.
type CarRepo struct {
	store *store[models.Car]
}

var _ carRepo.CarRepository = (*CarRepo)(nil)

func NewCarRepo() *CarRepo {
	return &CarRepo{store: newStore[models.Car]("car")}
}

func (r *CarRepo) Create(_ context.Context, c *models.Car) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	if c.Images == nil {
		c.Images = []models.Image{}
	}
	return r.store.insert(c.ID, *c, nil)
}

func (r *CarRepo) GetByID(_ context.Context, id string) (*models.Car, error) {
	c, err := r.store.get(id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CarRepo) List(_ context.Context, q repository.ListQuery) ([]models.Car, int64, repository.ListQuery, error) {
	items, total, q := r.store.page(q)
	return items, total, q, nil
}

func (r *CarRepo) UpdateSet(_ context.Context, id string, fields bson.M) (*models.Car, error) {
	fields["updatedAt"] = time.Now().UTC()
	return r.mutate(id, func(doc bson.M) bson.M { return setFields(doc, fields) })
}

func (r *CarRepo) PushImages(_ context.Context, id string, images []models.Image) (*models.Car, error) {
	return r.mutate(id, func(doc bson.M) bson.M {
		var c models.Car
		fromDoc(doc, &c)
		c.Images = append(c.Images, images...)
		c.UpdatedAt = time.Now().UTC()
		return toDoc(c)
	})
}

func (r *CarRepo) PullImage(_ context.Context, id, publicID string) (*models.Car, error) {
	return r.mutate(id, func(doc bson.M) bson.M {
		var c models.Car
		fromDoc(doc, &c)
		kept := []models.Image{}
		for _, img := range c.Images {
			if img.PublicID != publicID {
				kept = append(kept, img)
			}
		}
		c.Images = kept
		c.UpdatedAt = time.Now().UTC()
		return toDoc(c)
	})
}

func (r *CarRepo) mutate(id string, fn func(bson.M) bson.M) (*models.Car, error) {
	c, err := r.store.update(id, func(doc bson.M) (bson.M, error) { return fn(doc), nil }, nil)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CarRepo) Delete(_ context.Context, id string) error {
	if r.store.remove(bson.M{"id": id}) == 0 {
		return fmt.Errorf("delete car %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
