package memory

import (
	"context"
	"fmt"
	"time"

	"wheelstrust/database/repository"
	providerRepo "wheelstrust/database/repository/provider"
	"wheelstrust/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ProviderRepo is an in-memory providerRepo.ProviderRepository with one provider per user.
type ProviderRepo struct {
	store *store[models.ServiceProvider]
}

var _ providerRepo.ProviderRepository = (*ProviderRepo)(nil)

func NewProviderRepo() *ProviderRepo {
	return &ProviderRepo{store: newStore[models.ServiceProvider]("provider")}
}

func sameField(key string) func(existing, candidate bson.M) bool {
	return func(existing, candidate bson.M) bool {
		c, ok := compare(existing[key], candidate[key])
		return ok && c == 0
	}
}

func (r *ProviderRepo) Create(_ context.Context, p *models.ServiceProvider) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.Services == nil {
		p.Services = []string{}
	}
	return r.store.insert(p.ID, *p, sameField("user"))
}

func (r *ProviderRepo) GetByID(_ context.Context, id string) (*models.ServiceProvider, error) {
	p, err := r.store.get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProviderRepo) GetByUser(_ context.Context, userID string) (*models.ServiceProvider, error) {
	found := r.store.find(bson.M{"user": userID}, nil)
	if len(found) == 0 {
		return nil, fmt.Errorf("get provider for user %s: %w", userID, repository.ErrNotFound)
	}
	return &found[0], nil
}

func (r *ProviderRepo) IDsByUser(_ context.Context, userID string) ([]string, error) {
	ids := []string{}
	for _, p := range r.store.find(bson.M{"user": userID}, nil) {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (r *ProviderRepo) List(_ context.Context, q repository.ListQuery) ([]models.ServiceProvider, int64, repository.ListQuery, error) {
	items, total, q := r.store.page(q)
	return items, total, q, nil
}

func (r *ProviderRepo) UpdateSet(_ context.Context, id string, fields bson.M) (*models.ServiceProvider, error) {
	fields["updatedAt"] = time.Now().UTC()
	p, err := r.store.update(id, func(doc bson.M) (bson.M, error) {
		return setFields(doc, fields), nil
	}, sameField("user"))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProviderRepo) AddService(_ context.Context, id, serviceID string) error {
	_, err := r.store.update(id, func(doc bson.M) (bson.M, error) {
		var p models.ServiceProvider
		fromDoc(doc, &p)
		for _, s := range p.Services {
			if s == serviceID {
				return doc, nil
			}
		}
		p.Services = append(p.Services, serviceID)
		p.UpdatedAt = time.Now().UTC()
		return toDoc(p), nil
	}, nil)
	return err
}

func (r *ProviderRepo) RemoveService(_ context.Context, id, serviceID string) error {
	_, err := r.store.update(id, func(doc bson.M) (bson.M, error) {
		var p models.ServiceProvider
		fromDoc(doc, &p)
		kept := []string{}
		for _, s := range p.Services {
			if s != serviceID {
				kept = append(kept, s)
			}
		}
		p.Services = kept
		p.UpdatedAt = time.Now().UTC()
		return toDoc(p), nil
	}, nil)
	return err
}

func (r *ProviderRepo) Delete(_ context.Context, id string) error {
	if r.store.remove(bson.M{"id": id}) == 0 {
		return fmt.Errorf("delete provider %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
