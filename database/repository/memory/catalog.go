package memory

import (
	"context"
	"fmt"
	"time"

	"wheelstrust/database/repository"
	catalogRepo "wheelstrust/database/repository/catalog"
	"wheelstrust/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ServiceRepo is an in-memory catalogRepo.ServiceRepository.
type ServiceRepo struct {
	store *store[models.Service]
}

var _ catalogRepo.ServiceRepository = (*ServiceRepo)(nil)

func NewServiceRepo() *ServiceRepo {
	return &ServiceRepo{store: newStore[models.Service]("service")}
}

func (r *ServiceRepo) Create(_ context.Context, s *models.Service) error {
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	return r.store.insert(s.ID, *s, nil)
}

func (r *ServiceRepo) GetByID(_ context.Context, id string) (*models.Service, error) {
	s, err := r.store.get(id)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepo) List(_ context.Context, q repository.ListQuery) ([]models.Service, int64, repository.ListQuery, error) {
	items, total, q := r.store.page(q)
	return items, total, q, nil
}

func (r *ServiceRepo) UpdateSet(_ context.Context, id string, fields bson.M) (*models.Service, error) {
	fields["updatedAt"] = time.Now().UTC()
	s, err := r.store.update(id, func(doc bson.M) (bson.M, error) {
		return setFields(doc, fields), nil
	}, nil)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepo) Delete(_ context.Context, id string) error {
	if r.store.remove(bson.M{"id": id}) == 0 {
		return fmt.Errorf("delete service %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *ServiceRepo) DeleteByProvider(_ context.Context, providerID string) (int64, error) {
	return r.store.remove(bson.M{"serviceProvider": providerID}), nil
}
