package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wheelstrust/database/repository"
	userRepo "wheelstrust/database/repository/user"
	"wheelstrust/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepo is an in-memory userRepo.UserRepository with unique emails.
type UserRepo struct {
	store *store[models.User]
}

var _ userRepo.UserRepository = (*UserRepo)(nil)

func NewUserRepo() *UserRepo {
	return &UserRepo{store: newStore[models.User]("user")}
}

func (r *UserRepo) Create(_ context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt, u.UpdatedAt = now, now
	return r.store.insert(u.ID, *u, sameField("email"))
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, err := r.store.get(id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDWithProjection ignores the projection and returns the whole document.
func (r *UserRepo) GetByIDWithProjection(ctx context.Context, id string, _ bson.M) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	found := r.store.find(bson.M{"email": strings.ToLower(strings.TrimSpace(email))}, nil)
	if len(found) == 0 {
		return nil, fmt.Errorf("get user by email: %w", repository.ErrNotFound)
	}
	return &found[0], nil
}

func (r *UserRepo) List(_ context.Context, q repository.ListQuery) ([]models.User, int64, repository.ListQuery, error) {
	items, total, q := r.store.page(q)
	return items, total, q, nil
}

func (r *UserRepo) UpdateSetDocument(_ context.Context, id string, fields bson.M) (*models.User, error) {
	fields["updatedAt"] = time.Now().UTC()
	u, err := r.store.update(id, func(doc bson.M) (bson.M, error) {
		return setFields(doc, fields), nil
	}, sameField("email"))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	if r.store.remove(bson.M{"id": id}) == 0 {
		return fmt.Errorf("delete user %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
