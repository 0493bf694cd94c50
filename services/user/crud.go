package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wheelstrust/database/repository"
	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func (s *DefaultUserService) load(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("User")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

// GetUser returns a user to themselves or to an admin.
func (s *DefaultUserService) GetUser(ctx context.Context, actor access.Actor, id string) (*models.User, error) {
	if err := access.Authorize(actor, id); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *DefaultUserService) UpdateProfile(ctx context.Context, actor access.Actor, req models.ProfileUpdate) (*models.User, error) {
	fields := bson.M{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, utils.InvalidField("name", "name cannot be empty")
		}
		fields["name"] = name
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Avatar != nil {
		fields["avatar"] = req.Avatar
	}
	if len(fields) == 0 {
		return s.load(ctx, actor.ID)
	}

	u, err := s.Repo.UpdateSetDocument(ctx, actor.ID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("User")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func (s *DefaultUserService) SetFCMToken(ctx context.Context, actor access.Actor, token string) error {
	if _, err := s.Repo.UpdateSetDocument(ctx, actor.ID, bson.M{"fcmToken": strings.TrimSpace(token)}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("User")
		}
		return fmt.Errorf("set fcm token: %w", err)
	}
	return nil
}

func (s *DefaultUserService) ListUsers(ctx context.Context, q repository.ListQuery) ([]models.User, models.Pagination, error) {
	users, total, q, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list users: %w", err)
	}
	return users, models.NewPagination(total, q.Page, q.Limit), nil
}

// UpdateStatus is the admin moderation switch.
func (s *DefaultUserService) UpdateStatus(ctx context.Context, id, status string) (*models.User, error) {
	switch status {
	case models.UserActive, models.UserPending, models.UserInactive:
	default:
		return nil, utils.InvalidField("status", "status must be one of active, pending, inactive")
	}
	u, err := s.Repo.UpdateSetDocument(ctx, id, bson.M{"status": status})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("User")
		}
		return nil, fmt.Errorf("update user status: %w", err)
	}
	s.Logger.Info("User status changed", zap.String("userId", id), zap.String("status", status))
	return u, nil
}

func (s *DefaultUserService) DeleteUser(ctx context.Context, actor access.Actor, id string) error {
	if err := access.Authorize(actor, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("User")
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *DefaultUserService) PromoteToProvider(ctx context.Context, id string) error {
	u, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if u.Role != models.RoleUser {
		return nil
	}
	if _, err := s.Repo.UpdateSetDocument(ctx, id, bson.M{"role": models.RoleServiceProvider}); err != nil {
		return fmt.Errorf("promote user: %w", err)
	}
	return nil
}
