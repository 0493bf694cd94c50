package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wheelstrust/database/repository"
	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// CreateProvider registers a provider managed by the actor. Plain users are promoted.
func (s *DefaultProviderService) CreateProvider(ctx context.Context, actor access.Actor, input models.ProviderInput) (*models.ServiceProvider, error) {
	p := &models.ServiceProvider{
		ID:               uuid.New().String(),
		User:             actor.ID,
		BusinessName:     strings.TrimSpace(input.BusinessName),
		Description:      strings.TrimSpace(input.Description),
		Email:            strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:            strings.TrimSpace(input.Phone),
		Address:          input.Address,
		HoursOfOperation: input.HoursOfOperation,
		Logo:             input.Logo,
		Services:         []string{},
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.DuplicateKey("This account already manages a service provider").Wrap(err)
		}
		return nil, fmt.Errorf("create provider: %w", err)
	}

	if actor.Role == models.RoleUser && s.Users != nil {
		if err := s.Users.PromoteToProvider(ctx, actor.ID); err != nil {
			s.Logger.Warn("Failed to promote provider owner", zap.String("userId", actor.ID), zap.Error(err))
		}
	}
	s.Logger.Info("Provider created", zap.String("providerId", p.ID), zap.String("userId", actor.ID))
	return p, nil
}

func (s *DefaultProviderService) GetProvider(ctx context.Context, id string) (*models.ServiceProvider, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Service provider")
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return p, nil
}

func (s *DefaultProviderService) GetMine(ctx context.Context, actor access.Actor) (*models.ServiceProvider, error) {
	p, err := s.Repo.GetByUser(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Service provider")
		}
		return nil, fmt.Errorf("get own provider: %w", err)
	}
	return p, nil
}

func (s *DefaultProviderService) ListProviders(ctx context.Context, q repository.ListQuery) ([]models.ServiceProvider, models.Pagination, error) {
	items, total, q, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list providers: %w", err)
	}
	return items, models.NewPagination(total, q.Page, q.Limit), nil
}

func (s *DefaultProviderService) loadOwned(ctx context.Context, actor access.Actor, id string) (*models.ServiceProvider, error) {
	p, err := s.GetProvider(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, p.User); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *DefaultProviderService) UpdateProvider(ctx context.Context, actor access.Actor, id string, input models.ProviderInput) (*models.ServiceProvider, error) {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return nil, err
	}
	fields := bson.M{
		"businessName":     strings.TrimSpace(input.BusinessName),
		"description":      strings.TrimSpace(input.Description),
		"email":            strings.ToLower(strings.TrimSpace(input.Email)),
		"phone":            strings.TrimSpace(input.Phone),
		"address":          input.Address,
		"hoursOfOperation": input.HoursOfOperation,
	}
	if input.Logo != nil {
		fields["logo"] = input.Logo
	}
	p, err := s.Repo.UpdateSet(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Service provider")
		}
		return nil, fmt.Errorf("update provider: %w", err)
	}
	return p, nil
}

// DeleteProvider removes a provider and its catalog services. Existing bookings keep
// their snapshot and remain readable by their users.
func (s *DefaultProviderService) DeleteProvider(ctx context.Context, actor access.Actor, id string) error {
	p, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Service provider")
		}
		return fmt.Errorf("delete provider: %w", err)
	}
	if s.Services != nil {
		removed, err := s.Services.DeleteByProvider(ctx, p.ID)
		if err != nil {
			s.Logger.Error("Failed to delete provider services", zap.String("providerId", p.ID), zap.Error(err))
		} else {
			s.Logger.Info("Provider deleted", zap.String("providerId", p.ID), zap.Int64("servicesRemoved", removed))
		}
	}
	return nil
}

func (s *DefaultProviderService) SetVerified(ctx context.Context, id string, verified bool) (*models.ServiceProvider, error) {
	p, err := s.Repo.UpdateSet(ctx, id, bson.M{"verified": verified})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Service provider")
		}
		return nil, fmt.Errorf("verify provider: %w", err)
	}
	return p, nil
}
