// Package catalog manages the priced services a provider offers.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wheelstrust/database/repository"
	catalogRepo "wheelstrust/database/repository/catalog"
	providerRepo "wheelstrust/database/repository/provider"
	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type CatalogService interface {
	CreateService(ctx context.Context, actor access.Actor, input models.ServiceInput) (*models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	ListServices(ctx context.Context, q repository.ListQuery) ([]models.Service, models.Pagination, error)
	UpdateService(ctx context.Context, actor access.Actor, id string, input models.ServiceInput) (*models.Service, error)
	DeleteService(ctx context.Context, actor access.Actor, id string) error
}

type DefaultCatalogService struct {
	Repo      catalogRepo.ServiceRepository
	Providers providerRepo.ProviderRepository
	Logger    *zap.Logger
}

func NewDefaultCatalogService(repo catalogRepo.ServiceRepository, providers providerRepo.ProviderRepository, logger *zap.Logger) *DefaultCatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultCatalogService{Repo: repo, Providers: providers, Logger: logger}
}

// ownedProvider resolves a provider id and checks the actor manages it.
func (s *DefaultCatalogService) ownedProvider(ctx context.Context, actor access.Actor, providerID string) (*models.ServiceProvider, error) {
	p, err := s.Providers.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			nf := utils.NotFound("Service provider")
			nf.Details = utils.FieldDetails{Field: "serviceProvider"}
			return nil, nf
		}
		return nil, fmt.Errorf("load provider: %w", err)
	}
	if err := access.Authorize(actor, p.User); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *DefaultCatalogService) CreateService(ctx context.Context, actor access.Actor, input models.ServiceInput) (*models.Service, error) {
	p, err := s.ownedProvider(ctx, actor, input.ServiceProvider)
	if err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = models.ServiceActive
	}
	svc := &models.Service{
		ID:              uuid.New().String(),
		ServiceProvider: p.ID,
		Name:            strings.TrimSpace(input.Name),
		Description:     strings.TrimSpace(input.Description),
		Price:           input.Price,
		Duration:        input.Duration,
		Category:        input.Category,
		Status:          status,
	}
	if err := s.Repo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	if err := s.Providers.AddService(ctx, p.ID, svc.ID); err != nil {
		if delErr := s.Repo.Delete(ctx, svc.ID); delErr != nil {
			s.Logger.Error("Failed to remove unlinked service", zap.String("serviceId", svc.ID), zap.Error(delErr))
		}
		return nil, fmt.Errorf("link service to provider: %w", err)
	}
	return svc, nil
}

func (s *DefaultCatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Service")
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return svc, nil
}

func (s *DefaultCatalogService) ListServices(ctx context.Context, q repository.ListQuery) ([]models.Service, models.Pagination, error) {
	items, total, q, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list services: %w", err)
	}
	return items, models.NewPagination(total, q.Page, q.Limit), nil
}

// UpdateService edits a catalog entry. Bookings keep the line items they were created with.
func (s *DefaultCatalogService) UpdateService(ctx context.Context, actor access.Actor, id string, input models.ServiceInput) (*models.Service, error) {
	current, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedProvider(ctx, actor, current.ServiceProvider); err != nil {
		return nil, err
	}
	if input.ServiceProvider != "" && input.ServiceProvider != current.ServiceProvider {
		return nil, utils.InvalidField("serviceProvider", "a service cannot move to another provider")
	}

	fields := bson.M{
		"name":        strings.TrimSpace(input.Name),
		"description": strings.TrimSpace(input.Description),
		"price":       input.Price,
		"duration":    input.Duration,
		"category":    input.Category,
	}
	if input.Status != "" {
		fields["status"] = input.Status
	}
	updated, err := s.Repo.UpdateSet(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Service")
		}
		return nil, fmt.Errorf("update service: %w", err)
	}
	return updated, nil
}

func (s *DefaultCatalogService) DeleteService(ctx context.Context, actor access.Actor, id string) error {
	current, err := s.GetService(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.ownedProvider(ctx, actor, current.ServiceProvider); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Service")
		}
		return fmt.Errorf("delete service: %w", err)
	}
	if err := s.Providers.RemoveService(ctx, current.ServiceProvider, id); err != nil {
		s.Logger.Warn("Failed to unlink service from provider", zap.String("serviceId", id), zap.Error(err))
	}
	return nil
}
