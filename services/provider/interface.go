package provider

import (
	"context"

	"wheelstrust/database/repository"
	catalogRepo "wheelstrust/database/repository/catalog"
	providerRepo "wheelstrust/database/repository/provider"
	"wheelstrust/models"
	"wheelstrust/services/access"

	"go.uber.org/zap"
)

// ProviderService manages service provider profiles.
type ProviderService interface {
	CreateProvider(ctx context.Context, actor access.Actor, input models.ProviderInput) (*models.ServiceProvider, error)
	GetProvider(ctx context.Context, id string) (*models.ServiceProvider, error)
	GetMine(ctx context.Context, actor access.Actor) (*models.ServiceProvider, error)
	ListProviders(ctx context.Context, q repository.ListQuery) ([]models.ServiceProvider, models.Pagination, error)
	UpdateProvider(ctx context.Context, actor access.Actor, id string, input models.ProviderInput) (*models.ServiceProvider, error)
	DeleteProvider(ctx context.Context, actor access.Actor, id string) error
	SetVerified(ctx context.Context, id string, verified bool) (*models.ServiceProvider, error)
}

// RolePromoter upgrades an account once it manages a provider.
type RolePromoter interface {
	PromoteToProvider(ctx context.Context, userID string) error
}

// DefaultProviderService is the production implementation.
type DefaultProviderService struct {
	Repo     providerRepo.ProviderRepository
	Services catalogRepo.ServiceRepository
	Users    RolePromoter
	Logger   *zap.Logger
}

func NewDefaultProviderService(repo providerRepo.ProviderRepository, services catalogRepo.ServiceRepository, users RolePromoter, logger *zap.Logger) *DefaultProviderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultProviderService{Repo: repo, Services: services, Users: users, Logger: logger}
}
