package catalog

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"wheelstrust/database/repository"
	"wheelstrust/database/repository/memory"
	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*DefaultCatalogService, *memory.ProviderRepo) {
	t.Helper()
	providers := memory.NewProviderRepo()
	require.NoError(t, providers.Create(context.Background(), &models.ServiceProvider{ID: "p1", User: "owner", BusinessName: "Garage"}))
	return NewDefaultCatalogService(memory.NewServiceRepo(), providers, nil), providers
}

func input() models.ServiceInput {
	return models.ServiceInput{ServiceProvider: "p1", Name: "Oil change", Price: 50, Duration: "30", Category: "maintenance"}
}

func status(t *testing.T, err error) int {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected *utils.AppError, got %v", err)
	return appErr.Status
}

func TestCreateService_LinksProvider(t *testing.T) {
	svc, providers := setup(t)
	ctx := context.Background()
	owner := access.Actor{ID: "owner", Role: models.RoleServiceProvider}

	created, err := svc.CreateService(ctx, owner, input())
	require.NoError(t, err)
	assert.Equal(t, models.ServiceActive, created.Status)

	p, err := providers.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, p.Services)

	require.NoError(t, svc.DeleteService(ctx, owner, created.ID))
	p, err = providers.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, p.Services)
}

type failingLinkRepo struct {
	*memory.ProviderRepo
}

func (r failingLinkRepo) AddService(context.Context, string, string) error {
	return errors.New("provider write failed")
}

func TestCreateService_RemovesServiceWhenLinkFails(t *testing.T) {
	svc, providers := setup(t)
	svc.Providers = failingLinkRepo{providers}
	ctx := context.Background()

	_, err := svc.CreateService(ctx, access.Actor{ID: "owner", Role: models.RoleServiceProvider}, input())
	require.Error(t, err)

	services, total, _, err := svc.Repo.List(ctx, repository.ListQuery{}.Normalize())
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, services)
}

func TestCreateService_RequiresOwnedProvider(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.CreateService(ctx, access.Actor{ID: "other", Role: models.RoleServiceProvider}, input())
	assert.Equal(t, http.StatusForbidden, status(t, err))

	in := input()
	in.ServiceProvider = "missing"
	_, err = svc.CreateService(ctx, access.Actor{ID: "owner", Role: models.RoleServiceProvider}, in)
	assert.Equal(t, http.StatusNotFound, status(t, err))

	_, err = svc.CreateService(ctx, access.Actor{ID: "root", Role: models.RoleAdmin}, input())
	assert.NoError(t, err)
}

func TestUpdateService(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	owner := access.Actor{ID: "owner", Role: models.RoleServiceProvider}
	created, err := svc.CreateService(ctx, owner, input())
	require.NoError(t, err)

	in := input()
	in.Price = 75
	in.Status = models.ServiceInactive
	updated, err := svc.UpdateService(ctx, owner, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 75.0, updated.Price)
	assert.Equal(t, models.ServiceInactive, updated.Status)

	in.ServiceProvider = "p2"
	_, err = svc.UpdateService(ctx, owner, created.ID, in)
	assert.Equal(t, http.StatusBadRequest, status(t, err))

	_, err = svc.UpdateService(ctx, access.Actor{ID: "x", Role: models.RoleUser}, created.ID, input())
	assert.Equal(t, http.StatusForbidden, status(t, err))
}
