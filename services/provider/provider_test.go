package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"wheelstrust/database/repository/memory"
	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPromoter struct {
	mock.Mock
}

func (m *mockPromoter) PromoteToProvider(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func appStatus(t *testing.T, err error) int {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected *utils.AppError, got %v", err)
	return appErr.Status
}

func TestCreateProvider_PromotesUserAndEnforcesOnePerUser(t *testing.T) {
	promoter := new(mockPromoter)
	promoter.On("PromoteToProvider", mock.Anything, "u1").Return(nil).Once()
	svc := NewDefaultProviderService(memory.NewProviderRepo(), memory.NewServiceRepo(), promoter, nil)
	actor := access.Actor{ID: "u1", Role: models.RoleUser}

	p, err := svc.CreateProvider(context.Background(), actor, models.ProviderInput{
		BusinessName:     " Quick Lube ",
		Email:            "Shop@Example.com",
		HoursOfOperation: map[string]string{"monday": "9-5"},
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", p.User)
	assert.Equal(t, "Quick Lube", p.BusinessName)
	assert.Equal(t, "shop@example.com", p.Email)
	assert.Empty(t, p.Services)

	_, err = svc.CreateProvider(context.Background(), actor, models.ProviderInput{BusinessName: "Second"})
	assert.Equal(t, http.StatusBadRequest, appStatus(t, err))

	promoter.AssertExpectations(t)
}

func TestUpdateAndDeleteProvider_OwnerOrAdmin(t *testing.T) {
	ctx := context.Background()
	services := memory.NewServiceRepo()
	svc := NewDefaultProviderService(memory.NewProviderRepo(), services, nil, nil)
	owner := access.Actor{ID: "u1", Role: models.RoleServiceProvider}
	stranger := access.Actor{ID: "u2", Role: models.RoleServiceProvider}
	admin := access.Actor{ID: "a", Role: models.RoleAdmin}

	p, err := svc.CreateProvider(ctx, owner, models.ProviderInput{BusinessName: "Garage"})
	require.NoError(t, err)
	require.NoError(t, services.Create(ctx, &models.Service{ID: "s1", ServiceProvider: p.ID, Name: "Wash"}))

	_, err = svc.UpdateProvider(ctx, stranger, p.ID, models.ProviderInput{BusinessName: "Mine now"})
	assert.Equal(t, http.StatusForbidden, appStatus(t, err))

	updated, err := svc.UpdateProvider(ctx, admin, p.ID, models.ProviderInput{BusinessName: "Garage Plus", Address: models.Address{City: "Austin"}})
	require.NoError(t, err)
	assert.Equal(t, "Garage Plus", updated.BusinessName)
	assert.Equal(t, "Austin", updated.Address.City)

	assert.Equal(t, http.StatusForbidden, appStatus(t, svc.DeleteProvider(ctx, stranger, p.ID)))
	require.NoError(t, svc.DeleteProvider(ctx, owner, p.ID))

	_, err = services.GetByID(ctx, "s1")
	assert.Error(t, err)
	_, err = svc.GetProvider(ctx, p.ID)
	assert.Equal(t, http.StatusNotFound, appStatus(t, err))
}

func TestSetVerifiedAndGetMine(t *testing.T) {
	ctx := context.Background()
	svc := NewDefaultProviderService(memory.NewProviderRepo(), nil, nil, nil)
	owner := access.Actor{ID: "u1", Role: models.RoleServiceProvider}

	_, err := svc.GetMine(ctx, owner)
	assert.Equal(t, http.StatusNotFound, appStatus(t, err))

	p, err := svc.CreateProvider(ctx, owner, models.ProviderInput{BusinessName: "Garage"})
	require.NoError(t, err)
	assert.False(t, p.Verified)

	verified, err := svc.SetVerified(ctx, p.ID, true)
	require.NoError(t, err)
	assert.True(t, verified.Verified)

	mine, err := svc.GetMine(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, p.ID, mine.ID)
}
