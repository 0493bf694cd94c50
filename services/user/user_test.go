package user

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"wheelstrust/database/repository/memory"
	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *DefaultUserService {
	return NewDefaultUserService(memory.NewUserRepo(), utils.NewTokenManager("test-secret", time.Hour), nil)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected *utils.AppError, got %v", err)
	return appErr.Status
}

func register(t *testing.T, svc *DefaultUserService, email, role string) *models.AuthResponse {
	t.Helper()
	res, err := svc.Register(context.Background(), models.RegisterRequest{
		Name: "Jo", Email: email, Password: "secret123", Role: role,
	})
	require.NoError(t, err)
	return res
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	res := register(t, svc, "Jo@Example.com", "")
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.Equal(t, "jo@example.com", res.User.Email)
	assert.NotEqual(t, "secret123", res.User.Password)

	claims, err := utils.NewTokenManager("test-secret", time.Hour).ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.Subject)

	login, err := svc.Login(ctx, models.LoginRequest{Email: "jo@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "jo@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestRegister_DuplicateEmailAndAdminRole(t *testing.T) {
	svc := newService()
	register(t, svc, "jo@example.com", models.RoleServiceProvider)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Name: "Jo", Email: "JO@example.com", Password: "secret123"})
	require.Error(t, err)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, utils.KindDuplicateKey, appErr.Code)

	_, err = svc.Register(context.Background(), models.RegisterRequest{Name: "Eve", Email: "eve@example.com", Password: "secret123", Role: models.RoleAdmin})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestLogin_InactiveAccountRefused(t *testing.T) {
	svc := newService()
	res := register(t, svc, "jo@example.com", "")

	_, err := svc.UpdateStatus(context.Background(), res.User.ID, models.UserInactive)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "jo@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}

func TestChangePassword(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	res := register(t, svc, "jo@example.com", "")
	actor := access.Actor{ID: res.User.ID, Role: res.User.Role}

	err := svc.ChangePassword(ctx, actor, models.PasswordChange{CurrentPassword: "bad", NewPassword: "another1"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	require.NoError(t, svc.ChangePassword(ctx, actor, models.PasswordChange{CurrentPassword: "secret123", NewPassword: "another1"}))
	_, err = svc.Login(ctx, models.LoginRequest{Email: "jo@example.com", Password: "another1"})
	assert.NoError(t, err)
}

func TestGetAndDeleteUser_SelfOrAdmin(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	jo := register(t, svc, "jo@example.com", "")
	eve := register(t, svc, "eve@example.com", "")

	_, err := svc.GetUser(ctx, access.Actor{ID: eve.User.ID, Role: models.RoleUser}, jo.User.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	got, err := svc.GetUser(ctx, access.Actor{ID: "root", Role: models.RoleAdmin}, jo.User.ID)
	require.NoError(t, err)
	assert.Equal(t, jo.User.Email, got.Email)

	err = svc.DeleteUser(ctx, access.Actor{ID: eve.User.ID, Role: models.RoleUser}, jo.User.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	require.NoError(t, svc.DeleteUser(ctx, access.Actor{ID: jo.User.ID, Role: models.RoleUser}, jo.User.ID))
}

func TestUpdateProfileAndPromotion(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	jo := register(t, svc, "jo@example.com", "")
	actor := access.Actor{ID: jo.User.ID, Role: jo.User.Role}

	name, phone := "Joanna", "+1 555 0100"
	u, err := svc.UpdateProfile(ctx, actor, models.ProfileUpdate{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Joanna", u.Name)
	assert.Equal(t, phone, u.Phone)

	blank := " "
	_, err = svc.UpdateProfile(ctx, actor, models.ProfileUpdate{Name: &blank})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	require.NoError(t, svc.PromoteToProvider(ctx, jo.User.ID))
	u, err = svc.GetUser(ctx, actor, jo.User.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleServiceProvider, u.Role)
}
