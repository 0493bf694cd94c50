package user

import (
	"context"

	"wheelstrust/database/repository"
	userRepo "wheelstrust/database/repository/user"
	"wheelstrust/models"
	"wheelstrust/services/access"

	"go.uber.org/zap"
)

type UserService interface {
	// Authentication
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	ChangePassword(ctx context.Context, actor access.Actor, req models.PasswordChange) error

	// Profile
	GetUser(ctx context.Context, actor access.Actor, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, actor access.Actor, req models.ProfileUpdate) (*models.User, error)
	SetFCMToken(ctx context.Context, actor access.Actor, token string) error

	// Admin / Utility
	ListUsers(ctx context.Context, q repository.ListQuery) ([]models.User, models.Pagination, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.User, error)
	DeleteUser(ctx context.Context, actor access.Actor, id string) error
	// PromoteToProvider upgrades a plain user to the service_provider role.
	PromoteToProvider(ctx context.Context, id string) error
}

// TokenIssuer signs access tokens for an identity.
type TokenIssuer interface {
	GenerateToken(userID, name, email, role string) (string, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Tokens TokenIssuer
	Logger *zap.Logger
}

func NewDefaultUserService(repo userRepo.UserRepository, tokens TokenIssuer, logger *zap.Logger) *DefaultUserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultUserService{Repo: repo, Tokens: tokens, Logger: logger}
}
