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

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Register creates an account and signs its first token. Admin is never self-assigned.
func (s *DefaultUserService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleServiceProvider {
		return nil, utils.InvalidField("role", "role must be user or service_provider")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	u := &models.User{
		ID:       uuid.New().String(),
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: string(hash),
		Phone:    strings.TrimSpace(req.Phone),
		Role:     role,
		Status:   models.UserActive,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.DuplicateKey("An account with this email already exists").Wrap(err)
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	s.Logger.Info("User registered", zap.String("userId", u.ID), zap.String("role", u.Role))
	return s.issue(u)
}

// Login verifies credentials. Unknown emails and wrong passwords are indistinguishable.
func (s *DefaultUserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	u, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.Unauthorized("Invalid email or password")
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, utils.Unauthorized("Invalid email or password")
	}
	if u.Status == models.UserInactive {
		return nil, utils.Forbidden("This account has been deactivated")
	}
	return s.issue(u)
}

func (s *DefaultUserService) issue(u *models.User) (*models.AuthResponse, error) {
	token, err := s.Tokens.GenerateToken(u.ID, u.Name, u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: u}, nil
}

// ChangePassword replaces the actor's password after verifying the current one.
func (s *DefaultUserService) ChangePassword(ctx context.Context, actor access.Actor, req models.PasswordChange) error {
	u, err := s.load(ctx, actor.ID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)); err != nil {
		return utils.Unauthorized("Current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("change password: hash: %w", err)
	}
	if _, err := s.Repo.UpdateSetDocument(ctx, u.ID, bson.M{"password": string(hash)}); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}
