package models

import "time"

// Roles.
const (
	RoleUser            = "user"
	RoleServiceProvider = "service_provider"
	RoleAdmin           = "admin"
)

// Account statuses, also used as an admin moderation flag.
const (
	UserActive   = "active"
	UserPending  = "pending"
	UserInactive = "inactive"
)

// User is a platform account. Password holds the bcrypt hash and is never serialized.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Avatar    *Image    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Role      string    `bson:"role" json:"role"`
	Status    string    `bson:"status" json:"status"`
	FCMToken  string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"omitempty,oneof=user service_provider"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileUpdate carries the self-editable profile fields.
type ProfileUpdate struct {
	Name   *string `json:"name" binding:"omitempty,min=1"`
	Phone  *string `json:"phone"`
	Avatar *Image  `json:"avatar"`
}

// PasswordChange is the body of PUT /auth/password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// UserStatusUpdate is the body of PATCH /users/:id/status.
type UserStatusUpdate struct {
	Status string `json:"status" binding:"required,oneof=active pending inactive"`
}

// FCMTokenUpdate registers a push token for the current account.
type FCMTokenUpdate struct {
	Token string `json:"token" binding:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
