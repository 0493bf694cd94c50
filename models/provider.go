package models

import "time"

// Address is a postal address.
type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode string `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
}

// Weekdays keys HoursOfOperation.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// ServiceProvider is a business offering services. User is the managing account.
type ServiceProvider struct {
	ID               string            `bson:"id" json:"id"`
	User             string            `bson:"user" json:"user"`
	BusinessName     string            `bson:"businessName" json:"businessName"`
	Description      string            `bson:"description,omitempty" json:"description,omitempty"`
	Email            string            `bson:"email,omitempty" json:"email,omitempty"`
	Phone            string            `bson:"phone,omitempty" json:"phone,omitempty"`
	Address          Address           `bson:"address" json:"address"`
	Services         []string          `bson:"services" json:"services"`
	HoursOfOperation map[string]string `bson:"hoursOfOperation,omitempty" json:"hoursOfOperation,omitempty"`
	Logo             *Image            `bson:"logo,omitempty" json:"logo,omitempty"`
	Verified         bool              `bson:"verified" json:"verified"`
	Rating           float64           `bson:"rating" json:"rating"`
	CreatedAt        time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// ProviderInput is the client payload for creating or updating a provider.
type ProviderInput struct {
	BusinessName     string            `json:"businessName" binding:"required"`
	Description      string            `json:"description"`
	Email            string            `json:"email" binding:"omitempty,email"`
	Phone            string            `json:"phone"`
	Address          Address           `json:"address"`
	HoursOfOperation map[string]string `json:"hoursOfOperation" binding:"omitempty,dive,keys,weekday,endkeys"`
	Logo             *Image            `json:"logo"`
}

// ProviderVerification is the body of PATCH /service-providers/:id/verify.
type ProviderVerification struct {
	Verified *bool `json:"verified" binding:"required"`
}
