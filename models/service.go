package models

import "time"

// Service categories.
var ServiceCategories = []string{"maintenance", "repair", "inspection", "detailing", "customization", "other"}

const (
	ServiceActive   = "active"
	ServiceInactive = "inactive"
)

// Service is a priced catalog offering belonging to one ServiceProvider.
type Service struct {
	ID              string    `bson:"id" json:"id"`
	ServiceProvider string    `bson:"serviceProvider" json:"serviceProvider"`
	Name            string    `bson:"name" json:"name"`
	Description     string    `bson:"description,omitempty" json:"description,omitempty"`
	Price           float64   `bson:"price" json:"price"`
	Duration        string    `bson:"duration" json:"duration"` // minutes
	Category        string    `bson:"category" json:"category"`
	Status          string    `bson:"status" json:"status"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ServiceInput is the client payload for creating or updating a Service.
type ServiceInput struct {
	ServiceProvider string  `json:"serviceProvider" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" binding:"gte=0"`
	Duration        string  `json:"duration" binding:"required,numeric"`
	Category        string  `json:"category" binding:"required,oneof=maintenance repair inspection detailing customization other"`
	Status          string  `json:"status" binding:"omitempty,oneof=active inactive"`
}
