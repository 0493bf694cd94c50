package models

import "time"

// Car listing statuses. Any status may be set from any other.
const (
	CarActive  = "active"
	CarSold    = "sold"
	CarPending = "pending"
	CarDraft   = "draft"
)

// Car is a for-sale vehicle listing owned by Seller.
type Car struct {
	ID           string    `bson:"id" json:"id"`
	Seller       string    `bson:"seller" json:"seller"`
	Title        string    `bson:"title" json:"title"`
	Make         string    `bson:"make" json:"make"`
	Model        string    `bson:"model" json:"model"`
	Year         int       `bson:"year" json:"year"`
	Price        float64   `bson:"price" json:"price"`
	Mileage      int       `bson:"mileage" json:"mileage"`
	FuelType     string    `bson:"fuelType,omitempty" json:"fuelType,omitempty"`
	Transmission string    `bson:"transmission,omitempty" json:"transmission,omitempty"`
	Color        string    `bson:"color,omitempty" json:"color,omitempty"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	Location     string    `bson:"location,omitempty" json:"location,omitempty"`
	Features     []string  `bson:"features,omitempty" json:"features,omitempty"`
	Images       []Image   `bson:"images" json:"images"`
	Status       string    `bson:"status" json:"status"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CarInput is the client payload for creating or replacing a listing.
type CarInput struct {
	Title        string   `json:"title" binding:"required"`
	Make         string   `json:"make" binding:"required"`
	Model        string   `json:"model" binding:"required"`
	Year         int      `json:"year" binding:"required,gte=1886,lte=2100"`
	Price        float64  `json:"price" binding:"gte=0"`
	Mileage      int      `json:"mileage" binding:"gte=0"`
	FuelType     string   `json:"fuelType" binding:"omitempty,oneof=petrol diesel electric hybrid other"`
	Transmission string   `json:"transmission" binding:"omitempty,oneof=manual automatic"`
	Color        string   `json:"color"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	Features     []string `json:"features"`
	Status       string   `json:"status" binding:"omitempty,oneof=active sold pending draft"`
}

// CarStatusUpdate is the body of PATCH /cars/:id/status.
type CarStatusUpdate struct {
	Status string `json:"status" binding:"required,oneof=active sold pending draft"`
}

// IsCarStatus reports whether s is a known listing status.
func IsCarStatus(s string) bool {
	switch s {
	case CarActive, CarSold, CarPending, CarDraft:
		return true
	}
	return false
}
