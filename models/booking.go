package models

import "time"

// BookingLineItem is a denormalized snapshot of a catalog service at booking time.
// Later edits to the Service never touch it.
type BookingLineItem struct {
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Duration string  `bson:"duration" json:"duration"`
}

// Booking is one reservation of a provider's time for a set of services.
type Booking struct {
	ID              string            `bson:"id" json:"id"`
	ServiceProvider string            `bson:"serviceProvider" json:"serviceProvider"`
	User            string            `bson:"user" json:"user"`
	Services        []BookingLineItem `bson:"services" json:"services"`
	Date            time.Time         `bson:"date" json:"date"` // midnight UTC
	Time            string            `bson:"time" json:"time"` // one of SlotLabels
	Status          BookingStatus     `bson:"status" json:"status"`
	TotalPrice      float64           `bson:"totalPrice" json:"totalPrice"`
	Notes           string            `bson:"notes,omitempty" json:"notes,omitempty"`
	// HoldsSlot mirrors Status.HoldsSlot() and backs the partial unique slot index.
	HoldsSlot bool      `bson:"holdsSlot" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BookingInput is the client payload for creating or replacing a booking.
// The acting user is never read from here.
type BookingInput struct {
	ServiceProvider string            `json:"serviceProvider"`
	Services        []BookingLineItem `json:"services"`
	Date            string            `json:"date"`
	Time            string            `json:"time"`
	TotalPrice      *float64          `json:"totalPrice"`
	Notes           string            `json:"notes"`
}

// BookingStatusUpdate is the body of PATCH /bookings/:id/status.
type BookingStatusUpdate struct {
	Status string `json:"status" binding:"required"`
}

// BookingStatusResult is returned after a status change.
type BookingStatusResult struct {
	ID        string        `json:"id"`
	Status    BookingStatus `json:"status"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// SlotAvailability reports one fixed daily slot for a provider and date.
type SlotAvailability struct {
	Time     string `json:"time"`
	IsBooked bool   `json:"isBooked"`
	Status   string `json:"status"` // "booked" or "available"
}

// BookingContact is the populated view of a booking party.
type BookingContact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// BookingDetail is a booking with its user and provider populated.
type BookingDetail struct {
	Booking
	UserInfo     *BookingContact `json:"userInfo,omitempty"`
	ProviderInfo *BookingContact `json:"providerInfo,omitempty"`
}
