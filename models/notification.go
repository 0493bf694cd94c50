package models

import "time"

// Notification types produced by the booking subsystem.
const (
	NotificationBookingCreated = "booking_created"
	NotificationBookingStatus  = "booking_status"
)

// Notification is an in-app message for one recipient.
type Notification struct {
	ID        string         `bson:"id" json:"id"`
	Recipient string         `bson:"recipient" json:"recipient"`
	Type      string         `bson:"type" json:"type"`
	Title     string         `bson:"title" json:"title"`
	Message   string         `bson:"message" json:"message"`
	Data      map[string]any `bson:"data,omitempty" json:"data,omitempty"`
	Read      bool           `bson:"read" json:"read"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
}
