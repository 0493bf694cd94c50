package handlers

import (
	"wheelstrust/middleware"
)

// HandlerBundle groups every endpoint handler the router needs.
type HandlerBundle struct {
	Tokens middleware.TokenValidator

	Auth          *AuthHandler
	Users         *UserHandler
	Providers     *ProviderHandler
	Services      *CatalogHandler
	Cars          *CarHandler
	Bookings      *BookingHandler
	Notifications *NotificationHandler
	Uploads       *StorageHandler
	Health        *HealthHandler
}
