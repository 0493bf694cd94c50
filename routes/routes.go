package routes

import (
	"time"

	"wheelstrust/config"
	"wheelstrust/handlers"
	"wheelstrust/middleware"
	"wheelstrust/models"
	"wheelstrust/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterAuthRoutes registers registration, login and current-account endpoints.
func RegisterAuthRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", hb.Auth.RegisterHandler)
		auth.POST("/login", hb.Auth.LoginHandler)

		protected := auth.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.Tokens))
		protected.GET("/me", hb.Auth.MeHandler)
		protected.PUT("/me", hb.Auth.UpdateMeHandler)
		protected.PUT("/me/fcm-token", hb.Auth.UpdateFCMTokenHandler)
		protected.PUT("/password", hb.Auth.ChangePasswordHandler)
	}
}

// RegisterUserRoutes registers account administration endpoints.
func RegisterUserRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	users := api.Group("/users")
	{
		users.Use(middleware.JWTAuthMiddleware(hb.Tokens))
		users.GET("", middleware.RequireRoles(models.RoleAdmin), hb.Users.ListUsersHandler)
		users.GET("/:id", hb.Users.GetUserHandler)
		users.PATCH("/:id/status", middleware.RequireRoles(models.RoleAdmin), hb.Users.UpdateUserStatusHandler)
		users.DELETE("/:id", hb.Users.DeleteUserHandler)
	}
}

// RegisterProviderRoutes registers service provider endpoints. Reads are public.
func RegisterProviderRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	providers := api.Group("/service-providers")
	{
		providers.GET("", hb.Providers.ListProvidersHandler)

		protected := providers.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.Tokens))
		protected.GET("/me", hb.Providers.GetMyProviderHandler)
		protected.POST("", middleware.RequireRoles(models.RoleUser, models.RoleServiceProvider, models.RoleAdmin), hb.Providers.CreateProviderHandler)
		protected.PUT("/:id", hb.Providers.UpdateProviderHandler)
		protected.DELETE("/:id", hb.Providers.DeleteProviderHandler)
		protected.PATCH("/:id/verify", middleware.RequireRoles(models.RoleAdmin), hb.Providers.VerifyProviderHandler)

		providers.GET("/:id", hb.Providers.GetProviderHandler)
	}
}

// RegisterServiceRoutes registers catalog endpoints. Reads are public.
func RegisterServiceRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	services := api.Group("/services")
	{
		services.GET("", hb.Services.ListServicesHandler)
		services.GET("/:id", hb.Services.GetServiceHandler)

		protected := services.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.Tokens), middleware.RequireRoles(models.RoleServiceProvider, models.RoleAdmin))
		protected.POST("", hb.Services.CreateServiceHandler)
		protected.PUT("/:id", hb.Services.UpdateServiceHandler)
		protected.DELETE("/:id", hb.Services.DeleteServiceHandler)
	}
}

// RegisterCarRoutes registers marketplace endpoints. Reads are public.
func RegisterCarRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	cars := api.Group("/cars")
	{
		cars.GET("", hb.Cars.ListCarsHandler)

		protected := cars.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.Tokens))
		protected.GET("/mine", hb.Cars.ListMyCarsHandler)
		protected.POST("", hb.Cars.CreateCarHandler)
		protected.PUT("/:id", hb.Cars.UpdateCarHandler)
		protected.PATCH("/:id/status", hb.Cars.UpdateCarStatusHandler)
		protected.DELETE("/:id", hb.Cars.DeleteCarHandler)
		protected.POST("/:id/images", hb.Cars.UploadCarImagesHandler)
		protected.DELETE("/:id/images/*publicId", hb.Cars.DeleteCarImageHandler)

		cars.GET("/:id", hb.Cars.GetCarHandler)
	}
}

// RegisterBookingRoutes registers the booking endpoints. All require authentication.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	bookings := api.Group("/bookings")
	{
		bookings.Use(middleware.JWTAuthMiddleware(hb.Tokens))
		bookings.GET("", hb.Bookings.ListBookingsHandler)
		bookings.POST("", hb.Bookings.CreateBookingHandler)
		bookings.GET("/check-availability/:id", hb.Bookings.CheckAvailabilityHandler)
		bookings.GET("/provider/:id", middleware.RequireRoles(models.RoleServiceProvider, models.RoleAdmin), hb.Bookings.ProviderBookingsHandler)
		bookings.GET("/:id", hb.Bookings.GetBookingHandler)
		bookings.GET("/:id/receipt", hb.Bookings.BookingReceiptHandler)
		bookings.PUT("/:id", hb.Bookings.UpdateBookingHandler)
		bookings.PATCH("/:id/status", hb.Bookings.UpdateBookingStatusHandler)
		bookings.DELETE("/:id", hb.Bookings.DeleteBookingHandler)
	}
}

// RegisterNotificationRoutes registers the inbox endpoints.
func RegisterNotificationRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	notifications := api.Group("/notifications")
	{
		notifications.Use(middleware.JWTAuthMiddleware(hb.Tokens))
		notifications.GET("", hb.Notifications.ListNotificationsHandler)
		notifications.PATCH("/read-all", hb.Notifications.MarkAllReadHandler)
		notifications.PATCH("/:id/read", hb.Notifications.MarkReadHandler)
		notifications.DELETE("/:id", hb.Notifications.DeleteNotificationHandler)
	}
}

// RegisterUploadRoutes registers generic CDN upload endpoints.
func RegisterUploadRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	uploads := api.Group("/uploads")
	{
		uploads.Use(middleware.JWTAuthMiddleware(hb.Tokens))
		uploads.POST("", hb.Uploads.UploadFileHandler)
		uploads.DELETE("/*publicId", hb.Uploads.DeleteFileHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.CheckHandler)
}

// RegisterRoutes centralizes registration of all endpoints under /api.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	RegisterHealthRoute(r, hb)

	api := r.Group("/api")
	RegisterAuthRoutes(api, hb)
	RegisterUserRoutes(api, hb)
	RegisterProviderRoutes(api, hb)
	RegisterServiceRoutes(api, hb)
	RegisterCarRoutes(api, hb)
	RegisterBookingRoutes(api, hb)
	RegisterNotificationRoutes(api, hb)
	RegisterUploadRoutes(api, hb)
}

// corsConfig allows the configured origins. Credentials are only allowed for explicit origins.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// NewRouter builds the engine with the global middleware chain and every route.
func NewRouter(cfg config.Config, hb *handlers.HandlerBundle, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(utils.ErrorHandler())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins())))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, cfg.RateLimitWindow, logger))

	RegisterRoutes(router, hb)
	return router
}
