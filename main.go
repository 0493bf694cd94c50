package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wheelstrust/config"
	"wheelstrust/cron"
	"wheelstrust/database"
	bookingRepo "wheelstrust/database/repository/booking"
	carRepo "wheelstrust/database/repository/car"
	catalogRepo "wheelstrust/database/repository/catalog"
	notificationRepo "wheelstrust/database/repository/notification"
	providerRepo "wheelstrust/database/repository/provider"
	userRepo "wheelstrust/database/repository/user"
	"wheelstrust/handlers"
	"wheelstrust/routes"
	"wheelstrust/services/booking"
	"wheelstrust/services/car"
	"wheelstrust/services/catalog"
	"wheelstrust/services/notification"
	"wheelstrust/services/provider"
	"wheelstrust/services/receipt"
	"wheelstrust/services/storage"
	"wheelstrust/services/user"
	"wheelstrust/utils"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := utils.InitializeLogger(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	if err := utils.RegisterValidators(); err != nil {
		logger.Fatal("main: failed to register validators", zap.Error(err))
	}

	client, db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("main: database connection failed", zap.Error(err))
	}
	logger.Info("Connected to MongoDB", zap.String("database", cfg.DatabaseName))

	repos, err := openRepositories(db)
	if err != nil {
		logger.Fatal("main: repository setup failed", zap.Error(err))
	}

	pingers := map[string]utils.Pinger{
		"database": func(ctx context.Context) error { return client.Ping(ctx, nil) },
	}

	var availabilityCache booking.AvailabilityCache
	if cfg.CacheEnabled {
		redisClient, err := utils.NewCacheClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
		if err != nil {
			logger.Warn("main: availability cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			availabilityCache = booking.NewRedisAvailabilityCache(redisClient, cfg.AvailabilityCacheTTL, logger)
			pingers["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
	}

	var uploads storage.StorageService
	if cfg.CloudinaryConfigured() {
		cld, err := utils.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Fatal("main: failed to initialize cloudinary", zap.Error(err))
		}
		uploads = storage.NewStorageService(cld, cfg.CloudinaryFolder, cfg.UploadMaxDimension, logger)
	} else {
		logger.Warn("main: Cloudinary credentials missing, uploads disabled")
	}

	var push notification.PushSender
	if cfg.FirebaseCredentialsFile != "" {
		fcm, err := utils.NewFCMClient(context.Background(), cfg.FirebaseCredentialsFile)
		if err != nil {
			logger.Warn("main: push notifications disabled", zap.Error(err))
		} else {
			push = fcm
		}
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	userService := user.NewDefaultUserService(repos.users, tokens, logger)
	providerService := provider.NewDefaultProviderService(repos.providers, repos.services, userService, logger)
	catalogService := catalog.NewDefaultCatalogService(repos.services, repos.providers, logger)
	carService := car.NewDefaultCarService(repos.cars, uploads, logger)
	notificationService := notification.NewDefaultNotificationService(repos.notifications, repos.users, push, logger)

	var notifier booking.Notifier = notificationService
	var worker *cron.NotificationWorker
	if cfg.QueueEnabled {
		queue := asynq.NewClient(cron.RedisQueueOpt(cfg))
		defer queue.Close()
		notifier = notification.NewQueueDispatcher(queue, notificationService, logger)

		worker = cron.NewNotificationWorker(cfg, notificationService, logger)
		if err := worker.Start(); err != nil {
			logger.Fatal("main: notification worker", zap.Error(err))
		}
	}

	bookingService := booking.NewDefaultBookingService(
		repos.bookings, repos.providers, repos.users, availabilityCache, notifier, receipt.NewRenderer(""), logger,
	)

	monitor := utils.NewHealthMonitor(pingers)
	healthCtx, stopHealth := context.WithCancel(context.Background())
	defer stopHealth()
	monitor.Start(healthCtx, 30*time.Second)

	hb := &handlers.HandlerBundle{
		Tokens:        tokens,
		Auth:          handlers.NewAuthHandler(userService),
		Users:         handlers.NewUserHandler(userService),
		Providers:     handlers.NewProviderHandler(providerService),
		Services:      handlers.NewCatalogHandler(catalogService),
		Cars:          handlers.NewCarHandler(carService),
		Bookings:      handlers.NewBookingHandler(bookingService),
		Notifications: handlers.NewNotificationHandler(notificationService),
		Uploads:       handlers.NewStorageHandler(uploads),
		Health:        handlers.NewHealthHandler(monitor),
	}
	router := routes.NewRouter(cfg, hb, logger)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	if err := database.Disconnect(client); err != nil {
		logger.Error("main: database disconnect", zap.Error(err))
	}
	logger.Info("main: server stopped gracefully")
}

type repositories struct {
	users         userRepo.UserRepository
	providers     providerRepo.ProviderRepository
	services      catalogRepo.ServiceRepository
	bookings      bookingRepo.BookingRepository
	cars          carRepo.CarRepository
	notifications notificationRepo.NotificationRepository
}

// openRepositories builds every Mongo repository and ensures its indexes.
func openRepositories(db *mongo.Database) (*repositories, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		r   repositories
		err error
	)
	if r.users, err = userRepo.NewMongoUserRepo(ctx, db); err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}
	if r.providers, err = providerRepo.NewMongoProviderRepo(ctx, db); err != nil {
		return nil, fmt.Errorf("providers: %w", err)
	}
	if r.services, err = catalogRepo.NewMongoServiceRepo(ctx, db); err != nil {
		return nil, fmt.Errorf("services: %w", err)
	}
	if r.bookings, err = bookingRepo.NewMongoBookingRepo(ctx, db); err != nil {
		return nil, fmt.Errorf("bookings: %w", err)
	}
	if r.cars, err = carRepo.NewMongoCarRepo(ctx, db); err != nil {
		return nil, fmt.Errorf("cars: %w", err)
	}
	if r.notifications, err = notificationRepo.NewMongoNotificationRepo(ctx, db); err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}
	return &r, nil
}
