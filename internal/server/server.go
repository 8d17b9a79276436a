// Package server boots the storefront API: config, stores, route table,
// and the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/camtools/app/controllers"
	"github.com/shashiranjanraj/camtools/app/repositories"
	"github.com/shashiranjanraj/camtools/app/routes"
	"github.com/shashiranjanraj/camtools/app/services"
	"github.com/shashiranjanraj/camtools/config"
	"github.com/shashiranjanraj/camtools/pkg/cache"
	"github.com/shashiranjanraj/camtools/pkg/database"
	"github.com/shashiranjanraj/camtools/pkg/logger"
	"github.com/shashiranjanraj/camtools/pkg/metrics"
	"github.com/shashiranjanraj/camtools/pkg/middleware"
	"github.com/shashiranjanraj/camtools/pkg/payments"
	"github.com/shashiranjanraj/camtools/pkg/policy"
	"github.com/shashiranjanraj/camtools/pkg/reqid"
	"github.com/shashiranjanraj/camtools/pkg/router"
	"github.com/shashiranjanraj/camtools/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// Run boots every subsystem and serves until SIGINT/SIGTERM. The document
// store is mandatory; Redis and S3 are optional and degrade gracefully.
func Run() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()

	mongo, err := database.Connect(ctx)
	if err != nil {
		// No document store, no storefront.
		logger.Error("mongo connection failed", "uri", config.MongoURI(), "error", err)
		os.Exit(1)
	}
	defer mongo.Close(context.Background())

	// Optionally fan request logs out to a Mongo collection.
	if config.Get("LOG_MONGO_ENABLED", "") == "true" {
		mh := logger.NewMongoHandler(mongo.Collection("logs"))
		defer mh.Close()
		logger.SetHandler(logger.NewMultiHandler(logger.L.Handler(), mh))
	}

	redis, err := cache.Connect(ctx)
	if err != nil {
		logger.Warn("redis unavailable, catalog cache disabled", "addr", config.RedisAddr(), "error", err)
		redis = nil
	} else {
		defer redis.Close()
	}

	storage.Connect()
	disk := storage.Default()
	if disk == nil {
		logger.Warn("no storage disk available, image uploads disabled")
	}

	r := buildRouter(mongo, redis, disk)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("camtools api listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildRouter wires repositories, services, controllers, and middleware
// into the route table. Everything is passed explicitly; there are no
// package-level store handles.
func buildRouter(mongo *database.Mongo, redis *cache.Cache, disk storage.Disk) *router.Router {
	toolRepo := repositories.NewToolRepository(mongo.Collection(database.ToolsCollection))
	userRepo := repositories.NewUserRepository(mongo.Collection(database.UsersCollection))
	orderRepo := repositories.NewOrderRepository(mongo.Collection(database.OrdersCollection))
	reviewRepo := repositories.NewReviewRepository(mongo.Collection(database.ReviewsCollection))
	profileRepo := repositories.NewProfileRepository(mongo.Collection(database.ProfilesCollection))
	paymentRepo := repositories.NewPaymentRepository(mongo.Collection(database.PaymentsCollection))

	toolSvc := services.NewToolService(toolRepo, redis, disk)
	orderSvc := services.NewOrderService(toolRepo, orderRepo, paymentRepo, userRepo)
	userSvc := services.NewUserService(userRepo)

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(200, time.Minute),
	)

	routes.Register(r, routes.API{
		Tools:    controllers.NewToolController(toolSvc),
		Orders:   controllers.NewOrderController(orderSvc, toolSvc),
		Users:    controllers.NewUserController(userSvc),
		Reviews:  controllers.NewReviewController(reviewRepo),
		Profiles: controllers.NewProfileController(profileRepo),
		Payments: controllers.NewPaymentController(payments.New()),
		Guard:    policy.NewGuard(userRepo),
	})

	// Serve locally stored product images.
	if config.StorageDefault() == "local" {
		fs := http.StripPrefix("/storage/", http.FileServer(http.Dir(config.StorageLocalRoot())))
		r.Handle("/storage/*", fs)
	}

	return r
}
