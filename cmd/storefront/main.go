package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Nikolino98/SillonesCordoba/internal/admin"
	"github.com/Nikolino98/SillonesCordoba/internal/admin/storage"
	"github.com/Nikolino98/SillonesCordoba/internal/cart"
	"github.com/Nikolino98/SillonesCordoba/internal/cart/cache"
	"github.com/Nikolino98/SillonesCordoba/internal/cart/repository"
	"github.com/Nikolino98/SillonesCordoba/internal/catalog"
	"github.com/Nikolino98/SillonesCordoba/internal/checkout"
	"github.com/Nikolino98/SillonesCordoba/internal/config"
	"github.com/Nikolino98/SillonesCordoba/internal/handoff"
	httpapi "github.com/Nikolino98/SillonesCordoba/internal/http"
	"github.com/Nikolino98/SillonesCordoba/internal/payment"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx := context.Background()

	// Mongo holds the per-session carts
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
			log.WithError(err).Error("failed to disconnect from MongoDB")
		}
	}()

	cartRepo := repository.NewMongoRepository(mongoDB)
	if err := cartRepo.CreateIndexes(ctx); err != nil {
		log.WithError(err).Fatal("failed to create MongoDB indexes")
	}

	// Redis backs the cart cache and the purchase snapshots
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("failed to connect to Redis")
	}
	defer redisClient.Close()

	// Postgres holds the catalog
	db, err := catalog.Connect(cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to Postgres")
	}
	defer db.Close()

	catalogRepo := catalog.NewRepository(db)
	if err := catalogRepo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	cartService := cart.NewService(cartRepo, cache.NewRedisCache(redisClient), log)

	formatter := handoff.NewFormatter(cfg.OrderWhatsApp, cfg.SupportWhatsApp)

	paymentClient := payment.NewClient(payment.Config{
		BaseURL:         cfg.MercadoPagoBaseURL,
		AccessToken:     cfg.MercadoPagoAccessToken,
		PublicBaseURL:   cfg.PublicBaseURL,
		NotificationURL: cfg.MercadoPagoWebhookURL,
	}, log)

	phases := checkout.NewPhaseStore()
	defer phases.Close()

	snapshots := checkout.NewRedisSnapshotStore(redisClient, cfg.SnapshotTTL)

	coordinator := checkout.NewCoordinator(cartService, phases, snapshots, paymentClient, formatter, log)

	images, err := storage.NewFSStorage(cfg.MediaDir, cfg.MediaPath)
	if err != nil {
		log.WithError(err).Fatal("failed to prepare media storage")
	}

	adminRepo := admin.NewRepository(db)
	adminService := admin.NewService(adminRepo, images, log)
	authenticator := admin.NewAuthenticator(cfg.AdminUsername, cfg.AdminPasswordHash, []byte(cfg.JWTSecret))

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Cart:           httpapi.NewCartHandler(cartService, catalogRepo),
		Catalog:        httpapi.NewCatalogHandler(catalogRepo),
		Checkout:       httpapi.NewCheckoutHandler(coordinator),
		Contact:        httpapi.NewContactHandler(log),
		Admin:          httpapi.NewAdminHandler(authenticator, adminService),
		Auth:           authenticator,
		MediaDir:       images.Dir(),
		MediaPath:      cfg.MediaPath,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: otelhttp.NewHandler(router, "storefront"),
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("storefront listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("forced shutdown")
	}

	log.Info("server stopped")
}
