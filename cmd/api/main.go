package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sakani-app/sakani-backend/api/routes"
	"github.com/sakani-app/sakani-backend/internal/auth"
	"github.com/sakani-app/sakani-backend/internal/catalog"
	"github.com/sakani-app/sakani-backend/internal/documents"
	"github.com/sakani-app/sakani-backend/internal/invoices"
	"github.com/sakani-app/sakani-backend/internal/maintenance"
	"github.com/sakani-app/sakani-backend/internal/notifications"
	"github.com/sakani-app/sakani-backend/internal/orders"
	"github.com/sakani-app/sakani-backend/internal/users"
	"github.com/sakani-app/sakani-backend/pkg/config"
	"github.com/sakani-app/sakani-backend/pkg/db"
	"github.com/sakani-app/sakani-backend/pkg/logger"
	"github.com/sakani-app/sakani-backend/pkg/metrics"
	"github.com/sakani-app/sakani-backend/pkg/migrate"
	"github.com/sakani-app/sakani-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	platformMetrics := metrics.NewPlatformMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	var pushSender notifications.PushSender
	if cfg.Notify.PushEnabled() {
		pushSender, err = notifications.NewFCMSender(context.Background(), cfg.Notify)
		if err != nil {
			logg.Error(context.Background(), "failed to create push sender", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "push delivery not configured, notifications will be stored only")
	}

	var emailSender notifications.EmailSender
	if cfg.Notify.EmailEnabled() {
		emailSender, err = notifications.NewSendgridSender(cfg.Notify)
		if err != nil {
			logg.Error(context.Background(), "failed to create email sender", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "email delivery not configured, notifications will be stored only")
	}

	notificationsService, err := notifications.NewService(notifications.ServiceParams{
		Repo:    notifications.NewRepository(dbClient.DB()),
		Users:   userRepo,
		Push:    pushSender,
		Email:   emailSender,
		Log:     logg,
		Metrics: platformMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:     ordersRepo,
		Catalog:  catalogRepo,
		Tx:       dbClient,
		Metrics:  platformMetrics,
		Notifier: notificationsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	invoicesRepo := invoices.NewRepository(dbClient.DB())
	invoicesService, err := invoices.NewService(invoices.ServiceParams{
		Repo:     invoicesRepo,
		Users:    userRepo,
		Tx:       dbClient,
		Metrics:  platformMetrics,
		Notifier: notificationsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create invoices service", err)
		os.Exit(1)
	}

	maintenanceService, err := maintenance.NewService(maintenance.ServiceParams{
		Repo:     maintenance.NewRepository(dbClient.DB()),
		Admins:   userRepo,
		Tx:       dbClient,
		Notifier: notificationsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create maintenance service", err)
		os.Exit(1)
	}

	documentsService, err := documents.NewService(documents.ServiceParams{
		Repo:     documents.NewRepository(dbClient.DB()),
		Invoices: invoicesRepo,
		Orders:   ordersRepo,
		Renderer: documents.NewRenderer(cfg.Documents),
		Config:   cfg.Documents,
		Metrics:  platformMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create documents service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			authService,
			catalogService,
			ordersService,
			invoicesService,
			maintenanceService,
			notificationsService,
			documentsService,
		),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
