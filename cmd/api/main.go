package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pasarlokal/pasarlokal-backend/api/routes"
	"github.com/pasarlokal/pasarlokal-backend/internal/complaints"
	"github.com/pasarlokal/pasarlokal-backend/internal/dispatch"
	"github.com/pasarlokal/pasarlokal-backend/internal/fees"
	"github.com/pasarlokal/pasarlokal-backend/internal/ledger"
	"github.com/pasarlokal/pasarlokal-backend/internal/notifications"
	"github.com/pasarlokal/pasarlokal-backend/internal/orders"
	"github.com/pasarlokal/pasarlokal-backend/pkg/config"
	"github.com/pasarlokal/pasarlokal-backend/pkg/db"
	"github.com/pasarlokal/pasarlokal-backend/pkg/logger"
	"github.com/pasarlokal/pasarlokal-backend/pkg/migrate"
	"github.com/pasarlokal/pasarlokal-backend/pkg/outbox"
	"github.com/pasarlokal/pasarlokal-backend/pkg/redis"
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

	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	regionsRepo := fees.NewRepository(dbClient.DB())

	feesSvc, err := fees.NewService(regionsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create fees service", err)
		os.Exit(1)
	}

	ledgerSvc, err := ledger.NewService(ledger.NewRepository(dbClient.DB()), dbClient, outboxSvc, cfg.Engine)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersSvc, err := orders.NewService(ordersRepo, regionsRepo, dbClient, outboxSvc, ledgerSvc, cfg.Engine)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	dispatchSvc, err := dispatch.NewService(dispatch.NewRepository(dbClient.DB()), ordersRepo, ordersSvc, dbClient, cfg.Engine)
	if err != nil {
		logg.Error(context.Background(), "failed to create dispatch service", err)
		os.Exit(1)
	}

	complaintsSvc, err := complaints.NewService(complaints.NewRepository(dbClient.DB()), ordersRepo, ledgerSvc, dbClient, outboxSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create complaints service", err)
		os.Exit(1)
	}

	notificationsSvc, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Orders:        ordersSvc,
			Dispatch:      dispatchSvc,
			Ledger:        ledgerSvc,
			Complaints:    complaintsSvc,
			Fees:          feesSvc,
			Notifications: notificationsSvc,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithFields(ctx, map[string]any{"signal": sig.String()}), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
