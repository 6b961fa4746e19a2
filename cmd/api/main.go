package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/bank-backoffice/internal/api/http"
	"github.com/spec-kit/bank-backoffice/internal/api/http/handlers"
	"github.com/spec-kit/bank-backoffice/internal/auth"
	"github.com/spec-kit/bank-backoffice/internal/config"
	"github.com/spec-kit/bank-backoffice/internal/events"
	"github.com/spec-kit/bank-backoffice/internal/observability"
	"github.com/spec-kit/bank-backoffice/internal/persistence"
	"github.com/spec-kit/bank-backoffice/internal/repository"
	"github.com/spec-kit/bank-backoffice/internal/service"
	"github.com/spec-kit/bank-backoffice/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	customerRepo := repository.NewCustomerRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	revocations := auth.NewRevocationList(redis.Client)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		CustomerRepo:      customerRepo,
		StaffRepo:         staffRepo,
		PasswordResetRepo: resetRepo,
		Revocations:       revocations,
		Dispatcher:        dispatcher,
	})
	registrationService := service.NewRegistrationService(*cfg, customerRepo, authService.TokenManager(), dispatcher)
	customerService := service.NewCustomerService(customerRepo)
	staffService := service.NewStaffService(*cfg, customerRepo, staffRepo, dispatcher)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	resolver := auth.NewPrincipalResolver(customerRepo, staffRepo)
	accessGate := auth.NewAccessGate(authService.TokenManager(), resolver, revocations)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.Identity.MaxUploadBytes,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Customers:  handlers.NewCustomersHandler(authService, registrationService, customerService),
		Staff:      handlers.NewStaffHandler(authService, staffService),
		Auth:       handlers.NewAuthHandler(authService),
		AccessGate: accessGate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
