package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/classifier"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/integrations"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	syncJobRepo := repository.NewSyncJobRepository(pool)
	refRepo := repository.NewExternalRefRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	notificationService := service.NewNotificationService(dispatcher, logger)
	notificationService.RegisterHandlers()

	refreshStore := auth.NewRefreshStore(redis.Client, cfg.Auth.RefreshTokenTTLDays)
	authService := service.NewAuthService(cfg.Auth, userRepo, refreshStore)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	intakeService := service.NewIntakeService(service.IntakeDependencies{
		TicketRepo:    ticketRepo,
		SyncJobRepo:   syncJobRepo,
		AuditRepo:     auditRepo,
		Suggester:     classifier.NewRuleSuggester(cfg.Assist.Enabled),
		Selector:      service.NewFirstAgentSelector(userRepo),
		Dispatcher:    dispatcher,
		Logger:        logger,
		AssistTimeout: cfg.Assist.Timeout(),
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		RefRepo:     refRepo,
		SyncJobRepo: syncJobRepo,
		AuditRepo:   auditRepo,
		Dispatcher:  dispatcher,
	})

	syncWorker := worker.NewSyncWorker(cfg.Sync, worker.SyncWorkerDependencies{
		SyncJobRepo: syncJobRepo,
		TicketRepo:  ticketRepo,
		RefRepo:     refRepo,
		AuditRepo:   auditRepo,
		Adapters: integrations.NewRegistry(
			integrations.NewGLPIAdapter(cfg.Integrations.GLPIEnabled),
			integrations.NewSolmanAdapter(cfg.Integrations.SolmanEnabled),
		),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	syncWorker.Start(ctx)

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.App.Env == "production"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(intakeService, ticketService),
		AgentTickets:   handlers.NewAgentTicketsHandler(ticketService),
		Admin:          handlers.NewAdminHandler(ticketService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	syncWorker.Stop()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
