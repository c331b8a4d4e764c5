package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/communitybridge/helpdesk-service/internal/api/http"
	"github.com/communitybridge/helpdesk-service/internal/api/http/handlers"
	"github.com/communitybridge/helpdesk-service/internal/auth"
	"github.com/communitybridge/helpdesk-service/internal/config"
	"github.com/communitybridge/helpdesk-service/internal/events"
	"github.com/communitybridge/helpdesk-service/internal/observability"
	"github.com/communitybridge/helpdesk-service/internal/persistence"
	"github.com/communitybridge/helpdesk-service/internal/repository"
	"github.com/communitybridge/helpdesk-service/internal/service"
	"github.com/communitybridge/helpdesk-service/internal/worker"
	"github.com/communitybridge/helpdesk-service/internal/workload"
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

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	requestRepo := repository.NewRequestRepository(pool)
	technicianRepo := repository.NewTechnicianRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	lifecycleService := service.NewLifecycleService(service.LifecycleDependencies{
		RequestRepo:    requestRepo,
		TechnicianRepo: technicianRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
		Metrics:        metrics,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		RequestRepo:    requestRepo,
		TechnicianRepo: technicianRepo,
		Lifecycle:      lifecycleService,
		Weighted:       workload.NewWeighted(requestRepo),
		Simple:         workload.NewSimpleCount(requestRepo),
		Cache:          redis,
		CacheTTL:       cfg.Helpdesk.DashboardCacheTTL(),
		Logger:         logger,
		Metrics:        metrics,
	})
	requestService := service.NewRequestService(requestRepo, dispatcher, logger)
	notificationService := service.NewNotificationService(notificationRepo, dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret)
	authMiddleware := auth.NewAuthMiddleware(tokenManager, technicianRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Requests:       handlers.NewRequestsHandler(requestService, assignmentService, lifecycleService),
		Assignments:    handlers.NewAssignmentsHandler(assignmentService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
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
