package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/teleposta/ict-helpdesk/internal/api/http"
	"github.com/teleposta/ict-helpdesk/internal/api/http/handlers"
	"github.com/teleposta/ict-helpdesk/internal/assistant"
	"github.com/teleposta/ict-helpdesk/internal/auth"
	"github.com/teleposta/ict-helpdesk/internal/cache"
	"github.com/teleposta/ict-helpdesk/internal/config"
	"github.com/teleposta/ict-helpdesk/internal/events"
	"github.com/teleposta/ict-helpdesk/internal/messaging"
	"github.com/teleposta/ict-helpdesk/internal/observability"
	"github.com/teleposta/ict-helpdesk/internal/persistence"
	"github.com/teleposta/ict-helpdesk/internal/ratelimit"
	"github.com/teleposta/ict-helpdesk/internal/repository"
	"github.com/teleposta/ict-helpdesk/internal/service"
	"github.com/teleposta/ict-helpdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	tx := repository.NewTransactor(pool)
	userRepo := repository.NewUserRepository(pool)
	buildingRepo := repository.NewBuildingRepository(pool)
	floorRepo := repository.NewFloorRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	publisher := messaging.NewAMQPPublisher(cfg.Notification)
	defer publisher.Close()
	worker.StartNotificationWorker(dispatcher, publisher, logger)

	directoryService := service.NewDirectoryService(service.DirectoryDependencies{
		BuildingRepo:   buildingRepo,
		FloorRepo:      floorRepo,
		DepartmentRepo: departmentRepo,
		Transactor:     tx,
		Cache:          cache.New(redis.Client, cfg.Cache, logger),
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		UserRepo:   userRepo,
		Directory:  directoryService,
		Transactor: tx,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   userRepo,
		Transactor: tx,
	})
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:       userRepo,
		DepartmentRepo: departmentRepo,
		Transactor:     tx,
		BcryptCost:     cfg.Auth.BcryptCost,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	gateway := assistant.NewGateway(assistant.BuildProviders(cfg.Assistant, logger), cfg.Assistant.Timeout(), logger)
	if gateway.Status().FallbackOnly {
		logger.Warn("no assistant provider configured, chat runs on canned replies")
	}

	metrics := observability.NewMetrics()
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(redis.Client, cfg.RateLimit, logger)
	}

	app := fiber.New(httptransport.AppConfig(cfg.App.Name))
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:          cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(handlers.HealthDependencies{
			ServiceName: cfg.App.Name,
			Version:     cfg.App.Version,
			Postgres:    pg,
			Redis:       redis,
			Metrics:     metrics,
			Assistant:   gateway,
		}),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Directory:      handlers.NewDirectoryHandler(directoryService),
		Users:          handlers.NewUsersHandler(userService),
		Assistant:      handlers.NewAssistantHandler(gateway),
		AuthMiddleware: authMiddleware,
		Limiter:        limiter,
		LoginPerMin:    cfg.RateLimit.LoginPerMin,
		ChatPerMin:     cfg.RateLimit.ChatPerMin,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
