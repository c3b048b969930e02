package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/nightguard-api/internal/config"
	"github.com/noah-isme/nightguard-api/internal/database"
	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/handler"
	"github.com/noah-isme/nightguard-api/internal/middleware"
	"github.com/noah-isme/nightguard-api/internal/repository"
	"github.com/noah-isme/nightguard-api/internal/repository/memory"
	"github.com/noah-isme/nightguard-api/internal/router"
	"github.com/noah-isme/nightguard-api/internal/service"
	"github.com/noah-isme/nightguard-api/internal/storage"
)

const eventStreamKeepAlive = 25 * time.Second

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "nightguard-api").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("failed to open storage")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer natsConn.Close()
	}

	documents, err := storage.NewLocalStore(cfg.DocumentsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare document storage")
	}

	validate := dto.NewValidator()

	events := service.NewEventService(natsConn, cfg.NATSSubject, logger)
	events.Start(ctx)
	activity := service.NewActivityService(store.Activity(), logger)

	authService := service.NewAuthService(store.Users(), store.Sessions(), validate, service.AuthOptions{
		Secret:   cfg.SessionSecret,
		TTL:      cfg.SessionTTL,
		HashCost: bcrypt.DefaultCost,
	}, events, logger)
	venueService := service.NewVenueService(store.Venues(), validate, events, logger)
	incidentService := service.NewIncidentService(store.Incidents(), store.Venues(), validate, activity, events, logger)
	signInService := service.NewSignInService(store.SignIns(), store.Venues(), validate, activity, events, logger)
	cctvService := service.NewCctvService(store.Cameras(), store.Checks(), validate, activity, events, logger)
	scheduleService := service.NewScheduleService(store.Schedules(), validate, events, logger)
	userService := service.NewUserService(store.Users(), validate, activity, events, logger)
	documentService := service.NewDocumentService(store.Users(), documents, service.DocumentOptions{
		MaxSizeMB: cfg.DocumentsMaxSizeMB,
		OwnerOnly: cfg.DocumentsOwnerOnly,
	}, activity, events, logger)
	dashboardService := service.NewDashboardService(store, redisClient, cfg.DashboardCacheTTL, logger)
	events.AddListener(dashboardService.Listener())

	if created, err := authService.BootstrapAdmin(ctx, cfg.SeedAdminPassword); err != nil {
		logger.Fatal().Err(err).Msg("failed to bootstrap admin user")
	} else if created {
		logger.Warn().Msg("bootstrap admin account created; change its password")
	}

	maintenance, err := service.NewMaintenanceService(authService, cfg.SessionCleanupSchedule, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to schedule maintenance")
	}
	maintenance.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.DocumentsMaxSizeMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{
		Logger:               &logger,
		ExposeInternalErrors: !cfg.IsProduction(),
	})
	router.Register(app, cfg, router.Dependencies{
		Authenticator:    authService,
		LoginLimiter:     middleware.RateLimit("login", cfg.LoginRateLimit, time.Minute),
		AuthHandler:      handler.NewAuthHandler(authService, cfg.SessionCookieSecure, logger),
		VenueHandler:     handler.NewVenueHandler(venueService, logger),
		IncidentHandler:  handler.NewIncidentHandler(incidentService, logger),
		SignInHandler:    handler.NewSignInHandler(signInService, logger),
		CctvHandler:      handler.NewCctvHandler(cctvService, logger),
		ScheduleHandler:  handler.NewScheduleHandler(scheduleService, logger),
		UserHandler:      handler.NewUserHandler(userService, logger),
		DocumentHandler:  handler.NewDocumentHandler(documentService, logger),
		DashboardHandler: handler.NewDashboardHandler(dashboardService, logger),
		EventHandler:     handler.NewEventStreamHandler(events, eventStreamKeepAlive, logger),
		ActivityHandler:  handler.NewActivityHandler(activity, logger),
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("driver", cfg.DatabaseDriver).Msg("server listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, maintenance, cancel, logger)
}

// openStore connects the configured storage driver and migrates SQL schemas.
func openStore(cfg config.Config) (repository.Store, error) {
	switch cfg.DatabaseDriver {
	case config.DriverMemory:
		return memory.NewStore(), nil
	case config.DriverSQLite:
		db, err := database.ConnectSQLite(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		return repository.NewGormStore(db), nil
	default:
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		return repository.NewGormStore(db), nil
	}
}

func waitForShutdown(app *fiber.App, maintenance *service.MaintenanceService, cancel context.CancelFunc, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancelTimeout := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTimeout()

	cancel()
	maintenance.Stop(ctx)

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
