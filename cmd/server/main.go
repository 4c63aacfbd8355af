package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cerfidoc-gamification/internal/api/handlers"
	"cerfidoc-gamification/internal/config"
	"cerfidoc-gamification/internal/jobs"
	"cerfidoc-gamification/internal/logger"
	"cerfidoc-gamification/internal/repository"
	"cerfidoc-gamification/internal/service"
	ws "cerfidoc-gamification/internal/websocket"
	"cerfidoc-gamification/internal/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New()

	// Initialize PostgreSQL with connection pooling
	db, err := initPostgres(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	appLog.Info().Msg("connected to PostgreSQL")

	// Initialize Redis
	redisClient, err := initRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	appLog.Info().Msg("connected to Redis")

	// Initialize repositories
	postgresRepo := repository.NewPostgresRepository(db)
	redisRepo := repository.NewRedisRepository(redisClient)

	// Run migrations
	if err := postgresRepo.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	appLog.Info().Msg("database migrations completed")

	// Mirror worker pool feeds the Redis leaderboard mirror
	mirrorPool := worker.NewPool(cfg.Worker.Count, cfg.Worker.QueueSize, redisRepo, appLog)
	mirrorPool.Start()

	// WebSocket hub broadcasts leaderboard version changes
	hub := ws.NewHub(redisRepo, appLog)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go hub.Run(hubCtx)

	gamificationService := service.NewGamificationService(postgresRepo, redisRepo, mirrorPool, appLog)

	// Background sweep for lapsed reward claims
	expirer := jobs.NewClaimExpirer(postgresRepo, appLog, jobs.ExpirerConfig{
		Interval: cfg.Jobs.ClaimExpiryInterval,
	})
	expCtx, expCancel := context.WithCancel(context.Background())
	defer expCancel()
	if err := expirer.Start(expCtx); err != nil {
		appLog.Warn().Err(err).Msg("failed to start claim expirer")
	}

	gamificationHandler := handlers.NewGamificationHandler(gamificationService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Cerfidoc Gamification Service",
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-User-ID",
	}))

	// Routes
	api := app.Group("/api/gamification")

	// Public routes
	api.Get("/leaderboard", gamificationHandler.GetLeaderboard)
	api.Get("/health", gamificationHandler.HealthCheck)
	api.Post("/init", gamificationHandler.InitDefaults)

	// Authenticated routes
	authed := api.Group("/", handlers.RequireUser)
	authed.Get("/profile", gamificationHandler.GetProfile)
	authed.Get("/badges", gamificationHandler.GetBadges)
	authed.Get("/challenges", gamificationHandler.GetChallenges)
	authed.Get("/rewards", gamificationHandler.GetRewards)
	authed.Get("/user-rewards", gamificationHandler.GetUserRewards)
	authed.Get("/activities", gamificationHandler.GetActivities)
	authed.Get("/my-rank/:period", gamificationHandler.GetMyRank)
	authed.Get("/verification-stats", gamificationHandler.GetVerificationStats)
	authed.Post("/verify-document", gamificationHandler.VerifyDocument)
	authed.Post("/claim-reward", gamificationHandler.ClaimReward)

	// WebSocket route with upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", fiberws.New(func(c *fiberws.Conn) {
		ws.ServeWS(hub, c)
	}))

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Cerfidoc Gamification API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/gamification/profile",
				"GET /api/gamification/badges",
				"GET /api/gamification/challenges",
				"GET /api/gamification/leaderboard",
				"GET /api/gamification/rewards",
				"GET /api/gamification/user-rewards",
				"GET /api/gamification/activities",
				"GET /api/gamification/my-rank/:period",
				"GET /api/gamification/verification-stats",
				"POST /api/gamification/verify-document",
				"POST /api/gamification/claim-reward",
				"WS /ws (WebSocket)",
			},
			"websocket_clients": hub.GetClientCount(),
		})
	})

	// Graceful shutdown with worker pool flushing
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		appLog.Info().Msg("shutting down server")

		expirer.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			appLog.Error().Err(err).Msg("server forced to shutdown")
		}

		// Flush pending mirror writes before closing connections
		if err := mirrorPool.Shutdown(30 * time.Second); err != nil {
			appLog.Error().Err(err).Msg("mirror pool shutdown error")
		}

		if err := postgresRepo.Close(); err != nil {
			appLog.Error().Err(err).Msg("error closing PostgreSQL")
		}
		if err := redisRepo.Close(); err != nil {
			appLog.Error().Err(err).Msg("error closing Redis")
		}

		appLog.Info().Msg("server shutdown complete")
	}()

	// Start server
	port := cfg.Server.Port
	appLog.Info().Int("port", port).Msg("server starting")
	if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initPostgres initializes PostgreSQL connection with connection pooling
func initPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Max connections should cover the mirror workers plus request
	// handlers without blocking
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

// initRedis initializes Redis connection with connection pooling
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     20,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   "Request failed",
		"message": err.Error(),
	})
}
