package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"cerfidoc-gamification/internal/config"
	"cerfidoc-gamification/internal/logger"
	"cerfidoc-gamification/internal/models"
	"cerfidoc-gamification/internal/repository"
	"cerfidoc-gamification/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DemoUsers     = 50
	DemoDocuments = 200
	CodeAlphabet  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength    = 8
)

func main() {
	log.Println("Starting seeder for Cerfidoc gamification service...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New()

	// Initialize PostgreSQL
	db, err := initPostgres(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	log.Println("Connected to PostgreSQL")

	// Initialize Redis
	redisClient, err := initRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")

	// Initialize repositories
	postgresRepo := repository.NewPostgresRepository(db)
	redisRepo := repository.NewRedisRepository(redisClient)

	// Run migrations
	if err := postgresRepo.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	// Seed the challenge/badge/reward catalogs
	svc := service.NewGamificationService(postgresRepo, redisRepo, nil, appLog)
	if err := svc.SeedDefaults(ctx); err != nil {
		log.Fatalf("Failed to seed default catalogs: %v", err)
	}
	log.Println("Default catalogs seeded")

	// Seed demo users and documents for local development
	if err := seedUsers(ctx, postgresRepo); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	if err := seedDocuments(ctx, postgresRepo); err != nil {
		log.Fatalf("Failed to seed documents: %v", err)
	}

	// Prime the Redis mirror so the leaderboard endpoint has data before
	// the first verification lands
	if err := primeRedisMirror(ctx, postgresRepo, redisRepo); err != nil {
		log.Fatalf("Failed to prime Redis mirror: %v", err)
	}

	total, err := redisRepo.GetTotalUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to verify Redis: %v", err)
	}
	log.Printf("Seeding completed: %d users mirrored to Redis", total)

	// Close connections
	postgresRepo.Close()
	redisRepo.Close()

	log.Println("Seeder finished")
}

// seedUsers inserts demo users unless some already exist
func seedUsers(ctx context.Context, repo *repository.PostgresRepository) error {
	count, err := repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Users already present (%d), skipping", count)
		return nil
	}

	users := make([]models.User, DemoUsers)
	for i := 0; i < DemoUsers; i++ {
		users[i] = models.User{
			Username: fmt.Sprintf("verifier_%d", i+1),
			FullName: fmt.Sprintf("Demo Verifier %d", i+1),
		}
	}

	if err := repo.CreateUsers(ctx, users); err != nil {
		return fmt.Errorf("insert users: %w", err)
	}
	log.Printf("Inserted %d demo users", DemoUsers)
	return nil
}

// seedDocuments inserts demo documents with random verification codes
func seedDocuments(ctx context.Context, repo *repository.PostgresRepository) error {
	count, err := repo.CountDocuments(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Documents already present (%d), skipping", count)
		return nil
	}

	docs := make([]models.Document, DemoDocuments)
	for i := 0; i < DemoDocuments; i++ {
		docs[i] = models.Document{
			Title:            fmt.Sprintf("Certified Document #%d", i+1),
			VerificationCode: randomCode(),
		}
	}

	if err := repo.CreateDocuments(ctx, docs); err != nil {
		return fmt.Errorf("insert documents: %w", err)
	}
	log.Printf("Inserted %d demo documents", DemoDocuments)
	return nil
}

// primeRedisMirror copies every profile's total points into the Redis
// leaderboard mirror in one pipeline
func primeRedisMirror(ctx context.Context, pg *repository.PostgresRepository, rd *repository.RedisRepository) error {
	scores, err := pg.GetAllProfileScores(ctx)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		log.Println("No profiles to mirror yet")
		return nil
	}

	startTime := time.Now()
	if err := rd.BulkMirrorScores(ctx, scores); err != nil {
		return fmt.Errorf("bulk mirror failed: %w", err)
	}

	log.Printf("Mirrored %d profiles in %v", len(scores), time.Since(startTime))
	return nil
}

// randomCode generates a verification code from an unambiguous alphabet
func randomCode() string {
	b := make([]byte, CodeLength)
	for i := range b {
		b[i] = CodeAlphabet[rand.Intn(len(CodeAlphabet))]
	}
	return string(b)
}

// initPostgres initializes PostgreSQL connection
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

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

// initRedis initializes Redis connection
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
