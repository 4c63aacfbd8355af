package service

import (
	"context"
	"fmt"
	"time"

	"cerfidoc-gamification/internal/repository"
	"cerfidoc-gamification/internal/worker"

	"github.com/rs/zerolog"
)

// GamificationService drives the gamification subsystem: profiles, the
// activity ledger, challenges, badges, leaderboards, reward claims, and
// the document verification pipeline that ties them together.
//
// The SQL repository is the source of truth. The Redis repository and the
// mirror pool are optional read-side infrastructure: both may be nil (as
// in tests) and every code path treats them as best effort.
type GamificationService struct {
	postgresRepo *repository.PostgresRepository
	redisRepo    *repository.RedisRepository
	mirrorPool   *worker.Pool
	log          zerolog.Logger

	// now is swapped out in tests to pin streak windows.
	now func() time.Time
}

// NewGamificationService creates a new gamification service
func NewGamificationService(
	postgresRepo *repository.PostgresRepository,
	redisRepo *repository.RedisRepository,
	mirrorPool *worker.Pool,
	log zerolog.Logger,
) *GamificationService {
	return &GamificationService{
		postgresRepo: postgresRepo,
		redisRepo:    redisRepo,
		mirrorPool:   mirrorPool,
		log:          log.With().Str("component", "gamification").Logger(),
		now:          time.Now,
	}
}

// HealthCheck checks the health of the SQL store and, when configured,
// the Redis mirror.
func (s *GamificationService) HealthCheck(ctx context.Context) error {
	if err := s.postgresRepo.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	if s.redisRepo != nil {
		if err := s.redisRepo.Ping(ctx); err != nil {
			return fmt.Errorf("redis health check failed: %w", err)
		}
	}

	return nil
}
