package jobs

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"cerfidoc-gamification/internal/models"
	"cerfidoc-gamification/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *repository.PostgresRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repo := repository.NewPostgresRepository(db)
	require.NoError(t, repo.AutoMigrate())

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

func createLapsedClaim(t *testing.T, repo *repository.PostgresRepository, refID string) {
	t.Helper()

	claim := models.ClaimedReward{
		ReferenceID:    refID,
		UserID:         1,
		RewardID:       1,
		Status:         models.ClaimStatusPending,
		RedemptionCode: "TST-000001",
		ExpiresAt:      time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.CreateClaim(context.Background(), &claim))
}

func TestClaimExpirerSweep(t *testing.T) {
	repo := newTestRepo(t)
	createLapsedClaim(t, repo, "ref-1")

	e := NewClaimExpirer(repo, zerolog.Nop(), ExpirerConfig{})
	e.sweep(context.Background())

	assert.Equal(t, int64(1), e.expired.Load())
	assert.Equal(t, int64(1), e.sweeps.Load())

	claim, err := repo.GetClaim(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusExpired, claim.Status)

	// A second sweep finds nothing left to expire
	e.sweep(context.Background())
	assert.Equal(t, int64(1), e.expired.Load())
	assert.Equal(t, int64(2), e.sweeps.Load())
}

func TestClaimExpirerLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	createLapsedClaim(t, repo, "ref-2")

	e := NewClaimExpirer(repo, zerolog.Nop(), ExpirerConfig{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, e.Start(ctx))
	assert.True(t, e.IsRunning())

	// Starting twice is an error
	assert.Error(t, e.Start(ctx))

	e.Stop()
	assert.False(t, e.IsRunning())

	// The startup sweep ran before the first tick
	metrics := e.GetMetrics()
	assert.Equal(t, int64(1), metrics["sweeps"])
	assert.Equal(t, int64(1), metrics["expired"])
}
