package service

import (
	"context"
	"errors"
	"math"
	"time"

	"cerfidoc-gamification/internal/models"
	"cerfidoc-gamification/internal/worker"

	"gorm.io/gorm"
)

// periodWindow returns the inclusive [start, end] window for a period
// anchored at now: today, the current Sun–Sat week, the current month, or
// the fixed all-time window (2020-01-01 .. 2100-12-31).
func periodWindow(period string, now time.Time) (time.Time, time.Time) {
	switch period {
	case models.PeriodDaily:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)

	case models.PeriodWeekly:
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		start := startOfDay.AddDate(0, 0, -int(now.Weekday()))
		return start, start.AddDate(0, 0, 7).Add(-time.Nanosecond)

	case models.PeriodMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	default: // models.PeriodTotal
		start := time.Date(2020, time.January, 1, 0, 0, 0, 0, now.Location())
		end := time.Date(2100, time.December, 31, 23, 59, 59, 0, now.Location())
		return start, end
	}
}

// recomputeLeaderboards refreshes the user's entry in all four period
// buckets and re-ranks each touched bucket in full. Period scores come
// from the ledger; the all-time score is the profile total.
func (s *GamificationService) recomputeLeaderboards(ctx context.Context, userID uint) error {
	now := s.now()

	for _, period := range []string{models.PeriodDaily, models.PeriodWeekly, models.PeriodMonthly} {
		start, end := periodWindow(period, now)

		score, err := s.postgresRepo.SumPointsInWindow(ctx, userID, start, end)
		if err != nil {
			return err
		}

		if err := s.upsertEntry(ctx, userID, period, start, end, score); err != nil {
			return err
		}

		if err := s.rerankBucket(ctx, period, start, end); err != nil {
			return err
		}
	}

	profile, err := s.postgresRepo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return err
	}

	start, end := periodWindow(models.PeriodTotal, now)
	if err := s.upsertEntry(ctx, userID, models.PeriodTotal, start, end, profile.TotalPoints); err != nil {
		return err
	}
	if err := s.rerankBucket(ctx, models.PeriodTotal, start, end); err != nil {
		return err
	}

	s.submitMirror(ctx, userID, profile.TotalPoints)
	return nil
}

// upsertEntry writes the user's score into a period bucket, creating the
// entry on first touch. Rank is filled in by the bucket re-rank.
func (s *GamificationService) upsertEntry(ctx context.Context, userID uint, period string, start, end time.Time, score int) error {
	entry, err := s.postgresRepo.GetLeaderboardEntry(ctx, userID, period, start, end)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		fresh := models.LeaderboardEntry{
			UserID:      userID,
			Period:      period,
			PeriodStart: start,
			PeriodEnd:   end,
			Score:       score,
		}
		return s.postgresRepo.CreateLeaderboardEntry(ctx, &fresh)
	}

	return s.postgresRepo.UpdateLeaderboardScore(ctx, entry.ID, score)
}

// rerankBucket rewrites the rank of every entry in a period bucket:
// 1-based positions by descending score. O(n) writes per call.
func (s *GamificationService) rerankBucket(ctx context.Context, period string, start, end time.Time) error {
	entries, err := s.postgresRepo.GetPeriodEntries(ctx, period, start, end)
	if err != nil {
		return err
	}

	for i, entry := range entries {
		if err := s.postgresRepo.UpdateEntryRank(ctx, entry.ID, i+1); err != nil {
			return err
		}
	}

	return nil
}

// submitMirror pushes the user's all-time score towards the Redis mirror
// via the worker pool. Best effort: a missing pool or a full queue only
// logs.
func (s *GamificationService) submitMirror(ctx context.Context, userID uint, totalPoints int) {
	if s.mirrorPool == nil {
		return
	}

	user, err := s.postgresRepo.GetUserByID(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Uint("user_id", userID).Msg("skipping leaderboard mirror, user lookup failed")
		return
	}

	// Queue-full errors are already logged by the pool
	_ = s.mirrorPool.Submit(worker.MirrorTask{
		Username: user.Username,
		Points:   totalPoints,
	})
}

// GetLeaderboard returns the top of a period bucket joined with user
// display fields.
func (s *GamificationService) GetLeaderboard(ctx context.Context, period string, limit int) ([]models.LeaderboardRow, error) {
	if !models.ValidPeriod(period) {
		period = models.PeriodTotal
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	start, end := periodWindow(period, s.now())
	return s.postgresRepo.GetLeaderboardRows(ctx, period, start, end, limit)
}

// GetUserPosition returns the user's entry in a period bucket plus the
// bucket size and percentile. ErrNotRanked when the user has no entry.
func (s *GamificationService) GetUserPosition(ctx context.Context, userID uint, period string) (*models.UserPosition, error) {
	if !models.ValidPeriod(period) {
		period = models.PeriodTotal
	}

	start, end := periodWindow(period, s.now())

	entry, err := s.postgresRepo.GetLeaderboardEntry(ctx, userID, period, start, end)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotRanked
		}
		return nil, err
	}

	totalPlayers, err := s.postgresRepo.CountPeriodEntries(ctx, period, start, end)
	if err != nil {
		return nil, err
	}

	percentile := 0
	if totalPlayers > 0 {
		percentile = int(math.Round((1 - float64(entry.Rank)/float64(totalPlayers)) * 100))
	}

	return &models.UserPosition{
		UserID:       userID,
		Period:       period,
		Score:        entry.Score,
		Rank:         entry.Rank,
		TotalPlayers: totalPlayers,
		Percentile:   percentile,
	}, nil
}
