package service

import (
	"context"
	"testing"
	"time"

	"cerfidoc-gamification/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfileCreatesOnFirstAccess(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "alice")

	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, profile.UserID)
	assert.Equal(t, 0, profile.TotalPoints)
	assert.Equal(t, 1, profile.Level)
	assert.Equal(t, models.RankNovice, profile.Rank)
	assert.Nil(t, profile.LastActive)

	// Second access returns the same row
	again, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
}

func TestAddPointsDerivesLevelAndRank(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "bob")

	profile, err := svc.AddPoints(context.Background(), user.ID, 995, models.ActivityVerification, "warmup", nil)
	require.NoError(t, err)
	assert.Equal(t, 995, profile.TotalPoints)
	assert.Equal(t, 1, profile.Level)
	assert.Equal(t, models.RankNovice, profile.Rank)

	// Crossing the 1000-point threshold bumps to level 2
	profile, err = svc.AddPoints(context.Background(), user.ID, 15, models.ActivityVerification, "threshold", nil)
	require.NoError(t, err)
	assert.Equal(t, 1010, profile.TotalPoints)
	assert.Equal(t, 2, profile.Level)
	assert.Equal(t, models.RankBeginnerVerifier, profile.Rank)
}

func TestAddPointsAppendsLedgerRow(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "carol")

	_, err := svc.AddPoints(context.Background(), user.ID, 15, models.ActivityVerification, "Verified document: Diploma", nil)
	require.NoError(t, err)

	activities, err := svc.GetUserActivities(context.Background(), user.ID, 20)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityVerification, activities[0].ActivityType)
	assert.Equal(t, 15, activities[0].PointsEarned)
	assert.Equal(t, "Verified document: Diploma", activities[0].Description)
}

func TestAddPointsZeroDeltaStillRecordsActivity(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "dave")

	profile, err := svc.AddPoints(context.Background(), user.ID, 0, models.ActivityRewardClaimed, "Reward claimed: Free document", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.TotalPoints)

	activities, err := svc.GetUserActivities(context.Background(), user.ID, 20)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, 0, activities[0].PointsEarned)
}

func TestVerificationStatsStreaks(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "erin")

	day1 := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)

	// First ever verification starts both counters
	pinNow(svc, day1)
	profile, err := svc.updateVerificationStats(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.ConsecutiveDays)
	assert.Equal(t, 1, profile.VerificationStreak)
	assert.Equal(t, 1, profile.TotalVerifications)

	// Same calendar day leaves consecutive days alone
	pinNow(svc, day1.Add(5*time.Hour))
	profile, err = svc.updateVerificationStats(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.ConsecutiveDays)
	assert.Equal(t, 2, profile.VerificationStreak)

	// Next day extends the run
	pinNow(svc, day1.AddDate(0, 0, 1))
	profile, err = svc.updateVerificationStats(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.ConsecutiveDays)
	assert.Equal(t, 3, profile.VerificationStreak)

	// A gap resets consecutive days but never the lifetime streak
	pinNow(svc, day1.AddDate(0, 0, 5))
	profile, err = svc.updateVerificationStats(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.ConsecutiveDays)
	assert.Equal(t, 4, profile.VerificationStreak)
	assert.Equal(t, 4, profile.TotalVerifications)
}

func TestGetUserActivitiesClampsLimit(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "frank")

	for i := 0; i < 3; i++ {
		_, err := svc.AddPoints(context.Background(), user.ID, 10, models.ActivityVerification, "row", nil)
		require.NoError(t, err)
	}

	// Invalid limits fall back to the default of 20
	activities, err := svc.GetUserActivities(context.Background(), user.ID, -1)
	require.NoError(t, err)
	assert.Len(t, activities, 3)

	activities, err = svc.GetUserActivities(context.Background(), user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, activities, 2)
}
