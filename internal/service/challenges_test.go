package service

import (
	"context"
	"testing"

	"cerfidoc-gamification/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func seedChallenge(t *testing.T, svc *GamificationService, title string, target, points int) models.Challenge {
	t.Helper()

	challenges := []models.Challenge{{
		Title:            title,
		Points:           points,
		RequiredActions:  datatypes.NewJSONSlice([]string{"verification"}),
		CompletionTarget: target,
		DifficultyLevel:  1,
		IsActive:         true,
	}}
	require.NoError(t, svc.postgresRepo.CreateChallenges(context.Background(), challenges))
	return challenges[0]
}

func TestAdvanceChallengesSingleTargetCompletesImmediately(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "gina")
	seedChallenge(t, svc, "First Verification", 1, 50)

	require.NoError(t, svc.advanceChallenges(context.Background(), user.ID, "verification"))

	progress, err := svc.postgresRepo.GetUserChallengeProgress(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.True(t, progress[0].IsCompleted)
	assert.NotNil(t, progress[0].CompletedAt)
	require.NotNil(t, progress[0].AwardedPoints)
	assert.Equal(t, 50, *progress[0].AwardedPoints)

	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, profile.TotalPoints)
}

func TestAdvanceChallengesIncrementsTowardsTarget(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "hank")
	seedChallenge(t, svc, "Verify Three", 3, 120)

	for i := 0; i < 2; i++ {
		require.NoError(t, svc.advanceChallenges(context.Background(), user.ID, "verification"))
	}

	progress, err := svc.postgresRepo.GetUserChallengeProgress(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, 2, progress[0].Current)
	assert.False(t, progress[0].IsCompleted)

	// No points until completion
	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.TotalPoints)

	// Third action hits the target and awards the points
	require.NoError(t, svc.advanceChallenges(context.Background(), user.ID, "verification"))

	progress, err = svc.postgresRepo.GetUserChallengeProgress(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, progress[0].IsCompleted)

	profile, err = svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, profile.TotalPoints)
}

func TestAdvanceChallengesCompletedRowsAreFrozen(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "iris")
	seedChallenge(t, svc, "First Verification", 1, 50)

	require.NoError(t, svc.advanceChallenges(context.Background(), user.ID, "verification"))
	require.NoError(t, svc.advanceChallenges(context.Background(), user.ID, "verification"))
	require.NoError(t, svc.advanceChallenges(context.Background(), user.ID, "verification"))

	// Points are awarded exactly once
	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, profile.TotalPoints)

	progress, err := svc.postgresRepo.GetUserChallengeProgress(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, 1, progress[0].Current)
}

func TestAdvanceChallengesIgnoresUnrelatedActions(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "jack")
	seedChallenge(t, svc, "Verify Three", 3, 120)

	require.NoError(t, svc.advanceChallenges(context.Background(), user.ID, "streak"))

	progress, err := svc.postgresRepo.GetUserChallengeProgress(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, progress)
}

func TestGetUserChallengesCreatesZeroedRows(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "kate")
	seedChallenge(t, svc, "Verify Three", 3, 120)
	seedChallenge(t, svc, "Verify Ten", 10, 300)

	result, err := svc.GetUserChallenges(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, result, 2)

	for _, p := range result {
		assert.Equal(t, 0, p.Current)
		assert.False(t, p.IsCompleted)
		assert.NotEmpty(t, p.Challenge.Title)
	}

	// Rows persist, so a second call returns the same progress rows
	again, err := svc.GetUserChallenges(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, result[0].ID, again[0].ID)
}
