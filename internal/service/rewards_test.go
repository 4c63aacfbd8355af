package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"cerfidoc-gamification/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReward(t *testing.T, svc *GamificationService, reward models.Reward) models.Reward {
	t.Helper()

	rewards := []models.Reward{reward}
	require.NoError(t, svc.postgresRepo.CreateRewards(context.Background(), rewards))
	return rewards[0]
}

func TestGetAvailableRewardsAnnotatesClaimability(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "wendy")
	seedReward(t, svc, models.Reward{Name: "Cheap", RewardType: "virtual", RequiredPoints: 100, IsActive: true})
	seedReward(t, svc, models.Reward{Name: "Pricey", RewardType: "physical", RequiredPoints: 1000, IsActive: true})

	_, err := svc.AddPoints(context.Background(), user.ID, 250, models.ActivityVerification, "points", nil)
	require.NoError(t, err)

	available, err := svc.GetAvailableRewards(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, available, 2)

	// Cheapest first
	assert.Equal(t, "Cheap", available[0].Name)
	assert.True(t, available[0].CanClaim)
	assert.Equal(t, 0, available[0].PointsNeeded)

	assert.Equal(t, "Pricey", available[1].Name)
	assert.False(t, available[1].CanClaim)
	assert.Equal(t, 750, available[1].PointsNeeded)
}

func TestClaimRewardHappyPath(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "xena")
	reward := seedReward(t, svc, models.Reward{
		Name: "10% discount", RewardType: "discount", Value: 10,
		RequiredPoints: 100, Code: "DSC-10PERCENT", IsActive: true,
	})

	_, err := svc.AddPoints(context.Background(), user.ID, 150, models.ActivityVerification, "points", nil)
	require.NoError(t, err)

	at := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	pinNow(svc, at)

	claim, err := svc.ClaimReward(context.Background(), user.ID, reward.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ClaimStatusPending, claim.Status)
	assert.Equal(t, "DSC-10PERCENT", claim.RedemptionCode)
	assert.Equal(t, at.AddDate(0, 3, 0), claim.ExpiresAt)
	assert.Equal(t, reward.Name, claim.Reward.Name)

	_, err = uuid.Parse(claim.ReferenceID)
	assert.NoError(t, err)

	// Points are not deducted; the claim leaves a zero-point ledger row
	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 150, profile.TotalPoints)

	activities, err := svc.GetUserActivities(context.Background(), user.ID, 20)
	require.NoError(t, err)
	require.Len(t, activities, 2)

	var claimRows int
	for _, a := range activities {
		if a.ActivityType == models.ActivityRewardClaimed {
			claimRows++
			assert.Equal(t, 0, a.PointsEarned)
		}
	}
	assert.Equal(t, 1, claimRows)
}

func TestClaimRewardGeneratesCodeWhenCatalogHasNone(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "yuri")
	reward := seedReward(t, svc, models.Reward{
		Name: "Branded mug", RewardType: "physical", RequiredPoints: 100, IsActive: true,
	})

	_, err := svc.AddPoints(context.Background(), user.ID, 150, models.ActivityVerification, "points", nil)
	require.NoError(t, err)

	claim, err := svc.ClaimReward(context.Background(), user.ID, reward.ID)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^BRA-\d{6}$`), claim.RedemptionCode)
}

func TestClaimRewardInsufficientPoints(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "zoe")
	reward := seedReward(t, svc, models.Reward{
		Name: "Pricey", RewardType: "physical", RequiredPoints: 1000, IsActive: true,
	})

	_, err := svc.AddPoints(context.Background(), user.ID, 100, models.ActivityVerification, "points", nil)
	require.NoError(t, err)

	_, err = svc.ClaimReward(context.Background(), user.ID, reward.ID)
	require.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Contains(t, err.Error(), "900 more points")
}

func TestClaimRewardExactlyOnce(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "abel")
	reward := seedReward(t, svc, models.Reward{
		Name: "Cheap", RewardType: "virtual", RequiredPoints: 50, IsActive: true,
	})

	_, err := svc.AddPoints(context.Background(), user.ID, 100, models.ActivityVerification, "points", nil)
	require.NoError(t, err)

	_, err = svc.ClaimReward(context.Background(), user.ID, reward.ID)
	require.NoError(t, err)

	_, err = svc.ClaimReward(context.Background(), user.ID, reward.ID)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)

	claims, err := svc.GetUserRewards(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, claims, 1)
}

func TestClaimRewardUnknownOrInactive(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "beth")
	inactive := seedReward(t, svc, models.Reward{
		Name: "Retired", RewardType: "virtual", RequiredPoints: 10, IsActive: false,
	})

	_, err := svc.AddPoints(context.Background(), user.ID, 100, models.ActivityVerification, "points", nil)
	require.NoError(t, err)

	_, err = svc.ClaimReward(context.Background(), user.ID, 9999)
	assert.ErrorIs(t, err, ErrRewardNotFound)

	_, err = svc.ClaimReward(context.Background(), user.ID, inactive.ID)
	assert.ErrorIs(t, err, ErrRewardNotFound)
}

func TestExpireOverdueClaims(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "cora")
	reward := seedReward(t, svc, models.Reward{
		Name: "Cheap", RewardType: "virtual", RequiredPoints: 50, IsActive: true,
	})

	_, err := svc.AddPoints(context.Background(), user.ID, 100, models.ActivityVerification, "points", nil)
	require.NoError(t, err)

	at := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	pinNow(svc, at)

	claim, err := svc.ClaimReward(context.Background(), user.ID, reward.ID)
	require.NoError(t, err)

	// Before the grace period lapses, nothing happens
	n, err := svc.postgresRepo.ExpireOverdueClaims(context.Background(), at.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Zero(t, n)

	// After three months the claim expires, exactly once
	n, err = svc.postgresRepo.ExpireOverdueClaims(context.Background(), at.AddDate(0, 4, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.postgresRepo.ExpireOverdueClaims(context.Background(), at.AddDate(0, 4, 0))
	require.NoError(t, err)
	assert.Zero(t, n)

	updated, err := svc.postgresRepo.GetClaim(context.Background(), user.ID, claim.RewardID)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusExpired, updated.Status)
}

func TestGenerateRedemptionCode(t *testing.T) {
	assert.Regexp(t, `^BRA-\d{6}$`, generateRedemptionCode("Branded mug"))
	assert.Regexp(t, `^GO-\d{6}$`, generateRedemptionCode("Go"))
}
