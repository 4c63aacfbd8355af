package service

import (
	"context"
	"testing"

	"cerfidoc-gamification/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBadges(t *testing.T, svc *GamificationService, badges ...models.Badge) {
	t.Helper()
	require.NoError(t, svc.postgresRepo.CreateBadges(context.Background(), badges))
}

func TestScanAndGrantBadgesGrantsQualifying(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "lara")
	seedBadges(t, svc,
		models.Badge{Name: "Starter", RequiredPoints: 50, Tier: models.TierBronze},
		models.Badge{Name: "Committed", RequiredPoints: 500, Tier: models.TierSilver},
	)

	_, err := svc.AddPoints(context.Background(), user.ID, 60, models.ActivityVerification, "points", nil)
	require.NoError(t, err)

	require.NoError(t, svc.scanAndGrantBadges(context.Background(), user.ID))

	grants, err := svc.GetUserBadges(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, "Starter", grants[0].Badge.Name)

	// 60 earned plus the 50-point badge bonus
	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 110, profile.TotalPoints)
}

func TestScanAndGrantBadgesUsesSnapshot(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "mike")

	// Thresholds 50 and 100: the first grant's bonus pushes the balance
	// past 100, but evaluation uses the snapshot taken before the scan
	seedBadges(t, svc,
		models.Badge{Name: "Fifty", RequiredPoints: 50, Tier: models.TierBronze},
		models.Badge{Name: "Hundred", RequiredPoints: 100, Tier: models.TierBronze},
	)

	_, err := svc.AddPoints(context.Background(), user.ID, 60, models.ActivityVerification, "points", nil)
	require.NoError(t, err)

	require.NoError(t, svc.scanAndGrantBadges(context.Background(), user.ID))

	grants, err := svc.GetUserBadges(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, "Fifty", grants[0].Badge.Name)

	// The next scan sees the bonus-inflated balance and grants the second
	require.NoError(t, svc.scanAndGrantBadges(context.Background(), user.ID))

	grants, err = svc.GetUserBadges(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, grants, 2)
}

func TestScanAndGrantBadgesSeveralInOneScan(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "nina")
	seedBadges(t, svc,
		models.Badge{Name: "Fifty", RequiredPoints: 50, Tier: models.TierBronze},
		models.Badge{Name: "FiveHundred", RequiredPoints: 500, Tier: models.TierSilver},
	)

	_, err := svc.AddPoints(context.Background(), user.ID, 600, models.ActivityVerification, "points", nil)
	require.NoError(t, err)

	require.NoError(t, svc.scanAndGrantBadges(context.Background(), user.ID))

	grants, err := svc.GetUserBadges(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, grants, 2)

	// 600 earned plus two 50-point bonuses
	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 700, profile.TotalPoints)
}

func TestScanAndGrantBadgesIdempotentWithoutNewPoints(t *testing.T) {
	svc := newTestService(t)
	user := createTestUser(t, svc, "oona")
	seedBadges(t, svc,
		models.Badge{Name: "Starter", RequiredPoints: 50, Tier: models.TierBronze},
	)

	_, err := svc.AddPoints(context.Background(), user.ID, 60, models.ActivityVerification, "points", nil)
	require.NoError(t, err)

	require.NoError(t, svc.scanAndGrantBadges(context.Background(), user.ID))
	require.NoError(t, svc.scanAndGrantBadges(context.Background(), user.ID))

	grants, err := svc.GetUserBadges(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, grants, 1)

	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 110, profile.TotalPoints)
}
