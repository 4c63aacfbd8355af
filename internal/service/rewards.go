package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"cerfidoc-gamification/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// claimGraceMonths is how long a redemption code stays valid after claim.
const claimGraceMonths = 3

// GetAvailableRewards returns active rewards annotated with whether the
// user's current balance covers each one.
func (s *GamificationService) GetAvailableRewards(ctx context.Context, userID uint) ([]models.RewardAvailability, error) {
	profile, err := s.postgresRepo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	rewards, err := s.postgresRepo.GetActiveRewards(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]models.RewardAvailability, 0, len(rewards))
	for _, reward := range rewards {
		needed := reward.RequiredPoints - profile.TotalPoints
		if needed < 0 {
			needed = 0
		}
		available = append(available, models.RewardAvailability{
			Reward:       reward,
			CanClaim:     profile.TotalPoints >= reward.RequiredPoints,
			PointsNeeded: needed,
		})
	}

	return available, nil
}

// GetUserRewards returns the user's claims, newest first.
func (s *GamificationService) GetUserRewards(ctx context.Context, userID uint) ([]models.ClaimedReward, error) {
	return s.postgresRepo.GetUserClaims(ctx, userID)
}

// ClaimReward redeems a catalog reward against the user's point balance.
// Points are checked at claim time only and are not deducted; a reward is
// claimable at most once per user. The claim is recorded as a zero-point
// ledger row.
func (s *GamificationService) ClaimReward(ctx context.Context, userID, rewardID uint) (*models.ClaimedReward, error) {
	reward, err := s.postgresRepo.GetActiveReward(ctx, rewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}

	profile, err := s.postgresRepo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.TotalPoints < reward.RequiredPoints {
		return nil, fmt.Errorf("%w: you need %d more points", ErrInsufficientPoints, reward.RequiredPoints-profile.TotalPoints)
	}

	_, err = s.postgresRepo.GetClaim(ctx, userID, rewardID)
	if err == nil {
		return nil, ErrAlreadyClaimed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	redemptionCode := reward.Code
	if redemptionCode == "" {
		redemptionCode = generateRedemptionCode(reward.Name)
	}

	claim := models.ClaimedReward{
		ReferenceID:    uuid.NewString(),
		UserID:         userID,
		RewardID:       rewardID,
		Status:         models.ClaimStatusPending,
		RedemptionCode: redemptionCode,
		ExpiresAt:      s.now().AddDate(0, claimGraceMonths, 0),
	}
	if err := s.postgresRepo.CreateClaim(ctx, &claim); err != nil {
		return nil, err
	}

	if _, err := s.AddPoints(ctx, userID, 0, models.ActivityRewardClaimed, "Reward claimed: "+reward.Name, nil); err != nil {
		return nil, err
	}

	s.log.Info().Uint("user_id", userID).Uint("reward_id", rewardID).Str("reference_id", claim.ReferenceID).Msg("reward claimed")

	claim.Reward = *reward
	return &claim, nil
}

// generateRedemptionCode builds a code from the first three letters of
// the reward name and six random digits, e.g. "MUG-042917".
func generateRedemptionCode(rewardName string) string {
	prefix := strings.ToUpper(rewardName)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("%s-%06d", prefix, rand.Intn(1000000))
}
