package service

import (
	"context"

	"cerfidoc-gamification/internal/models"
)

// BadgeBonusPoints is the flat award added for every badge grant.
const BadgeBonusPoints = 50

// scanAndGrantBadges grants every catalog badge whose point threshold the
// profile already meets and that the user does not hold yet. Evaluation
// uses the profile snapshot taken at the start of the scan, in catalog
// iteration order, so several badges can land in one scan. Re-running the
// scan with no new points grants nothing.
func (s *GamificationService) scanAndGrantBadges(ctx context.Context, userID uint) error {
	profile, err := s.postgresRepo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return err
	}

	badges, err := s.postgresRepo.GetAllBadges(ctx)
	if err != nil {
		return err
	}

	grants, err := s.postgresRepo.GetUserBadges(ctx, userID)
	if err != nil {
		return err
	}

	granted := make(map[uint]bool, len(grants))
	for _, g := range grants {
		granted[g.BadgeID] = true
	}

	for _, badge := range badges {
		if granted[badge.ID] {
			continue
		}
		if profile.TotalPoints < badge.RequiredPoints {
			continue
		}

		if err := s.postgresRepo.GrantBadge(ctx, userID, badge.ID); err != nil {
			return err
		}

		if _, err := s.AddPoints(ctx, userID, BadgeBonusPoints, models.ActivityBadgeEarned, "Badge unlocked: "+badge.Name, nil); err != nil {
			return err
		}

		s.log.Info().Uint("user_id", userID).Str("badge", badge.Name).Msg("badge granted")
	}

	return nil
}

// GetUserBadges returns the user's badge grants, newest first.
func (s *GamificationService) GetUserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	if _, err := s.postgresRepo.GetOrCreateProfile(ctx, userID); err != nil {
		return nil, err
	}
	return s.postgresRepo.GetUserBadges(ctx, userID)
}
