package service

import (
	"context"
	"time"

	"cerfidoc-gamification/internal/models"
)

// GetProfile returns the user's game profile, creating it on first
// access.
func (s *GamificationService) GetProfile(ctx context.Context, userID uint) (*models.GameProfile, error) {
	return s.postgresRepo.GetOrCreateProfile(ctx, userID)
}

// AddPoints applies a point delta to the profile, rederives level and
// rank, and appends one ledger row. The row is written even for a zero
// delta, so zero-point events (reward claims) still leave an audit trail.
func (s *GamificationService) AddPoints(ctx context.Context, userID uint, points int, activityType, description string, documentID *uint) (*models.GameProfile, error) {
	profile, err := s.postgresRepo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	newTotal := profile.TotalPoints + points
	newLevel := LevelForPoints(newTotal)
	newRank := RankForLevel(newLevel)

	if err := s.postgresRepo.UpdateProfilePoints(ctx, userID, newTotal, newLevel, newRank); err != nil {
		return nil, err
	}

	activity := models.Activity{
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
		PointsEarned: points,
		DocumentID:   documentID,
	}
	if err := s.postgresRepo.AppendActivity(ctx, &activity); err != nil {
		return nil, err
	}

	profile.TotalPoints = newTotal
	profile.Level = newLevel
	profile.Rank = newRank
	return profile, nil
}

// updateVerificationStats bumps the streak counters for a verification.
// consecutiveDays extends only when the last activity was exactly
// yesterday, resets when the gap is larger, and is untouched within the
// same calendar day. verificationStreak always increments (lifetime
// counter; it never resets).
func (s *GamificationService) updateVerificationStats(ctx context.Context, userID uint) (*models.GameProfile, error) {
	profile, err := s.postgresRepo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	yesterday := now.AddDate(0, 0, -1)

	isConsecutiveDay := profile.LastActive != nil && sameCalendarDay(*profile.LastActive, yesterday)
	isSameDay := profile.LastActive != nil && sameCalendarDay(*profile.LastActive, now)

	consecutiveDays := profile.ConsecutiveDays
	if !isSameDay {
		if isConsecutiveDay {
			consecutiveDays++
		} else {
			consecutiveDays = 1
		}
	}

	verificationStreak := profile.VerificationStreak + 1
	totalVerifications := profile.TotalVerifications + 1

	err = s.postgresRepo.UpdateProfileStats(ctx, userID, totalVerifications, consecutiveDays, verificationStreak, now)
	if err != nil {
		return nil, err
	}

	profile.TotalVerifications = totalVerifications
	profile.ConsecutiveDays = consecutiveDays
	profile.VerificationStreak = verificationStreak
	profile.LastActive = &now
	return profile, nil
}

// GetUserActivities returns the user's recent ledger rows.
func (s *GamificationService) GetUserActivities(ctx context.Context, userID uint, limit int) ([]models.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.postgresRepo.GetUserActivities(ctx, userID, limit)
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
