package service

import (
	"context"
	"errors"

	"cerfidoc-gamification/internal/models"

	"gorm.io/gorm"
)

// advanceChallenges bumps progress on every active challenge that reacts
// to the given action type. Completed challenges are frozen: their rows
// are skipped, so repeated calls are idempotent after completion. Hitting
// the completion target freezes the row and awards the challenge points.
func (s *GamificationService) advanceChallenges(ctx context.Context, userID uint, actionType string) error {
	challenges, err := s.postgresRepo.GetActiveChallenges(ctx)
	if err != nil {
		return err
	}

	for _, challenge := range challenges {
		if !challenge.RequiresAction(actionType) {
			continue
		}

		progress, err := s.postgresRepo.GetChallengeProgress(ctx, userID, challenge.ID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// First action towards this challenge
			fresh := models.ChallengeProgress{
				UserID:      userID,
				ChallengeID: challenge.ID,
				Current:     1,
			}
			if challenge.CompletionTarget <= 1 {
				if err := s.completeChallenge(ctx, userID, challenge, &fresh); err != nil {
					return err
				}
				continue
			}
			if err := s.postgresRepo.CreateChallengeProgress(ctx, &fresh); err != nil {
				return err
			}
			continue
		}

		if progress.IsCompleted {
			continue
		}

		progress.Current++
		if progress.Current >= challenge.CompletionTarget {
			progress.IsCompleted = true
			now := s.now()
			progress.CompletedAt = &now
			points := challenge.Points
			progress.AwardedPoints = &points
			if err := s.postgresRepo.SaveChallengeProgress(ctx, progress); err != nil {
				return err
			}
			if _, err := s.AddPoints(ctx, userID, challenge.Points, models.ActivityChallengeCompleted, "Challenge completed: "+challenge.Title, nil); err != nil {
				return err
			}
			continue
		}

		if err := s.postgresRepo.SaveChallengeProgress(ctx, progress); err != nil {
			return err
		}
	}

	return nil
}

// completeChallenge inserts an already-completed progress row and awards
// the points (single-target challenges finish on their first action).
func (s *GamificationService) completeChallenge(ctx context.Context, userID uint, challenge models.Challenge, progress *models.ChallengeProgress) error {
	now := s.now()
	progress.IsCompleted = true
	progress.CompletedAt = &now
	points := challenge.Points
	progress.AwardedPoints = &points

	if err := s.postgresRepo.CreateChallengeProgress(ctx, progress); err != nil {
		return err
	}
	_, err := s.AddPoints(ctx, userID, challenge.Points, models.ActivityChallengeCompleted, "Challenge completed: "+challenge.Title, nil)
	return err
}

// GetUserChallenges returns every active challenge with the user's
// progress, creating zeroed progress rows for challenges the user has not
// touched yet.
func (s *GamificationService) GetUserChallenges(ctx context.Context, userID uint) ([]models.ChallengeProgress, error) {
	if _, err := s.postgresRepo.GetOrCreateProfile(ctx, userID); err != nil {
		return nil, err
	}

	challenges, err := s.postgresRepo.GetActiveChallenges(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.postgresRepo.GetUserChallengeProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	byChallenge := make(map[uint]models.ChallengeProgress, len(existing))
	for _, p := range existing {
		byChallenge[p.ChallengeID] = p
	}

	result := make([]models.ChallengeProgress, 0, len(challenges))
	for _, challenge := range challenges {
		if progress, ok := byChallenge[challenge.ID]; ok {
			progress.Challenge = challenge
			result = append(result, progress)
			continue
		}

		fresh := models.ChallengeProgress{
			UserID:      userID,
			ChallengeID: challenge.ID,
		}
		if err := s.postgresRepo.CreateChallengeProgress(ctx, &fresh); err != nil {
			return nil, err
		}
		fresh.Challenge = challenge
		result = append(result, fresh)
	}

	return result, nil
}
