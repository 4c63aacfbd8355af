package service

import (
	"context"
	"errors"
	"time"

	"cerfidoc-gamification/internal/models"

	"gorm.io/gorm"
)

// VerificationPoints is the fixed award for verifying a document.
const VerificationPoints = 15

// VerifyDocument runs the full verification pipeline for a redeemed code:
// resolve the document, reject double verification, record the
// verification, bump streaks, award points, advance challenges, grant
// badges, and recompute the leaderboard buckets. Each step runs once; any
// failure aborts the sequence with no compensation of earlier steps.
func (s *GamificationService) VerifyDocument(ctx context.Context, userID uint, code string) (*models.VerificationResult, error) {
	doc, err := s.postgresRepo.GetDocumentByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}

	alreadyVerified, err := s.postgresRepo.IsDocumentVerified(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	if alreadyVerified {
		return nil, ErrAlreadyVerified
	}

	verification := models.DocumentVerification{
		DocumentID: doc.ID,
		UserID:     userID,
		Verified:   true,
		VerifiedAt: s.now(),
	}
	if err := s.postgresRepo.CreateVerification(ctx, &verification); err != nil {
		return nil, err
	}

	if _, err := s.updateVerificationStats(ctx, userID); err != nil {
		return nil, err
	}

	docID := doc.ID
	if _, err := s.AddPoints(ctx, userID, VerificationPoints, models.ActivityVerification, "Verified document: "+doc.Title, &docID); err != nil {
		return nil, err
	}

	if err := s.advanceChallenges(ctx, userID, "verification"); err != nil {
		return nil, err
	}

	if err := s.scanAndGrantBadges(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.recomputeLeaderboards(ctx, userID); err != nil {
		return nil, err
	}

	s.log.Info().Uint("user_id", userID).Uint("document_id", doc.ID).Msg("document verified")

	return &models.VerificationResult{
		ID:            verification.ID,
		Code:          code,
		DocumentID:    doc.ID,
		DocumentTitle: doc.Title,
		Verified:      true,
		VerifiedAt:    verification.VerifiedAt,
		PointsEarned:  VerificationPoints,
	}, nil
}

// VerificationStats aggregates verification counts for dashboards: the
// total, per-day counts over the last 30 days, and the most verified
// documents. A nil userID means global stats.
func (s *GamificationService) VerificationStats(ctx context.Context, userID *uint) (*models.VerificationStats, error) {
	total, err := s.postgresRepo.CountVerifications(ctx, userID)
	if err != nil {
		return nil, err
	}

	since := s.now().AddDate(0, 0, -30)
	times, err := s.postgresRepo.GetVerificationTimesSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	mostVerified, err := s.postgresRepo.GetMostVerifiedDocuments(ctx, userID, 5)
	if err != nil {
		return nil, err
	}

	return &models.VerificationStats{
		TotalVerifications:    total,
		VerificationsByDay:    groupByDay(times),
		MostVerifiedDocuments: mostVerified,
	}, nil
}

// groupByDay buckets timestamps into per-day counts, oldest day first.
func groupByDay(times []time.Time) []models.DayCount {
	counts := make(map[string]int64)
	var order []string

	for _, t := range times {
		day := t.Format("2006-01-02")
		if _, seen := counts[day]; !seen {
			order = append(order, day)
		}
		counts[day]++
	}

	byDay := make([]models.DayCount, 0, len(order))
	for _, day := range order {
		byDay = append(byDay, models.DayCount{Date: day, Count: counts[day]})
	}
	return byDay
}
