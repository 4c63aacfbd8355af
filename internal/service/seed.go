package service

import (
	"context"

	"cerfidoc-gamification/internal/models"

	"gorm.io/datatypes"
)

// defaultChallenges is the starter challenge catalog.
func defaultChallenges() []models.Challenge {
	return []models.Challenge{
		{
			Title:            "Novice Verifier",
			Description:      "Verify your first document to start your verifier journey.",
			Points:           50,
			RequiredActions:  datatypes.NewJSONSlice([]string{"verification"}),
			CompletionTarget: 1,
			DifficultyLevel:  1,
			ImageURL:         "/assets/badges/novice-verifier.png",
			IsActive:         true,
		},
		{
			Title:            "Steady Verifier",
			Description:      "Verify 5 documents to show your commitment.",
			Points:           100,
			RequiredActions:  datatypes.NewJSONSlice([]string{"verification"}),
			CompletionTarget: 5,
			DifficultyLevel:  2,
			ImageURL:         "/assets/badges/steady-verifier.png",
			IsActive:         true,
		},
		{
			Title:            "Expert Verifier",
			Description:      "Verify 25 documents and become an expert.",
			Points:           250,
			RequiredActions:  datatypes.NewJSONSlice([]string{"verification"}),
			CompletionTarget: 25,
			DifficultyLevel:  3,
			ImageURL:         "/assets/badges/expert-verifier.png",
			IsActive:         true,
		},
		{
			Title:            "Daily Streak",
			Description:      "Verify documents on 7 consecutive days.",
			Points:           200,
			RequiredActions:  datatypes.NewJSONSlice([]string{"streak"}),
			CompletionTarget: 7,
			DifficultyLevel:  3,
			ImageURL:         "/assets/badges/daily-streak.png",
			IsActive:         true,
		},
		{
			Title:            "Master Verifier",
			Description:      "Verify 100 documents and become a master.",
			Points:           500,
			RequiredActions:  datatypes.NewJSONSlice([]string{"verification"}),
			CompletionTarget: 100,
			DifficultyLevel:  5,
			ImageURL:         "/assets/badges/master-verifier.png",
			IsActive:         true,
		},
	}
}

// defaultBadges is the starter badge catalog.
func defaultBadges() []models.Badge {
	return []models.Badge{
		{Name: "Novice Verifier", Description: "You verified your first document", ImageURL: "/assets/badges/novice-verifier.png", RequiredPoints: 50, Tier: models.TierBronze},
		{Name: "Enthusiast Verifier", Description: "You reached level 5", ImageURL: "/assets/badges/enthusiast-verifier.png", RequiredPoints: 500, Tier: models.TierBronze},
		{Name: "Trusted Verifier", Description: "You verified 50 documents", ImageURL: "/assets/badges/trusted-verifier.png", RequiredPoints: 1000, Tier: models.TierSilver},
		{Name: "Expert Verifier", Description: "You reached level 10", ImageURL: "/assets/badges/expert-verifier.png", RequiredPoints: 2500, Tier: models.TierSilver},
		{Name: "Master Verifier", Description: "You reached level 20", ImageURL: "/assets/badges/master-verifier.png", RequiredPoints: 5000, Tier: models.TierGold},
		{Name: "Verification Legend", Description: "You verified 500 documents", ImageURL: "/assets/badges/verification-legend.png", RequiredPoints: 10000, Tier: models.TierGold},
		{Name: "Document Guardian", Description: "You reached level 30", ImageURL: "/assets/badges/document-guardian.png", RequiredPoints: 20000, Tier: models.TierPlatinum, IsRare: true},
		{Name: "Legendary Verifier", Description: "You reached level 50", ImageURL: "/assets/badges/legendary-verifier.png", RequiredPoints: 50000, Tier: models.TierDiamond, IsRare: true},
	}
}

// defaultRewards is the starter reward catalog.
func defaultRewards() []models.Reward {
	return []models.Reward{
		{Name: "10% document discount", Description: "Get 10% off your next document", RewardType: "discount", Value: 10, RequiredPoints: 1000, Code: "DSC-10PERCENT", IsActive: true},
		{Name: "Free document", Description: "Get one document completely free", RewardType: "discount", Value: 100, RequiredPoints: 5000, Code: "DOC-FREE", IsActive: true},
		{Name: "Priority certification", Description: "Your next document is processed with priority", RewardType: "virtual", RequiredPoints: 2000, Code: "PRIORITY", IsActive: true},
		{Name: "Free starter course", Description: "Free access to a platform starter course", RewardType: "virtual", RequiredPoints: 3000, Code: "COURSE-BASIC", IsActive: true},
		{Name: "Branded mug", Description: "A mug with the platform logo", RewardType: "physical", RequiredPoints: 7500, IsActive: true},
		{Name: "Premium document holder", Description: "An elegant synthetic leather document holder", RewardType: "physical", RequiredPoints: 10000, IsActive: true},
	}
}

// SeedDefaults loads the default challenge, badge and reward catalogs.
// Each catalog is seeded only when empty, so repeated calls are no-ops.
func (s *GamificationService) SeedDefaults(ctx context.Context) error {
	count, err := s.postgresRepo.CountChallenges(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		if err := s.postgresRepo.CreateChallenges(ctx, defaultChallenges()); err != nil {
			return err
		}
		s.log.Info().Msg("seeded default challenges")
	}

	count, err = s.postgresRepo.CountBadges(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		if err := s.postgresRepo.CreateBadges(ctx, defaultBadges()); err != nil {
			return err
		}
		s.log.Info().Msg("seeded default badges")
	}

	count, err = s.postgresRepo.CountRewards(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		if err := s.postgresRepo.CreateRewards(ctx, defaultRewards()); err != nil {
			return err
		}
		s.log.Info().Msg("seeded default rewards")
	}

	return nil
}
