package service

import (
	"math"

	"cerfidoc-gamification/internal/models"
)

// basePoints is the requirement to advance past level 1. Each further
// level multiplies the requirement by 1.5 (floored).
const basePoints = 1000

// LevelForPoints derives the level for a cumulative point total. Starting
// at level 1 with a 1000-point requirement, the level bumps while the
// total still meets the requirement and the requirement is recomputed as
// floor(1000 * 1.5^(level-1)) after each bump.
func LevelForPoints(totalPoints int) int {
	level := 1
	required := basePoints

	for totalPoints >= required {
		level++
		required = int(math.Floor(basePoints * math.Pow(1.5, float64(level-1))))
	}

	return level
}

// RankForLevel maps a level to its label using the fixed step table.
func RankForLevel(level int) string {
	switch {
	case level >= 30:
		return models.RankLegendaryMaster
	case level >= 25:
		return models.RankSupremeMaster
	case level >= 20:
		return models.RankMasterVerifier
	case level >= 15:
		return models.RankExpertVerifier
	case level >= 10:
		return models.RankSeniorVerifier
	case level >= 5:
		return models.RankAdvancedVerifier
	case level >= 2:
		return models.RankBeginnerVerifier
	default:
		return models.RankNovice
	}
}
