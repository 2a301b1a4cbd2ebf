package scoring

import "github.com/abrezinsky/eurovote/internal/models"

// BonusFlag names a bonus a team earned
type BonusFlag string

const (
	BonusSweep         BonusFlag = "sweep"
	BonusChampion      BonusFlag = "champion"
	BonusGrandChampion BonusFlag = "grand_champion"
)

const (
	SweepBonusPoints         = 30
	SweepMaxRank             = 5
	ChampionBonusPoints      = 5
	ChampionMinFirsts        = 2
	GrandChampionBonusPoints = 30
	GrandChampionMinFirsts   = 4
)

// SweepBonus awards SweepBonusPoints when exactly three distinct founder
// nations exist and all finished in the official top five
func SweepBonus(founders []int, nations map[int]models.Nation) (int, bool) {
	if len(founders) != 3 {
		return 0, false
	}
	seen := make(map[int]bool, 3)
	for _, id := range founders {
		if seen[id] {
			return 0, false
		}
		seen[id] = true

		n, ok := nations[id]
		if !ok || n.FinalRank == nil {
			return 0, false
		}
		if r := *n.FinalRank; r < 1 || r > SweepMaxRank {
			return 0, false
		}
	}
	return SweepBonusPoints, true
}

// StreakBonus maps the number of first-place category picks to a bonus.
// Tiers are exclusive; only the highest reached applies.
func StreakBonus(firsts int) (int, BonusFlag) {
	switch {
	case firsts >= GrandChampionMinFirsts:
		return GrandChampionBonusPoints, BonusGrandChampion
	case firsts >= ChampionMinFirsts:
		return ChampionBonusPoints, BonusChampion
	default:
		return 0, ""
	}
}
