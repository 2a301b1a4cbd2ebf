package scoring

import "github.com/abrezinsky/eurovote/internal/models"

// Category identifies a pick slot on a team
type Category string

const (
	CategoryFounder         Category = "founder"
	CategoryFinalWinner     Category = "final_winner"
	CategoryJuryWinner      Category = "jury_winner"
	CategoryTelevoteWinner  Category = "televote_winner"
	CategoryBestSong        Category = "best_song"
	CategoryBestPerformance Category = "best_performance"
	CategoryBestOutfit      Category = "best_outfit"
	CategoryWorstOverall    Category = "worst_overall"
)

// PickCategories lists every single-nation category in display order
var PickCategories = []Category{
	CategoryFinalWinner,
	CategoryJuryWinner,
	CategoryTelevoteWinner,
	CategoryBestSong,
	CategoryBestPerformance,
	CategoryBestOutfit,
	CategoryWorstOverall,
}

// Valid reports whether c is a known single-nation pick category
func (c Category) Valid() bool {
	for _, known := range PickCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Official reports whether the category is ranked by an official result
// rather than by user vote aggregates
func (c Category) Official() bool {
	switch c {
	case CategoryFinalWinner, CategoryJuryWinner, CategoryTelevoteWinner:
		return true
	}
	return false
}

// ascending reports whether a lower metric ranks higher
func (c Category) ascending() bool {
	return c.Official() || c == CategoryWorstOverall
}

// Pick returns the team's selection for the category, or nil
func (c Category) Pick(p models.Picks) *int {
	switch c {
	case CategoryFinalWinner:
		return p.FinalWinner
	case CategoryJuryWinner:
		return p.JuryWinner
	case CategoryTelevoteWinner:
		return p.TelevoteWinner
	case CategoryBestSong:
		return p.BestSong
	case CategoryBestPerformance:
		return p.BestPerformance
	case CategoryBestOutfit:
		return p.BestOutfit
	case CategoryWorstOverall:
		return p.WorstOverall
	}
	return nil
}

// metric extracts the value a nation is ranked by for this category.
// ok is false when the nation is not eligible.
func (c Category) metric(n models.Nation, agg *models.NationAggregate) (value float64, votes int, ok bool) {
	if c.Official() {
		var rank *int
		switch c {
		case CategoryFinalWinner:
			rank = n.FinalRank
		case CategoryJuryWinner:
			rank = n.JuryRank
		case CategoryTelevoteWinner:
			rank = n.TelevoteRank
		}
		if rank == nil || *rank <= 0 {
			return 0, 0, false
		}
		return float64(*rank), 0, true
	}

	if agg == nil || agg.VoteCount <= 0 {
		return 0, 0, false
	}
	var mean *float64
	switch c {
	case CategoryBestSong:
		mean = agg.MeanSong
	case CategoryBestPerformance:
		mean = agg.MeanPerformance
	case CategoryBestOutfit:
		mean = agg.MeanOutfit
	case CategoryWorstOverall:
		mean = agg.MeanOverall
	}
	if mean == nil {
		return 0, 0, false
	}
	return *mean, agg.VoteCount, true
}
