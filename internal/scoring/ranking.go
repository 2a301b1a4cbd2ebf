package scoring

import (
	"cmp"
	"slices"

	"github.com/abrezinsky/eurovote/internal/models"
)

// RankedNation is one entry of a category ranking
type RankedNation struct {
	NationID  int     `json:"nation_id"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	VoteCount int     `json:"vote_count,omitempty"`
}

// Ranking is the ordered list of eligible nations for one category
type Ranking struct {
	Category Category       `json:"category"`
	Entries  []RankedNation `json:"entries"`
	index    map[int]int
}

// BuildRanking orders the eligible nations for a category.
//
// Aggregate categories rank by mean (descending for best-of, ascending for
// worst overall) and only include nations with at least one vote. Official
// categories rank by the matching official rank ascending and skip nations
// without one. Equal values fall back to higher vote count, then name, then id.
func BuildRanking(cat Category, nations []models.Nation, aggregates map[int]models.NationAggregate) Ranking {
	entries := make([]RankedNation, 0, len(nations))
	for _, n := range nations {
		var agg *models.NationAggregate
		if a, ok := aggregates[n.ID]; ok {
			agg = &a
		}
		value, votes, ok := cat.metric(n, agg)
		if !ok {
			continue
		}
		entries = append(entries, RankedNation{
			NationID:  n.ID,
			Name:      n.Name,
			Value:     value,
			VoteCount: votes,
		})
	}

	asc := cat.ascending()
	slices.SortFunc(entries, func(a, b RankedNation) int {
		if c := cmp.Compare(a.Value, b.Value); c != 0 {
			if asc {
				return c
			}
			return -c
		}
		if c := cmp.Compare(b.VoteCount, a.VoteCount); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.NationID, b.NationID)
	})

	index := make(map[int]int, len(entries))
	for i, e := range entries {
		index[e.NationID] = i + 1
	}
	return Ranking{Category: cat, Entries: entries, index: index}
}

// Position returns the 1-based position of a nation in the ranking
func (r Ranking) Position(nationID int) (int, bool) {
	pos, ok := r.index[nationID]
	return pos, ok
}

// Leader returns the first-placed nation
func (r Ranking) Leader() (RankedNation, bool) {
	if len(r.Entries) == 0 {
		return RankedNation{}, false
	}
	return r.Entries[0], true
}

// tiedAt reports whether the entry at pos shares its value with a neighbour
func (r Ranking) tiedAt(pos int) bool {
	i := pos - 1
	if i < 0 || i >= len(r.Entries) {
		return false
	}
	v := r.Entries[i].Value
	if i > 0 && r.Entries[i-1].Value == v {
		return true
	}
	return i+1 < len(r.Entries) && r.Entries[i+1].Value == v
}

// PickResult is the outcome of scoring one category pick
type PickResult struct {
	Points        int      `json:"points"`
	AchievedRank  *int     `json:"achieved_rank,omitempty"`
	AchievedScore *float64 `json:"achieved_score,omitempty"`
	Tied          bool     `json:"tied"`
}

// ScoreCategoryPick awards points for a pick by its position in the ranking.
// Positions beyond third, missing picks and nations absent from the ranking
// score 0 with no achieved rank.
func ScoreCategoryPick(pick *int, ranking Ranking) PickResult {
	if pick == nil {
		return PickResult{}
	}
	pos, ok := ranking.Position(*pick)
	if !ok {
		return PickResult{}
	}

	value := ranking.Entries[pos-1].Value
	res := PickResult{
		Points:        PointsForPosition(pos),
		AchievedScore: &value,
		Tied:          ranking.tiedAt(pos),
	}
	if res.Points > 0 {
		res.AchievedRank = &pos
	}
	return res
}
