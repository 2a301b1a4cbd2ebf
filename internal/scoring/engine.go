// Package scoring computes fantasy team scores and the leaderboard from
// nations, official rankings, vote aggregates and team picks.
//
// The engine is pure: it performs no I/O, holds no shared state, and
// never fails on inconsistent data. Picks that reference unknown nations,
// nations without votes or official ranks, and short or duplicated founder
// lists all contribute zero points.
package scoring

import (
	"cmp"
	"slices"

	"github.com/abrezinsky/eurovote/internal/models"
)

// MaxFounders is the number of founder picks a team holds
const MaxFounders = 3

// Input is an immutable snapshot of everything a scoring pass needs
type Input struct {
	Nations    []models.Nation
	Aggregates []models.NationAggregate
	Teams      []models.Team
}

// PickScore is the breakdown of one pick slot
type PickScore struct {
	Category   Category `json:"category"`
	Slot       int      `json:"slot,omitempty"`
	NationID   *int     `json:"nation_id,omitempty"`
	NationName string   `json:"nation_name,omitempty"`
	PickResult
}

// ScoredTeam is a team with its computed score and leaderboard position
type ScoredTeam struct {
	Team           models.Team `json:"team"`
	TotalScore     int         `json:"total_score"`
	FounderPoints  int         `json:"founder_points"`
	CategoryPoints int         `json:"category_points"`
	BonusPoints    int         `json:"bonus_points"`
	Rank           int         `json:"rank"`
	IsTied         bool        `json:"is_tied"`
	Breakdown      []PickScore `json:"breakdown"`
	Bonuses        []BonusFlag `json:"bonuses"`
}

// Result is the output of a scoring pass
type Result struct {
	Profile  string       `json:"profile"`
	Teams    []ScoredTeam `json:"teams"`
	Rankings []Ranking    `json:"rankings"`
}

// Find returns the scored team with the given id
func (r *Result) Find(teamID string) (*ScoredTeam, bool) {
	for i := range r.Teams {
		if r.Teams[i].Team.ID == teamID {
			return &r.Teams[i], true
		}
	}
	return nil, false
}

// Engine scores teams according to a profile
type Engine struct {
	profile Profile
}

// New creates an engine for the given profile
func New(profile Profile) *Engine {
	return &Engine{profile: profile}
}

// Profile returns the profile the engine scores with
func (e *Engine) Profile() Profile {
	return e.profile
}

// pass holds the lookups shared by every team in one scoring pass
type pass struct {
	nations  map[int]models.Nation
	rankings map[Category]Ranking
}

// Score computes the full leaderboard for the input snapshot
func (e *Engine) Score(in Input) *Result {
	p := e.prepare(in)

	teams := make([]ScoredTeam, 0, len(in.Teams))
	for _, t := range in.Teams {
		teams = append(teams, e.scoreTeam(t, p))
	}
	AssignRanks(teams)

	rankings := make([]Ranking, 0, len(e.profile.Categories))
	for _, c := range e.profile.Categories {
		rankings = append(rankings, p.rankings[c])
	}

	return &Result{
		Profile:  e.profile.Name,
		Teams:    teams,
		Rankings: rankings,
	}
}

// prepare indexes nations and builds each active category ranking once
func (e *Engine) prepare(in Input) *pass {
	nations := make(map[int]models.Nation, len(in.Nations))
	for _, n := range in.Nations {
		nations[n.ID] = n
	}
	aggregates := make(map[int]models.NationAggregate, len(in.Aggregates))
	for _, a := range in.Aggregates {
		aggregates[a.NationID] = a
	}

	rankings := make(map[Category]Ranking, len(e.profile.Categories))
	for _, c := range e.profile.Categories {
		rankings[c] = BuildRanking(c, in.Nations, aggregates)
	}
	return &pass{nations: nations, rankings: rankings}
}

func (e *Engine) scoreTeam(t models.Team, p *pass) ScoredTeam {
	st := ScoredTeam{Team: t, Bonuses: []BonusFlag{}}

	if e.profile.Founders {
		founders := t.Founders
		if len(founders) > MaxFounders {
			founders = founders[:MaxFounders]
		}
		seen := make(map[int]bool, MaxFounders)
		for i, id := range founders {
			ps := PickScore{Category: CategoryFounder, Slot: i + 1, NationID: intPtr(id)}
			if n, ok := p.nations[id]; ok {
				ps.NationName = n.Name
				if !seen[id] {
					ps.Points = PointsForRank(n.FinalRank)
					ps.AchievedRank = n.FinalRank
				}
			}
			seen[id] = true
			st.FounderPoints += ps.Points
			st.Breakdown = append(st.Breakdown, ps)
		}

		if e.profile.Sweep {
			if pts, ok := SweepBonus(founders, p.nations); ok {
				st.BonusPoints += pts
				st.Bonuses = append(st.Bonuses, BonusSweep)
			}
		}
	}

	firsts := 0
	for _, c := range e.profile.Categories {
		pick := c.Pick(t.Picks)
		ps := PickScore{Category: c, NationID: pick}
		if pick != nil {
			if n, ok := p.nations[*pick]; ok {
				ps.NationName = n.Name
			}
		}
		ps.PickResult = ScoreCategoryPick(pick, p.rankings[c])
		if ps.Points == FirstPlacePoints && e.profile.counts(c) {
			firsts++
		}
		st.CategoryPoints += ps.Points
		st.Breakdown = append(st.Breakdown, ps)
	}

	if pts, flag := StreakBonus(firsts); pts > 0 {
		st.BonusPoints += pts
		st.Bonuses = append(st.Bonuses, flag)
	}

	st.TotalScore = st.FounderPoints + st.CategoryPoints + st.BonusPoints
	return st
}

// AssignRanks sorts teams by score (then name, then id) and assigns
// standard competition ranks: tied scores share a rank and the next
// distinct score takes its 1-based position, so [100 100 90] ranks 1 1 3.
func AssignRanks(teams []ScoredTeam) {
	slices.SortFunc(teams, func(a, b ScoredTeam) int {
		if c := cmp.Compare(b.TotalScore, a.TotalScore); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Team.Name, b.Team.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Team.ID, b.Team.ID)
	})

	for i := range teams {
		if i > 0 && teams[i].TotalScore == teams[i-1].TotalScore {
			teams[i].Rank = teams[i-1].Rank
		} else {
			teams[i].Rank = i + 1
		}
		tied := i > 0 && teams[i].TotalScore == teams[i-1].TotalScore
		if !tied && i+1 < len(teams) {
			tied = teams[i].TotalScore == teams[i+1].TotalScore
		}
		teams[i].IsTied = tied
	}
}

func intPtr(v int) *int {
	return &v
}
