package models

// Nation represents a participating country in the contest
type Nation struct {
	ID           int    `json:"id" yaml:"-"`
	Name         string `json:"name" yaml:"name"`
	CountryCode  string `json:"country_code" yaml:"country_code"`
	Artist       string `json:"artist,omitempty" yaml:"artist"`
	Song         string `json:"song,omitempty" yaml:"song"`
	RunningOrder int    `json:"running_order" yaml:"running_order"`
	FinalRank    *int   `json:"final_rank,omitempty" yaml:"final_rank"`
	JuryRank     *int   `json:"jury_rank,omitempty" yaml:"jury_rank"`
	TelevoteRank *int   `json:"televote_rank,omitempty" yaml:"televote_rank"`
}

// Rankings holds the official results for a nation. Nil means not yet known.
type Rankings struct {
	FinalRank    *int `json:"final_rank"`
	JuryRank     *int `json:"jury_rank"`
	TelevoteRank *int `json:"televote_rank"`
}

// Scores holds one user's ratings for a nation, each in [1,10]
type Scores struct {
	Song        int `json:"song"`
	Performance int `json:"performance"`
	Outfit      int `json:"outfit"`
}

// CategoryVote is a single user's vote for a nation
type CategoryVote struct {
	UserID   string `json:"user_id"`
	NationID int    `json:"nation_id"`
	Scores
	UpdatedAt string `json:"updated_at,omitempty"`
}

// NationAggregate holds the mean scores of all votes for a nation.
// Means are nil when VoteCount is zero.
type NationAggregate struct {
	NationID        int      `json:"nation_id"`
	VoteCount       int      `json:"vote_count"`
	MeanSong        *float64 `json:"mean_song,omitempty"`
	MeanPerformance *float64 `json:"mean_performance,omitempty"`
	MeanOutfit      *float64 `json:"mean_outfit,omitempty"`
	MeanOverall     *float64 `json:"mean_overall,omitempty"`
}

// Picks holds a team's nation selections. Nil means no pick.
type Picks struct {
	Founders        []int `json:"founders"`
	FinalWinner     *int  `json:"final_winner,omitempty"`
	JuryWinner      *int  `json:"jury_winner,omitempty"`
	TelevoteWinner  *int  `json:"televote_winner,omitempty"`
	BestSong        *int  `json:"best_song,omitempty"`
	BestPerformance *int  `json:"best_performance,omitempty"`
	BestOutfit      *int  `json:"best_outfit,omitempty"`
	WorstOverall    *int  `json:"worst_overall,omitempty"`
}

// HasPredictions reports whether any official-result prediction is set
func (p Picks) HasPredictions() bool {
	return p.FinalWinner != nil || p.JuryWinner != nil || p.TelevoteWinner != nil
}

// Team is a user's fantasy team
type Team struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Picks
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// FeatureFlags are the admin-controlled switches, resolved once per request
type FeatureFlags struct {
	VotingOpen         bool `json:"voting_open"`
	TeamsLocked        bool `json:"teams_locked"`
	LeaderboardLocked  bool `json:"leaderboard_locked"`
	PredictionsEnabled bool `json:"predictions_enabled"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
