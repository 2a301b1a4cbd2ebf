package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/eurovote/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db, now: time.Now}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS nations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			country_code TEXT UNIQUE NOT NULL,
			artist TEXT,
			song TEXT,
			running_order INTEGER NOT NULL DEFAULT 0,
			final_rank INTEGER,
			jury_rank INTEGER,
			televote_rank INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS votes (
			user_id TEXT NOT NULL,
			nation_id INTEGER NOT NULL,
			song INTEGER NOT NULL CHECK (song BETWEEN 1 AND 10),
			performance INTEGER NOT NULL CHECK (performance BETWEEN 1 AND 10),
			outfit INTEGER NOT NULL CHECK (outfit BETWEEN 1 AND 10),
			updated_at TEXT NOT NULL,
			PRIMARY KEY (user_id, nation_id),
			FOREIGN KEY (nation_id) REFERENCES nations(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS teams (
			id TEXT PRIMARY KEY,
			user_id TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			picks TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_nation ON votes(nation_id)`,
		`CREATE INDEX IF NOT EXISTS idx_nations_order ON nations(running_order)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	// base_url is set by the app on startup
	defaultSettings := map[string]string{
		SettingVotingOpen:         "true",
		SettingTeamsLocked:        "false",
		SettingLeaderboardLocked:  "false",
		SettingPredictionsEnabled: "false",
		SettingResultsFeedURL:     "",
	}

	for key, value := range defaultSettings {
		_, err := r.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) timestamp() string {
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	return now().UTC().Format(time.RFC3339)
}

// isUniqueViolation reports whether err is a sqlite UNIQUE or PRIMARY KEY violation
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

// ==================== Nation Methods ====================

const nationColumns = `id, name, country_code, artist, song, running_order, final_rank, jury_rank, televote_rank`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNation(row rowScanner) (models.Nation, error) {
	var n models.Nation
	var artist, song sql.NullString
	var finalRank, juryRank, televoteRank sql.NullInt64
	if err := row.Scan(&n.ID, &n.Name, &n.CountryCode, &artist, &song, &n.RunningOrder, &finalRank, &juryRank, &televoteRank); err != nil {
		return n, err
	}
	n.Artist = artist.String
	n.Song = song.String
	n.FinalRank = intPtr(finalRank)
	n.JuryRank = intPtr(juryRank)
	n.TelevoteRank = intPtr(televoteRank)
	return n, nil
}

// ListNations returns all nations in running order
func (r *Repository) ListNations(ctx context.Context) ([]models.Nation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+nationColumns+` FROM nations ORDER BY running_order, name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nations := []models.Nation{}
	for rows.Next() {
		n, err := scanNation(rows)
		if err != nil {
			return nil, err
		}
		nations = append(nations, n)
	}
	return nations, rows.Err()
}

// GetNation retrieves a nation by id
func (r *Repository) GetNation(ctx context.Context, id int) (*models.Nation, error) {
	n, err := scanNation(r.db.QueryRowContext(ctx, `SELECT `+nationColumns+` FROM nations WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// NationExists reports whether a nation with the given id exists
func (r *Repository) NationExists(ctx context.Context, id int) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nations WHERE id = ?`, id).Scan(&count)
	return count > 0, err
}

// CreateNation inserts a nation and returns its id
func (r *Repository) CreateNation(ctx context.Context, n models.Nation) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO nations (name, country_code, artist, song, running_order, final_rank, jury_rank, televote_rank)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, n.Name, n.CountryCode, n.Artist, n.Song, n.RunningOrder,
		nullableInt(n.FinalRank), nullableInt(n.JuryRank), nullableInt(n.TelevoteRank))
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateNation updates a nation's descriptive fields. Rankings are left untouched.
func (r *Repository) UpdateNation(ctx context.Context, n models.Nation) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE nations SET name = ?, country_code = ?, artist = ?, song = ?, running_order = ?
		WHERE id = ?
	`, n.Name, n.CountryCode, n.Artist, n.Song, n.RunningOrder, n.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return requireAffected(result, err)
}

// SetNationRankings replaces the official rankings of a nation
func (r *Repository) SetNationRankings(ctx context.Context, id int, rankings models.Rankings) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE nations SET final_rank = ?, jury_rank = ?, televote_rank = ? WHERE id = ?
	`, nullableInt(rankings.FinalRank), nullableInt(rankings.JuryRank), nullableInt(rankings.TelevoteRank), id)
	return requireAffected(result, err)
}

// UpsertNationByCode inserts a nation or updates the one with the same country code.
// Rankings are only overwritten when present on n.
func (r *Repository) UpsertNationByCode(ctx context.Context, n models.Nation) (bool, error) {
	var existingID int
	err := r.db.QueryRowContext(ctx, `SELECT id FROM nations WHERE country_code = ?`, n.CountryCode).Scan(&existingID)
	if err == sql.ErrNoRows {
		_, err := r.CreateNation(ctx, n)
		return err == nil, err
	}
	if err != nil {
		return false, err
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE nations SET
			name = ?, artist = ?, song = ?, running_order = ?,
			final_rank = COALESCE(?, final_rank),
			jury_rank = COALESCE(?, jury_rank),
			televote_rank = COALESCE(?, televote_rank)
		WHERE id = ?
	`, n.Name, n.Artist, n.Song, n.RunningOrder,
		nullableInt(n.FinalRank), nullableInt(n.JuryRank), nullableInt(n.TelevoteRank), existingID)
	return false, err
}

// DeleteNation deletes a nation and its votes
func (r *Repository) DeleteNation(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM nations WHERE id = ?`, id)
	return requireAffected(result, err)
}

func requireAffected(result sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ==================== Vote Methods ====================

// SaveVote creates or replaces a user's vote for a nation
func (r *Repository) SaveVote(ctx context.Context, v models.CategoryVote) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO votes (user_id, nation_id, song, performance, outfit, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, nation_id) DO UPDATE SET
			song = excluded.song,
			performance = excluded.performance,
			outfit = excluded.outfit,
			updated_at = excluded.updated_at
	`, v.UserID, v.NationID, v.Song, v.Performance, v.Outfit, r.timestamp())
	return err
}

// GetUserVotes returns all votes cast by a user
func (r *Repository) GetUserVotes(ctx context.Context, userID string) ([]models.CategoryVote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, nation_id, song, performance, outfit, updated_at
		FROM votes WHERE user_id = ? ORDER BY nation_id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	votes := []models.CategoryVote{}
	for rows.Next() {
		var v models.CategoryVote
		if err := rows.Scan(&v.UserID, &v.NationID, &v.Song, &v.Performance, &v.Outfit, &v.UpdatedAt); err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// ListVoteAggregates recomputes per-nation means from the complete vote table.
// Nations without votes are omitted.
func (r *Repository) ListVoteAggregates(ctx context.Context) ([]models.NationAggregate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			nation_id,
			COUNT(*) AS vote_count,
			AVG(song),
			AVG(performance),
			AVG(outfit),
			(AVG(song) + AVG(performance) + AVG(outfit)) / 3.0
		FROM votes
		GROUP BY nation_id
		ORDER BY nation_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	aggregates := []models.NationAggregate{}
	for rows.Next() {
		var a models.NationAggregate
		var song, performance, outfit, overall sql.NullFloat64
		if err := rows.Scan(&a.NationID, &a.VoteCount, &song, &performance, &outfit, &overall); err != nil {
			return nil, err
		}
		a.MeanSong = floatPtr(song)
		a.MeanPerformance = floatPtr(performance)
		a.MeanOutfit = floatPtr(outfit)
		a.MeanOverall = floatPtr(overall)
		aggregates = append(aggregates, a)
	}
	return aggregates, rows.Err()
}

// ==================== Team Methods ====================

const teamColumns = `id, user_id, name, picks, created_at, updated_at`

func scanTeam(row rowScanner) (models.Team, error) {
	var t models.Team
	var picks string
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &picks, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return t, err
	}
	if err := json.Unmarshal([]byte(picks), &t.Picks); err != nil {
		return t, err
	}
	return t, nil
}

// CreateTeam inserts a team. Returns ErrDuplicate if the user already has one.
func (r *Repository) CreateTeam(ctx context.Context, t models.Team) error {
	picks, err := json.Marshal(t.Picks)
	if err != nil {
		return err
	}
	ts := r.timestamp()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO teams (id, user_id, name, picks, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ID, t.UserID, t.Name, string(picks), ts, ts)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// UpdateTeam replaces a team's name and picks
func (r *Repository) UpdateTeam(ctx context.Context, t models.Team) error {
	picks, err := json.Marshal(t.Picks)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE teams SET name = ?, picks = ?, updated_at = ? WHERE id = ?
	`, t.Name, string(picks), r.timestamp(), t.ID)
	return requireAffected(result, err)
}

// GetTeam retrieves a team by id
func (r *Repository) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	t, err := scanTeam(r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTeamByUser retrieves the team owned by a user
func (r *Repository) GetTeamByUser(ctx context.Context, userID string) (*models.Team, error) {
	t, err := scanTeam(r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE user_id = ?`, userID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTeams returns all teams ordered by name
func (r *Repository) ListTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// DeleteTeam deletes a team
func (r *Repository) DeleteTeam(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	return requireAffected(result, err)
}

// ==================== Settings Methods ====================

// Setting keys
const (
	SettingVotingOpen         = "voting_open"
	SettingTeamsLocked        = "teams_locked"
	SettingLeaderboardLocked  = "leaderboard_locked"
	SettingPredictionsEnabled = "predictions_enabled"
	SettingResultsFeedURL     = "results_feed_url"
	SettingBaseURL            = "base_url"
)

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// ==================== Stats Methods ====================

// Stats summarizes contest activity
type Stats struct {
	Nations int `json:"nations"`
	Voters  int `json:"voters"`
	Votes   int `json:"votes"`
	Teams   int `json:"teams"`
}

// GetStats returns overall contest statistics
func (r *Repository) GetStats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM nations),
			(SELECT COUNT(DISTINCT user_id) FROM votes),
			(SELECT COUNT(*) FROM votes),
			(SELECT COUNT(*) FROM teams)
	`).Scan(&s.Nations, &s.Voters, &s.Votes, &s.Teams)
	return s, err
}

// ==================== Database Management Methods ====================

// validTables defines which tables can be safely cleared
var validTables = map[string]bool{
	"votes": true, "teams": true, "nations": true,
}

// ClearTable clears all data from a table.
// Only whitelisted tables may be cleared.
func (r *Repository) ClearTable(ctx context.Context, table string) error {
	if !validTables[table] {
		return ErrInvalidTable
	}

	_, err := r.db.ExecContext(ctx, "DELETE FROM "+table)
	return err
}
