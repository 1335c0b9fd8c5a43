package leetify

import "time"

// Match is one entry from /v3/profile/matches. Stats carries one row per
// player in the lobby; callers pick their own row by steam64 id.
type Match struct {
	DataSource        string      `json:"data_source"`
	DataSourceMatchID string      `json:"data_source_match_id"`
	FinishedAt        string      `json:"finished_at"`
	MapName           *string     `json:"map_name"`
	ReplayURL         *string     `json:"replay_url"`
	HasBannedPlayer   bool        `json:"has_banned_player"`
	TeamScores        []TeamScore `json:"team_scores"`
	Stats             []PlayerRow `json:"stats"`
}

type TeamScore struct {
	TeamNumber int `json:"team_number"`
	Score      int `json:"score"`
}

// PlayerRow is one player's line within a match. Metrics the provider omits
// for a given source stay nil.
type PlayerRow struct {
	Steam64ID         string `json:"steam64_id"`
	InitialTeamNumber *int   `json:"initial_team_number"`

	RoundsCount *int `json:"rounds_count"`
	RoundsWon   *int `json:"rounds_won"`
	RoundsLost  *int `json:"rounds_lost"`

	LeetifyRating   *float64 `json:"leetify_rating"`
	CTLeetifyRating *float64 `json:"ct_leetify_rating"`
	TLeetifyRating  *float64 `json:"t_leetify_rating"`

	TotalKills   *int     `json:"total_kills"`
	TotalDeaths  *int     `json:"total_deaths"`
	TotalAssists *int     `json:"total_assists"`
	KDRatio      *float64 `json:"kd_ratio"`

	DPR                    *float64 `json:"dpr"`
	HEFoesDamageAvg        *float64 `json:"he_foes_damage_avg"`
	FlashbangLeadingToKill *int     `json:"flashbang_leading_to_kill"`
	TradeKillsSucceed      *int     `json:"trade_kills_succeed"`
}

// Profile is the rank card from /v3/profile, the elo inputs to pricing.
type Profile struct {
	Ranks Ranks `json:"ranks"`
}

type Ranks struct {
	Leetify   *float64 `json:"leetify"`
	Premier   *int     `json:"premier"`
	FaceitElo *int     `json:"faceit_elo"`
	Renown    *int     `json:"renown"`
}

// FinishedAtTime parses the provider's RFC3339 finished_at stamp.
func (m *Match) FinishedAtTime() (time.Time, error) {
	return time.Parse(time.RFC3339, m.FinishedAt)
}

// RowFor returns this player's stats line, or nil when the provider returned
// the match without a row for them.
func (m *Match) RowFor(steam64 string) *PlayerRow {
	for i := range m.Stats {
		if m.Stats[i].Steam64ID == steam64 {
			return &m.Stats[i]
		}
	}
	return nil
}

// Won reports whether the row's initial team outscored the other side.
// Malformed or missing team scores count as a loss.
func (m *Match) Won(row *PlayerRow) bool {
	if row == nil || row.InitialTeamNumber == nil {
		return false
	}
	var mine, theirs *int
	for i := range m.TeamScores {
		ts := m.TeamScores[i]
		if ts.TeamNumber == *row.InitialTeamNumber {
			mine = &ts.Score
		} else {
			theirs = &ts.Score
		}
	}
	return mine != nil && theirs != nil && *mine > *theirs
}
