package store

import "time"

type User struct {
	ID        string    `json:"id"`
	DiscordID int64     `json:"discord_id"`
	GuildID   int64     `json:"guild_id"`
	SteamID   *string   `json:"steam_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Player struct {
	ID             string     `json:"id"`
	UserID         *string    `json:"user_id"`
	Handle         string     `json:"handle"`
	SteamID        *string    `json:"steam_id,omitempty"`
	FaceitElo      *int       `json:"faceit_elo"`
	PremierElo     *int       `json:"premier_elo"`
	RenownElo      *int       `json:"renown_elo"`
	LeetifyL100Avg *float64   `json:"leetify_l100_avg"`
	Price          *int64     `json:"price"`
	SkillScore     *float64   `json:"skill_score"`
	Percentile     *float64   `json:"percentile"`
	PriceUpdatedAt *time.Time `json:"price_updated_at"`
}

type Team struct {
	ID          string    `json:"id"`
	GuildID     int64     `json:"guild_id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}

// RosterAssignment is one membership span. effective_from_week is inclusive,
// effective_to_week exclusive; nil means still active.
type RosterAssignment struct {
	ID                string     `json:"id"`
	TeamID            string     `json:"team_id"`
	PlayerID          string     `json:"player_id"`
	Role              *string    `json:"role"`
	EffectiveFromWeek time.Time  `json:"effective_from_week"`
	EffectiveToWeek   *time.Time `json:"effective_to_week"`
}

type RosterMember struct {
	PlayerID string  `json:"player_id"`
	Handle   string  `json:"handle"`
	Role     *string `json:"role"`
	Price    *int64  `json:"price"`
}

type TeamWeekState struct {
	GuildID         int64     `json:"guild_id"`
	TeamID          string    `json:"team_id"`
	WeekStart       time.Time `json:"week_start"`
	BudgetRemaining int64     `json:"budget_remaining"`
	TransfersUsed   int       `json:"transfers_used"`
}

type Match struct {
	ID            string    `json:"id"`
	DataSource    string    `json:"data_source"`
	SourceMatchID string    `json:"source_match_id"`
	FinishedAt    time.Time `json:"finished_at"`
	MapName       *string   `json:"map_name"`
}

// PlayerGame is one player's line in one match, as ingested from the
// provider. Nullable metrics stay nullable so averages can skip them.
type PlayerGame struct {
	ID         string    `json:"id"`
	UserID     *string   `json:"user_id"`
	SteamID    string    `json:"steam_id"`
	MatchID    string    `json:"match_id"`
	FinishedAt time.Time `json:"finished_at"`
	DataSource string    `json:"data_source"`
	Won        bool      `json:"won"`
	Rating     *float64  `json:"rating"`
	DPR        *float64  `json:"dpr"`
	UtilDmg    *float64  `json:"util_dmg"`
	Flashes    *int      `json:"flashes"`
	TradeKills *int      `json:"trade_kills"`
	Entries    *int      `json:"entries"`
}

// WeeklySnapshot is the canonical persisted score row, one per
// (week_start, guild_id, user_id).
type WeeklySnapshot struct {
	WeekStart  time.Time `json:"week_start"`
	GuildID    int64     `json:"guild_id"`
	UserID     string    `json:"user_id"`
	RulesetID  int       `json:"ruleset_id"`
	ComputedAt time.Time `json:"computed_at"`

	SampleSize   int `json:"sample_size"`
	Wins         int `json:"wins"`
	PremierGames int `json:"premier_games"`
	FaceitGames  int `json:"faceit_games"`
	RenownGames  int `json:"renown_games"`
	MMGames      int `json:"mm_games"`
	OtherGames   int `json:"other_games"`

	PtsRating  float64 `json:"pts_rating"`
	PtsADR     float64 `json:"pts_adr"`
	PtsTrades  float64 `json:"pts_trades"`
	PtsEntries float64 `json:"pts_entries"`
	PtsFlashes float64 `json:"pts_flashes"`
	PtsUtil    float64 `json:"pts_util"`

	BaseAvg     float64 `json:"base_avg"`
	AvgMult     float64 `json:"avg_mult"`
	WREff       float64 `json:"wr_eff"`
	WRMult      float64 `json:"wr_mult"`
	WeeklyScore float64 `json:"weekly_score"`
}
