// Package leaderboard is the read model ranking a guild's teams by their
// rosters' snapshot scores for a week.
package leaderboard

import (
	"context"
	"errors"
	"time"

	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/gameweek"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/store"
)

// ErrInvalidWeek means the requested week_start is not a canonical week key.
var ErrInvalidWeek = errors.New("invalid week start")

type PlayerPoints struct {
	PlayerID string  `json:"player_id"`
	Handle   string  `json:"handle"`
	Points   float64 `json:"points"`
}

type Entry struct {
	Rank           int            `json:"rank"`
	TeamID         string         `json:"team_id"`
	TeamName       string         `json:"team_name"`
	OwnerUserID    string         `json:"owner_user_id"`
	OwnerDiscordID int64          `json:"owner_discord_id"`
	Points         float64        `json:"points"`
	Players        []PlayerPoints `json:"players"`
}

type Board struct {
	GuildID   int64     `json:"guild_id"`
	WeekStart time.Time `json:"week_start"`
	Entries   []Entry   `json:"entries"`
}

type Service struct {
	store *store.Store
	clock *gameweek.Clock

	now func() time.Time
}

func NewService(st *store.Store, clock *gameweek.Clock) *Service {
	return &Service{store: st, clock: clock, now: time.Now}
}

// Weekly builds the board for the given week, defaulting to the current one.
// Teams whose players have no snapshots yet rank with zero points rather
// than disappearing.
func (s *Service) Weekly(ctx context.Context, guildID int64, weekStart *time.Time, limit, offset int) (*Board, error) {
	week := s.clock.ThisWeekStart(s.now())
	if weekStart != nil {
		if !s.clock.IsWeekKey(*weekStart) {
			return nil, ErrInvalidWeek
		}
		week = *weekStart
	}

	scores, err := s.store.ListTeamScores(ctx, guildID, week, limit, offset)
	if err != nil {
		return nil, err
	}

	teamIDs := make([]string, 0, len(scores))
	for _, sc := range scores {
		teamIDs = append(teamIDs, sc.TeamID)
	}
	breakdown, err := s.store.ListTeamPlayerPoints(ctx, guildID, week, teamIDs)
	if err != nil {
		return nil, err
	}
	byTeam := map[string][]PlayerPoints{}
	for _, row := range breakdown {
		byTeam[row.TeamID] = append(byTeam[row.TeamID], PlayerPoints{
			PlayerID: row.PlayerID,
			Handle:   row.Handle,
			Points:   row.Points,
		})
	}

	board := &Board{GuildID: guildID, WeekStart: week, Entries: make([]Entry, 0, len(scores))}
	for i, sc := range scores {
		players := byTeam[sc.TeamID]
		if players == nil {
			players = []PlayerPoints{}
		}
		board.Entries = append(board.Entries, Entry{
			Rank:           offset + i + 1,
			TeamID:         sc.TeamID,
			TeamName:       sc.TeamName,
			OwnerUserID:    sc.OwnerUserID,
			OwnerDiscordID: sc.OwnerDiscordID,
			Points:         sc.Points,
			Players:        players,
		})
	}
	return board, nil
}
