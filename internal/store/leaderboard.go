package store

import (
	"context"
	"time"
)

type TeamScoreRow struct {
	TeamID         string
	TeamName       string
	OwnerUserID    string
	OwnerDiscordID int64
	Points         float64
}

type TeamPlayerPointsRow struct {
	TeamID   string
	PlayerID string
	Handle   string
	UserID   *string
	Points   float64
}

// ListTeamScores totals snapshot scores over each team's active roster for
// the given week. Teams with no scored players still appear with zero points.
func (s *Store) ListTeamScores(ctx context.Context, guildID int64, weekStart time.Time, limit, offset int) ([]TeamScoreRow, error) {
	if limit <= 0 {
		limit = 25
	}
	rows, err := s.DB.QueryContext(ctx, `
		WITH active AS (
			SELECT tp.team_id, p.user_id
			FROM team_players tp
			JOIN teams t ON t.id = tp.team_id
			JOIN players p ON p.id = tp.player_id
			WHERE t.guild_id = $1
			  AND tp.effective_from_week <= $2
			  AND (tp.effective_to_week IS NULL OR tp.effective_to_week > $2)
		)
		SELECT t.id, t.name, t.owner_user_id, u.discord_id,
		       COALESCE(SUM(wp.weekly_score), 0) AS points
		FROM teams t
		JOIN users u ON u.id = t.owner_user_id
		LEFT JOIN active a ON a.team_id = t.id
		LEFT JOIN weekly_points wp
		       ON wp.user_id = a.user_id
		      AND wp.guild_id = $1
		      AND wp.week_start = $2
		WHERE t.guild_id = $1
		GROUP BY t.id, t.name, t.owner_user_id, u.discord_id
		ORDER BY points DESC, t.name ASC
		LIMIT $3 OFFSET $4
	`, guildID, weekStart, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []TeamScoreRow{}
	for rows.Next() {
		var r TeamScoreRow
		if err := rows.Scan(&r.TeamID, &r.TeamName, &r.OwnerUserID, &r.OwnerDiscordID, &r.Points); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListTeamPlayerPoints breaks a week's scores down per rostered player for
// the given teams.
func (s *Store) ListTeamPlayerPoints(ctx context.Context, guildID int64, weekStart time.Time, teamIDs []string) ([]TeamPlayerPointsRow, error) {
	if len(teamIDs) == 0 {
		return []TeamPlayerPointsRow{}, nil
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT tp.team_id, p.id, p.handle, p.user_id, COALESCE(wp.weekly_score, 0)
		FROM team_players tp
		JOIN teams t ON t.id = tp.team_id
		JOIN players p ON p.id = tp.player_id
		LEFT JOIN weekly_points wp
		       ON wp.user_id = p.user_id
		      AND wp.guild_id = $1
		      AND wp.week_start = $2
		WHERE t.guild_id = $1
		  AND tp.team_id = ANY($3)
		  AND tp.effective_from_week <= $2
		  AND (tp.effective_to_week IS NULL OR tp.effective_to_week > $2)
		ORDER BY tp.team_id, wp.weekly_score DESC NULLS LAST
	`, guildID, weekStart, teamIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []TeamPlayerPointsRow{}
	for rows.Next() {
		var r TeamPlayerPointsRow
		if err := rows.Scan(&r.TeamID, &r.PlayerID, &r.Handle, &r.UserID, &r.Points); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
