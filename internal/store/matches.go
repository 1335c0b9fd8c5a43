package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// UpsertMatch inserts the match if unseen and returns its id either way.
// Dedup is on (data_source, source_match_id) so re-ingesting a player's
// recent history is a no-op for already known matches.
func (s *Store) UpsertMatch(ctx context.Context, m Match) (string, error) {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO matches (id, data_source, source_match_id, finished_at, map_name)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (data_source, source_match_id) DO NOTHING
	`, NewID(), m.DataSource, m.SourceMatchID, m.FinishedAt, m.MapName)
	if err != nil {
		return "", err
	}
	var id string
	err = s.DB.QueryRowContext(ctx,
		`SELECT id FROM matches WHERE data_source = $1 AND source_match_id = $2`,
		m.DataSource, m.SourceMatchID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return id, err
}

// UpsertPlayerGame records one player's line for one match; duplicate
// (steam_id, match_id) pairs are ignored.
func (s *Store) UpsertPlayerGame(ctx context.Context, g PlayerGame) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO player_games
			(id, user_id, steam_id, match_id, finished_at, data_source, won,
			 rating, dpr, util_dmg, flashes, trade_kills, entries)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (steam_id, match_id) DO NOTHING
	`, NewID(), g.UserID, g.SteamID, g.MatchID, g.FinishedAt, g.DataSource, g.Won,
		g.Rating, g.DPR, g.UtilDmg, g.Flashes, g.TradeKills, g.Entries)
	return err
}

// LeetifyL100Avg averages the user's leetify rating over their latest 100
// rated games, scaled to 0..100. Nil when the user has no rated games yet.
func (s *Store) LeetifyL100Avg(ctx context.Context, userID string) (*float64, error) {
	var avg *float64
	err := s.DB.QueryRowContext(ctx, `
		SELECT AVG(rating * 100.0) FROM (
			SELECT rating FROM player_games
			WHERE user_id = $1 AND rating IS NOT NULL
			ORDER BY finished_at DESC
			LIMIT 100
		) latest
	`, userID).Scan(&avg)
	if err != nil {
		return nil, err
	}
	return avg, nil
}

// ListPlayerGames returns a user's game rows whose finish time falls in the
// half-open window [from, to).
func (s *Store) ListPlayerGames(ctx context.Context, userID string, from, to time.Time) ([]PlayerGame, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, steam_id, match_id, finished_at, data_source, won,
		       rating, dpr, util_dmg, flashes, trade_kills, entries
		FROM player_games
		WHERE user_id = $1 AND finished_at >= $2 AND finished_at < $3
		ORDER BY finished_at ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []PlayerGame{}
	for rows.Next() {
		var g PlayerGame
		if err := rows.Scan(&g.ID, &g.UserID, &g.SteamID, &g.MatchID, &g.FinishedAt, &g.DataSource,
			&g.Won, &g.Rating, &g.DPR, &g.UtilDmg, &g.Flashes, &g.TradeKills, &g.Entries); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
