package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// UpsertWeeklySnapshot writes the canonical score row for
// (week_start, guild_id, user_id) in a single conflict-resolving statement.
// A scheduled refresh and a manual recompute racing on the same key both
// succeed; last writer wins and no duplicate row can exist.
func (s *Store) UpsertWeeklySnapshot(ctx context.Context, snap WeeklySnapshot) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO weekly_points
			(week_start, guild_id, user_id, ruleset_id, computed_at,
			 sample_size, wins, premier_games, faceit_games, renown_games, mm_games, other_games,
			 pts_rating, pts_adr, pts_trades, pts_entries, pts_flashes, pts_util,
			 base_avg, avg_mult, wr_eff, wr_mult, weekly_score)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
		ON CONFLICT (week_start, guild_id, user_id) DO UPDATE SET
			ruleset_id = EXCLUDED.ruleset_id,
			computed_at = EXCLUDED.computed_at,
			sample_size = EXCLUDED.sample_size,
			wins = EXCLUDED.wins,
			premier_games = EXCLUDED.premier_games,
			faceit_games = EXCLUDED.faceit_games,
			renown_games = EXCLUDED.renown_games,
			mm_games = EXCLUDED.mm_games,
			other_games = EXCLUDED.other_games,
			pts_rating = EXCLUDED.pts_rating,
			pts_adr = EXCLUDED.pts_adr,
			pts_trades = EXCLUDED.pts_trades,
			pts_entries = EXCLUDED.pts_entries,
			pts_flashes = EXCLUDED.pts_flashes,
			pts_util = EXCLUDED.pts_util,
			base_avg = EXCLUDED.base_avg,
			avg_mult = EXCLUDED.avg_mult,
			wr_eff = EXCLUDED.wr_eff,
			wr_mult = EXCLUDED.wr_mult,
			weekly_score = EXCLUDED.weekly_score
	`, snap.WeekStart, snap.GuildID, snap.UserID, snap.RulesetID, snap.ComputedAt,
		snap.SampleSize, snap.Wins, snap.PremierGames, snap.FaceitGames, snap.RenownGames,
		snap.MMGames, snap.OtherGames,
		snap.PtsRating, snap.PtsADR, snap.PtsTrades, snap.PtsEntries, snap.PtsFlashes, snap.PtsUtil,
		snap.BaseAvg, snap.AvgMult, snap.WREff, snap.WRMult, snap.WeeklyScore)
	return err
}

func (s *Store) GetWeeklySnapshot(ctx context.Context, guildID int64, userID string, weekStart time.Time) (*WeeklySnapshot, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT week_start, guild_id, user_id, ruleset_id, computed_at,
		       sample_size, wins, premier_games, faceit_games, renown_games, mm_games, other_games,
		       pts_rating, pts_adr, pts_trades, pts_entries, pts_flashes, pts_util,
		       base_avg, avg_mult, wr_eff, wr_mult, weekly_score
		FROM weekly_points
		WHERE week_start = $1 AND guild_id = $2 AND user_id = $3
	`, weekStart, guildID, userID)
	var snap WeeklySnapshot
	err := row.Scan(&snap.WeekStart, &snap.GuildID, &snap.UserID, &snap.RulesetID, &snap.ComputedAt,
		&snap.SampleSize, &snap.Wins, &snap.PremierGames, &snap.FaceitGames, &snap.RenownGames,
		&snap.MMGames, &snap.OtherGames,
		&snap.PtsRating, &snap.PtsADR, &snap.PtsTrades, &snap.PtsEntries, &snap.PtsFlashes, &snap.PtsUtil,
		&snap.BaseAvg, &snap.AvgMult, &snap.WREff, &snap.WRMult, &snap.WeeklyScore)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
