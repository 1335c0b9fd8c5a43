package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const weekStateColumns = `guild_id, team_id, week_start, budget_remaining, transfers_used`

func (s *Store) GetWeekState(ctx context.Context, q querier, guildID int64, teamID string, weekStart time.Time) (*TeamWeekState, error) {
	return scanWeekState(q.QueryRowContext(ctx,
		`SELECT `+weekStateColumns+` FROM team_week_states
		 WHERE guild_id = $1 AND team_id = $2 AND week_start = $3`,
		guildID, teamID, weekStart))
}

// GetWeekStateForUpdate locks the row for the rest of the transaction. Every
// ledger mutation serializes on these locks, which is what keeps two racing
// buys from both spending the last budget unit.
func (s *Store) GetWeekStateForUpdate(ctx context.Context, tx *sql.Tx, guildID int64, teamID string, weekStart time.Time) (*TeamWeekState, error) {
	return scanWeekState(tx.QueryRowContext(ctx,
		`SELECT `+weekStateColumns+` FROM team_week_states
		 WHERE guild_id = $1 AND team_id = $2 AND week_start = $3 FOR UPDATE`,
		guildID, teamID, weekStart))
}

// LatestWeekStateBefore returns the most recent state strictly before
// weekStart, the source of the carried-forward balance.
func (s *Store) LatestWeekStateBefore(ctx context.Context, q querier, guildID int64, teamID string, weekStart time.Time) (*TeamWeekState, error) {
	return scanWeekState(q.QueryRowContext(ctx,
		`SELECT `+weekStateColumns+` FROM team_week_states
		 WHERE guild_id = $1 AND team_id = $2 AND week_start < $3
		 ORDER BY week_start DESC LIMIT 1`,
		guildID, teamID, weekStart))
}

// InsertWeekState inserts the row if absent. The conflict clause makes the
// lazy creation race-safe: the loser of a concurrent insert just re-reads.
func (s *Store) InsertWeekState(ctx context.Context, q querier, st TeamWeekState) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO team_week_states (guild_id, team_id, week_start, budget_remaining, transfers_used)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (guild_id, team_id, week_start) DO NOTHING
	`, st.GuildID, st.TeamID, st.WeekStart, st.BudgetRemaining, st.TransfersUsed)
	return err
}

func (s *Store) UpdateWeekState(ctx context.Context, q querier, st TeamWeekState) error {
	res, err := q.ExecContext(ctx, `
		UPDATE team_week_states
		SET budget_remaining = $1, transfers_used = $2
		WHERE guild_id = $3 AND team_id = $4 AND week_start = $5
	`, st.BudgetRemaining, st.TransfersUsed, st.GuildID, st.TeamID, st.WeekStart)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWeekStates wipes a guild's budget history. Season reset is the only
// caller; nothing else may drop ledger rows.
func (s *Store) DeleteWeekStates(ctx context.Context, guildID int64) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM team_week_states WHERE guild_id = $1`, guildID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanWeekState(row *sql.Row) (*TeamWeekState, error) {
	var st TeamWeekState
	err := row.Scan(&st.GuildID, &st.TeamID, &st.WeekStart, &st.BudgetRemaining, &st.TransfersUsed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}
