package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Coverage predicate used everywhere below:
// effective_from_week <= W AND (effective_to_week IS NULL OR effective_to_week > W).

func (s *Store) RosterForWeek(ctx context.Context, q querier, teamID string, weekStart time.Time) ([]RosterMember, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT p.id, p.handle, tp.role, p.price
		FROM team_players tp
		JOIN players p ON p.id = tp.player_id
		WHERE tp.team_id = $1
		  AND tp.effective_from_week <= $2
		  AND (tp.effective_to_week IS NULL OR tp.effective_to_week > $2)
		ORDER BY p.handle ASC
	`, teamID, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []RosterMember{}
	for rows.Next() {
		var m RosterMember
		if err := rows.Scan(&m.PlayerID, &m.Handle, &m.Role, &m.Price); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) CountRosterForWeek(ctx context.Context, q querier, teamID string, weekStart time.Time) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM team_players
		WHERE team_id = $1
		  AND effective_from_week <= $2
		  AND (effective_to_week IS NULL OR effective_to_week > $2)
	`, teamID, weekStart).Scan(&n)
	return n, err
}

func (s *Store) PlayerCoveredAt(ctx context.Context, q querier, teamID, playerID string, weekStart time.Time) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM team_players
		WHERE team_id = $1 AND player_id = $2
		  AND effective_from_week <= $3
		  AND (effective_to_week IS NULL OR effective_to_week > $3)
	`, teamID, playerID, weekStart).Scan(&n)
	return n > 0, err
}

func (s *Store) InsertAssignment(ctx context.Context, q querier, teamID, playerID string, role *string, from time.Time) (string, error) {
	id := NewID()
	_, err := q.ExecContext(ctx, `
		INSERT INTO team_players (id, team_id, player_id, role, effective_from_week, effective_to_week)
		VALUES ($1,$2,$3,$4,$5,NULL)
	`, id, teamID, playerID, role, from)
	return id, err
}

// FindQueuedBuy finds a not-yet-active open assignment starting exactly at
// weekStart, i.e. a buy queued for that week that can still be cancelled.
func (s *Store) FindQueuedBuy(ctx context.Context, q querier, teamID, playerID string, weekStart time.Time) (*RosterAssignment, error) {
	return scanAssignment(q.QueryRowContext(ctx, `
		SELECT id, team_id, player_id, role, effective_from_week, effective_to_week
		FROM team_players
		WHERE team_id = $1 AND player_id = $2
		  AND effective_from_week = $3
		  AND effective_to_week IS NULL
		LIMIT 1
	`, teamID, playerID, weekStart))
}

// FindActiveSpanning finds an assignment that became active before weekStart
// and still covers it.
func (s *Store) FindActiveSpanning(ctx context.Context, q querier, teamID, playerID string, weekStart time.Time) (*RosterAssignment, error) {
	return scanAssignment(q.QueryRowContext(ctx, `
		SELECT id, team_id, player_id, role, effective_from_week, effective_to_week
		FROM team_players
		WHERE team_id = $1 AND player_id = $2
		  AND effective_from_week < $3
		  AND (effective_to_week IS NULL OR effective_to_week > $3)
		LIMIT 1
	`, teamID, playerID, weekStart))
}

func (s *Store) DeleteAssignment(ctx context.Context, q querier, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM team_players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CloseAssignment(ctx context.Context, q querier, id string, to time.Time) error {
	res, err := q.ExecContext(ctx, `UPDATE team_players SET effective_to_week = $1 WHERE id = $2`, to, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAssignment(row *sql.Row) (*RosterAssignment, error) {
	var a RosterAssignment
	err := row.Scan(&a.ID, &a.TeamID, &a.PlayerID, &a.Role, &a.EffectiveFromWeek, &a.EffectiveToWeek)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
