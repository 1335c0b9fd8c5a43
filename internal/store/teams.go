package store

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) CreateTeam(ctx context.Context, guildID int64, ownerUserID, name string) (string, error) {
	id := NewID()
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO teams (id, guild_id, owner_user_id, name) VALUES ($1,$2,$3,$4)`,
		id, guildID, ownerUserID, name)
	return id, err
}

func (s *Store) GetTeam(ctx context.Context, id string) (*Team, error) {
	return scanTeam(s.DB.QueryRowContext(ctx,
		`SELECT id, guild_id, owner_user_id, name, created_at FROM teams WHERE id = $1`, id))
}

func (s *Store) GetTeamByOwner(ctx context.Context, guildID int64, ownerUserID string) (*Team, error) {
	return scanTeam(s.DB.QueryRowContext(ctx,
		`SELECT id, guild_id, owner_user_id, name, created_at FROM teams WHERE guild_id = $1 AND owner_user_id = $2`,
		guildID, ownerUserID))
}

func (s *Store) ListTeams(ctx context.Context, guildID int64) ([]Team, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, guild_id, owner_user_id, name, created_at
		FROM teams WHERE guild_id = $1 ORDER BY name ASC
	`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Team{}
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.GuildID, &t.OwnerUserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTeam(row *sql.Row) (*Team, error) {
	var t Team
	if err := row.Scan(&t.ID, &t.GuildID, &t.OwnerUserID, &t.Name, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
