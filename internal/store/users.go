package store

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	return scanUser(s.DB.QueryRowContext(ctx,
		`SELECT id, discord_id, guild_id, steam_id, created_at FROM users WHERE id = $1`, id))
}

func (s *Store) GetUserByDiscordID(ctx context.Context, discordID, guildID int64) (*User, error) {
	return scanUser(s.DB.QueryRowContext(ctx,
		`SELECT id, discord_id, guild_id, steam_id, created_at FROM users WHERE discord_id = $1 AND guild_id = $2`,
		discordID, guildID))
}

// EnsureUser creates the user row if absent and returns it either way.
func (s *Store) EnsureUser(ctx context.Context, discordID, guildID int64) (*User, error) {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (id, discord_id, guild_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (discord_id, guild_id) DO NOTHING
	`, NewID(), discordID, guildID)
	if err != nil {
		return nil, err
	}
	return s.GetUserByDiscordID(ctx, discordID, guildID)
}

func (s *Store) SetUserSteamID(ctx context.Context, userID, steamID string) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE users SET steam_id = $1 WHERE id = $2`, steamID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRegisteredUsers returns every user in a guild with a linked steam id,
// the population the refresh batch walks.
func (s *Store) ListRegisteredUsers(ctx context.Context, guildID int64) ([]User, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, discord_id, guild_id, steam_id, created_at
		FROM users
		WHERE guild_id = $1 AND steam_id IS NOT NULL
		ORDER BY created_at ASC
	`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.DiscordID, &u.GuildID, &u.SteamID, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) ListGuildIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT DISTINCT guild_id FROM teams ORDER BY guild_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.DiscordID, &u.GuildID, &u.SteamID, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
