package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"
)

const playerColumns = `id, user_id, handle, steam_id, faceit_elo, premier_elo, renown_elo,
	leetify_l100_avg, price, skill_score, percentile, price_updated_at`

func (s *Store) GetPlayer(ctx context.Context, id string) (*Player, error) {
	return scanPlayer(s.DB.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
}

// EnsurePlayerForUser creates the tradeable player row backing a registered
// user, keyed by the user's discord handle.
func (s *Store) EnsurePlayerForUser(ctx context.Context, u *User) (*Player, error) {
	handle := discordHandle(u.DiscordID)
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO players (id, user_id, handle, steam_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (handle) DO UPDATE SET user_id = EXCLUDED.user_id, steam_id = EXCLUDED.steam_id
	`, NewID(), u.ID, handle, u.SteamID)
	if err != nil {
		return nil, err
	}
	return scanPlayer(s.DB.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE handle = $1`, handle))
}

func (s *Store) ListPlayers(ctx context.Context) ([]Player, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players ORDER BY price DESC NULLS LAST, handle ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Player{}
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.UserID, &p.Handle, &p.SteamID, &p.FaceitElo, &p.PremierElo,
			&p.RenownElo, &p.LeetifyL100Avg, &p.Price, &p.SkillScore, &p.Percentile, &p.PriceUpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPlayerPrice reads the current price inside the caller's transaction so a
// concurrent pricing refresh cannot hand two racing buys different prices.
// A nil price means the pricing job has not covered this player yet.
func (s *Store) GetPlayerPrice(ctx context.Context, q querier, playerID string) (*int64, error) {
	var price *int64
	err := q.QueryRowContext(ctx, `SELECT price FROM players WHERE id = $1`, playerID).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return price, nil
}

func (s *Store) UpdatePlayerRatings(ctx context.Context, playerID string, faceit, premier, renown *int, l100 *float64) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE players
		SET faceit_elo = $1, premier_elo = $2, renown_elo = $3, leetify_l100_avg = $4
		WHERE id = $5
	`, faceit, premier, renown, l100, playerID)
	return err
}

func (s *Store) UpdatePlayerPrice(ctx context.Context, playerID string, price int64, skillScore, percentile float64, at time.Time) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE players
		SET price = $1, skill_score = $2, percentile = $3, price_updated_at = $4
		WHERE id = $5
	`, price, skillScore, percentile, at, playerID)
	return err
}

func scanPlayer(row *sql.Row) (*Player, error) {
	var p Player
	err := row.Scan(&p.ID, &p.UserID, &p.Handle, &p.SteamID, &p.FaceitElo, &p.PremierElo,
		&p.RenownElo, &p.LeetifyL100Avg, &p.Price, &p.SkillScore, &p.Percentile, &p.PriceUpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func discordHandle(discordID int64) string {
	return strconv.FormatInt(discordID, 10)
}
