// Package refresh runs the ingest-aggregate-score pipeline that keeps weekly
// snapshots current, per user on demand and per guild as a batch.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/rs/zerolog/log"

	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/gameweek"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/leetify"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/scoring"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/stats"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/store"
)

// ErrNotLinked means the user has no steam id on record, so there is nothing
// to ingest for them.
var ErrNotLinked = errors.New("user has no linked steam id")

// MatchProvider is the raw match source, satisfied by *leetify.Client.
type MatchProvider interface {
	RecentMatches(ctx context.Context, steam64 string) ([]leetify.Match, error)
}

type Config struct {
	IngestLimit    int
	MaxParallelism int
}

type Pipeline struct {
	store    *store.Store
	clock    *gameweek.Clock
	provider MatchProvider
	ruleset  scoring.Ruleset
	cfg      Config

	now func() time.Time
}

func NewPipeline(st *store.Store, clock *gameweek.Clock, provider MatchProvider, cfg Config) *Pipeline {
	if cfg.IngestLimit <= 0 {
		cfg.IngestLimit = 100
	}
	if cfg.MaxParallelism <= 0 {
		cfg.MaxParallelism = 4
	}
	return &Pipeline{
		store:    st,
		clock:    clock,
		provider: provider,
		ruleset:  scoring.DefaultRuleset(),
		cfg:      cfg,
		now:      time.Now,
	}
}

// UserResult summarizes one user's refresh.
type UserResult struct {
	UserID      string    `json:"user_id"`
	WeekStart   time.Time `json:"week_start"`
	Fetched     int       `json:"fetched"`
	Ingested    int       `json:"ingested"`
	SampleSize  int       `json:"sample_size"`
	WeeklyScore float64   `json:"weekly_score"`
}

// GuildResult summarizes a guild batch refresh.
type GuildResult struct {
	GuildID   int64 `json:"guild_id"`
	Refreshed int   `json:"refreshed"`
	Failed    int   `json:"failed"`
	Skipped   int   `json:"skipped"`
}

// RefreshUser ingests the user's recent matches, aggregates the current
// week and writes their snapshot. Ingest happens outside any ledger
// transaction; the snapshot write itself is a single upsert statement.
func (p *Pipeline) RefreshUser(ctx context.Context, guildID int64, userID string) (*UserResult, error) {
	user, err := p.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.SteamID == nil {
		return nil, ErrNotLinked
	}

	fetched, ingested, err := p.ingest(ctx, user.ID, *user.SteamID)
	if err != nil {
		return nil, fmt.Errorf("ingest user %s: %w", userID, err)
	}

	now := p.now()
	weekStart := p.clock.ThisWeekStart(now)
	windowFrom, windowTo := p.clock.WeekWindowUTC(weekStart)

	games, err := p.store.ListPlayerGames(ctx, user.ID, windowFrom, windowTo)
	if err != nil {
		return nil, err
	}
	rec := stats.AggregateWeek(games)
	bd := scoring.Score(rec, p.ruleset)

	snap := snapshotFrom(weekStart, guildID, user.ID, rec, bd, p.ruleset.ID, now)
	if err := p.store.UpsertWeeklySnapshot(ctx, snap); err != nil {
		return nil, err
	}

	log.Info().Int64("guild_id", guildID).Str("user_id", userID).
		Int("fetched", fetched).Int("ingested", ingested).
		Int("sample_size", bd.SampleSize).Float64("weekly_score", bd.WeeklyScore).
		Msg("user refreshed")
	return &UserResult{
		UserID:      userID,
		WeekStart:   weekStart,
		Fetched:     fetched,
		Ingested:    ingested,
		SampleSize:  bd.SampleSize,
		WeeklyScore: bd.WeeklyScore,
	}, nil
}

// RefreshGuild fans RefreshUser out over every registered user in the guild.
// Users without a steam id are skipped; one user's failure never aborts the
// rest of the batch.
func (p *Pipeline) RefreshGuild(ctx context.Context, guildID int64) (*GuildResult, error) {
	users, err := p.store.ListRegisteredUsers(ctx, guildID)
	if err != nil {
		return nil, err
	}

	res := &GuildResult{GuildID: guildID}
	var mu sync.Mutex

	pool := pond.NewPool(p.cfg.MaxParallelism, pond.WithQueueSize(len(users)+1))
	for _, u := range users {
		pool.Submit(func() {
			_, err := p.RefreshUser(ctx, guildID, u.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrNotLinked):
				res.Skipped++
			case err != nil:
				res.Failed++
				log.Warn().Err(err).Int64("guild_id", guildID).Str("user_id", u.ID).
					Msg("user refresh failed")
			default:
				res.Refreshed++
			}
		})
	}
	pool.StopAndWait()

	log.Info().Int64("guild_id", guildID).Int("refreshed", res.Refreshed).
		Int("failed", res.Failed).Int("skipped", res.Skipped).Msg("guild refreshed")
	return res, nil
}

// RefreshAllGuilds runs the guild batch for every guild with at least one
// team. Used by the scheduled job.
func (p *Pipeline) RefreshAllGuilds(ctx context.Context) error {
	guildIDs, err := p.store.ListGuildIDs(ctx)
	if err != nil {
		return err
	}
	for _, gid := range guildIDs {
		if _, err := p.RefreshGuild(ctx, gid); err != nil {
			log.Error().Err(err).Int64("guild_id", gid).Msg("guild refresh failed")
		}
	}
	return nil
}

func (p *Pipeline) ingest(ctx context.Context, userID, steam64 string) (fetched, ingested int, err error) {
	matches, err := p.provider.RecentMatches(ctx, steam64)
	if err != nil {
		return 0, 0, err
	}
	if len(matches) > p.cfg.IngestLimit {
		matches = matches[:p.cfg.IngestLimit]
	}
	fetched = len(matches)

	for i := range matches {
		m := &matches[i]
		finishedAt, err := m.FinishedAtTime()
		if err != nil {
			log.Debug().Str("match", m.DataSourceMatchID).Str("finished_at", m.FinishedAt).
				Msg("unparseable finish time, match skipped")
			continue
		}
		row := m.RowFor(steam64)
		if row == nil {
			continue
		}

		matchID, err := p.store.UpsertMatch(ctx, store.Match{
			DataSource:    m.DataSource,
			SourceMatchID: m.DataSourceMatchID,
			FinishedAt:    finishedAt,
			MapName:       m.MapName,
		})
		if err != nil {
			return fetched, ingested, err
		}
		if err := p.store.UpsertPlayerGame(ctx, store.PlayerGame{
			UserID:     &userID,
			SteamID:    steam64,
			MatchID:    matchID,
			FinishedAt: finishedAt,
			DataSource: m.DataSource,
			Won:        m.Won(row),
			Rating:     row.LeetifyRating,
			DPR:        row.DPR,
			UtilDmg:    row.HEFoesDamageAvg,
			Flashes:    row.FlashbangLeadingToKill,
			TradeKills: row.TradeKillsSucceed,
		}); err != nil {
			return fetched, ingested, err
		}
		ingested++
	}
	return fetched, ingested, nil
}

func snapshotFrom(weekStart time.Time, guildID int64, userID string, rec stats.WeekRecord, bd scoring.Breakdown, rulesetID int, computedAt time.Time) store.WeeklySnapshot {
	return store.WeeklySnapshot{
		WeekStart:  weekStart,
		GuildID:    guildID,
		UserID:     userID,
		RulesetID:  rulesetID,
		ComputedAt: computedAt,

		SampleSize:   bd.SampleSize,
		Wins:         bd.Wins,
		PremierGames: rec.PremierGames,
		FaceitGames:  rec.FaceitGames,
		RenownGames:  rec.RenownGames,
		MMGames:      rec.MMGames,
		OtherGames:   rec.OtherGames,

		PtsRating:  bd.PtsRating,
		PtsADR:     bd.PtsADR,
		PtsTrades:  bd.PtsTrades,
		PtsEntries: bd.PtsEntries,
		PtsFlashes: bd.PtsFlashes,
		PtsUtil:    bd.PtsUtil,

		BaseAvg:     bd.BaseAvg,
		AvgMult:     bd.AvgMult,
		WREff:       bd.WREff,
		WRMult:      bd.WRMult,
		WeeklyScore: bd.WeeklyScore,
	}
}
