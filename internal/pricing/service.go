package pricing

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/leetify"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/store"
)

// ProfileProvider is the rank-card source, satisfied by *leetify.Client.
type ProfileProvider interface {
	Profile(ctx context.Context, steam64 string) (*leetify.Profile, error)
}

type Service struct {
	store    *store.Store
	provider ProfileProvider

	now func() time.Time
}

func NewService(st *store.Store, provider ProfileProvider) *Service {
	return &Service{store: st, provider: provider, now: time.Now}
}

// Result summarizes one pricing run.
type Result struct {
	RatingsRefreshed int `json:"ratings_refreshed"`
	RatingsFailed    int `json:"ratings_failed"`
	PricesUpdated    int `json:"prices_updated"`
}

// RefreshPrices refreshes every linked player's ratings from the provider,
// then reprices the whole pool. Per-player rating failures are logged and
// skipped; pricing still runs over whatever ratings are on record, so one
// broken profile cannot stall the market.
func (s *Service) RefreshPrices(ctx context.Context) (*Result, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	var res Result
	for _, p := range players {
		if p.SteamID == nil || p.UserID == nil {
			continue
		}
		if err := s.refreshRatings(ctx, p); err != nil {
			res.RatingsFailed++
			log.Warn().Err(err).Str("player_id", p.ID).Str("handle", p.Handle).
				Msg("rating refresh failed")
			continue
		}
		res.RatingsRefreshed++
	}

	// Re-read so fresh ratings feed the curve.
	players, err = s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	inputs := make([]Input, 0, len(players))
	for _, p := range players {
		inputs = append(inputs, Input{
			PlayerID:    p.ID,
			FaceitElo:   p.FaceitElo,
			PremierElo:  p.PremierElo,
			RenownElo:   p.RenownElo,
			LeetifyL100: p.LeetifyL100Avg,
		})
	}

	now := s.now()
	for _, u := range ComputePrices(inputs) {
		if err := s.store.UpdatePlayerPrice(ctx, u.PlayerID, u.Price, u.SkillScore, u.Percentile, now); err != nil {
			return &res, err
		}
		res.PricesUpdated++
	}
	log.Info().Int("prices_updated", res.PricesUpdated).
		Int("ratings_refreshed", res.RatingsRefreshed).
		Int("ratings_failed", res.RatingsFailed).Msg("pricing refresh complete")
	return &res, nil
}

func (s *Service) refreshRatings(ctx context.Context, p store.Player) error {
	profile, err := s.provider.Profile(ctx, *p.SteamID)
	if err != nil {
		return err
	}
	l100, err := s.store.LeetifyL100Avg(ctx, *p.UserID)
	if err != nil {
		return err
	}
	return s.store.UpdatePlayerRatings(ctx, p.ID,
		profile.Ranks.FaceitElo, profile.Ranks.Premier, profile.Ranks.Renown, l100)
}
