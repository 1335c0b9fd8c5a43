package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/config"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/gameweek"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/leaderboard"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/market"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/pricing"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/refresh"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/store"
)

func NewRouter(st *store.Store, cfg config.ServerConfig, clock *gameweek.Clock, pipeline *refresh.Pipeline, pricer *pricing.Service) *chi.Mux {
	marketSvc := market.NewService(st, clock, market.Config{
		InitialBudget:    cfg.InitialBudget,
		TransfersPerWeek: cfg.TransfersPerWeek,
		RosterCapacity:   cfg.RosterCapacity,
	})
	boardSvc := leaderboard.NewService(st, clock)

	publicHandlers := NewPublicHandlers(st, marketSvc, boardSvc)
	marketHandlers := NewMarketHandlers(st, marketSvc)
	adminHandlers := NewAdminHandlers(st, marketSvc, pipeline, pricer)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/public/leaderboard", publicHandlers.Leaderboard())
		r.Get("/public/teams/{team_id}/roster", publicHandlers.TeamRoster())
		r.Get("/public/snapshots", publicHandlers.Snapshots())
		r.Get("/public/players", publicHandlers.Players())

		r.Post("/users", marketHandlers.RegisterUser())
		r.Post("/teams", marketHandlers.CreateTeam())
		r.Post("/teams/{team_id}/buy", marketHandlers.Buy())
		r.Post("/teams/{team_id}/sell", marketHandlers.Sell())

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Post("/admin/refresh", adminHandlers.RefreshGuild())
			r.Post("/admin/refresh/user", adminHandlers.RefreshUser())
			r.Post("/admin/pricing/refresh", adminHandlers.RefreshPricing())
			r.Post("/admin/season/reset", adminHandlers.SeasonReset())

			r.Route("/admin/debug", func(r chi.Router) {
				r.Use(BodyCaptureMiddleware(4096))
				r.Get("/vars", expvar.Handler().ServeHTTP)
			})
		})
	})

	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 64)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
