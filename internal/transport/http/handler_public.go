package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/leaderboard"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/market"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/store"
)

type PublicHandlers struct {
	store     *store.Store
	marketSvc *market.Service
	boardSvc  *leaderboard.Service
}

func NewPublicHandlers(st *store.Store, marketSvc *market.Service, boardSvc *leaderboard.Service) *PublicHandlers {
	return &PublicHandlers{store: st, marketSvc: marketSvc, boardSvc: boardSvc}
}

func (h *PublicHandlers) Leaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := ParseGuildID(r)
		if guildID == 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_guild_id")
			return
		}
		weekStart, ok := parseWeekStart(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_week_start")
			return
		}
		limit, offset := ParsePagination(r)
		board, err := h.boardSvc.Weekly(r.Context(), guildID, weekStart, limit, offset)
		if err != nil {
			if errors.Is(err, leaderboard.ErrInvalidWeek) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_week_start")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(board)
	}
}

func (h *PublicHandlers) TeamRoster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "team_id")
		guildID := ParseGuildID(r)
		if guildID == 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_guild_id")
			return
		}
		nextWeek := false
		switch r.URL.Query().Get("week") {
		case "", "this":
		case "next":
			nextWeek = true
		default:
			WriteHTTPError(w, http.StatusBadRequest, "invalid_week")
			return
		}
		view, err := h.marketSvc.Roster(r.Context(), guildID, teamID, nextWeek)
		if err != nil {
			if errors.Is(err, market.ErrTeamNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "team_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

func (h *PublicHandlers) Snapshots() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := ParseGuildID(r)
		userID := r.URL.Query().Get("user_id")
		if guildID == 0 || userID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		weekStart, ok := parseWeekStart(r)
		if !ok || weekStart == nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_week_start")
			return
		}
		snap, err := h.store.GetWeeklySnapshot(r.Context(), guildID, userID, *weekStart)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "snapshot_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(snap)
	}
}

func (h *PublicHandlers) Players() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := h.store.ListPlayers(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": players})
	}
}

// parseWeekStart reads the optional week_start query parameter, accepting a
// plain date or RFC3339. The second return is false on a malformed value.
func parseWeekStart(r *http.Request) (*time.Time, bool) {
	v := r.URL.Query().Get("week_start")
	if v == "" {
		return nil, true
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		return &t, true
	}
	return nil, false
}
