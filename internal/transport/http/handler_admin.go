package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/market"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/pricing"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/refresh"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/store"
)

type AdminHandlers struct {
	store     *store.Store
	marketSvc *market.Service
	pipeline  *refresh.Pipeline
	pricer    *pricing.Service
}

func NewAdminHandlers(st *store.Store, marketSvc *market.Service, pipeline *refresh.Pipeline, pricer *pricing.Service) *AdminHandlers {
	return &AdminHandlers{store: st, marketSvc: marketSvc, pipeline: pipeline, pricer: pricer}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func (h *AdminHandlers) RefreshGuild() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			GuildID int64 `json:"guild_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.GuildID <= 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		res, err := h.pipeline.RefreshGuild(r.Context(), body.GuildID)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

func (h *AdminHandlers) RefreshUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			GuildID int64  `json:"guild_id"`
			UserID  string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.GuildID <= 0 || body.UserID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		res, err := h.pipeline.RefreshUser(r.Context(), body.GuildID, body.UserID)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				WriteHTTPError(w, http.StatusNotFound, "user_not_found")
			case errors.Is(err, refresh.ErrNotLinked):
				WriteHTTPError(w, http.StatusConflict, "user_not_linked")
			default:
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			}
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

func (h *AdminHandlers) RefreshPricing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.pricer.RefreshPrices(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

func (h *AdminHandlers) SeasonReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			GuildID int64 `json:"guild_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.GuildID <= 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		n, err := h.marketSvc.SeasonReset(r.Context(), body.GuildID)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "week_states_deleted": n})
	}
}
