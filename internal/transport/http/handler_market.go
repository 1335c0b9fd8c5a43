package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/market"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/store"
)

type MarketHandlers struct {
	store     *store.Store
	marketSvc *market.Service
}

func NewMarketHandlers(st *store.Store, marketSvc *market.Service) *MarketHandlers {
	return &MarketHandlers{store: st, marketSvc: marketSvc}
}

// RegisterUser links a discord user to a steam id and materializes their
// tradeable player row.
func (h *MarketHandlers) RegisterUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			GuildID   int64  `json:"guild_id"`
			DiscordID int64  `json:"discord_id"`
			SteamID   string `json:"steam_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.GuildID <= 0 || body.DiscordID <= 0 || body.SteamID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		user, err := h.store.EnsureUser(r.Context(), body.DiscordID, body.GuildID)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		if err := h.store.SetUserSteamID(r.Context(), user.ID, body.SteamID); err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		user.SteamID = &body.SteamID
		player, err := h.store.EnsurePlayerForUser(r.Context(), user)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"user": user, "player": player})
	}
}

func (h *MarketHandlers) CreateTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			GuildID     int64  `json:"guild_id"`
			OwnerUserID string `json:"owner_user_id"`
			Name        string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.GuildID <= 0 || body.OwnerUserID == "" || body.Name == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if _, err := h.store.GetUser(r.Context(), body.OwnerUserID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "user_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		// One team per owner per guild.
		if _, err := h.store.GetTeamByOwner(r.Context(), body.GuildID, body.OwnerUserID); err == nil {
			WriteHTTPError(w, http.StatusConflict, "team_exists")
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		teamID, err := h.store.CreateTeam(r.Context(), body.GuildID, body.OwnerUserID, body.Name)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"team_id": teamID, "name": body.Name})
	}
}

func (h *MarketHandlers) Buy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "team_id")
		var body struct {
			GuildID  int64   `json:"guild_id"`
			PlayerID string  `json:"player_id"`
			Role     *string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.GuildID <= 0 || body.PlayerID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		res, err := h.marketSvc.QueueBuy(r.Context(), body.GuildID, teamID, body.PlayerID, body.Role)
		if err != nil {
			writeMarketError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

func (h *MarketHandlers) Sell() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "team_id")
		var body struct {
			GuildID  int64  `json:"guild_id"`
			PlayerID string `json:"player_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.GuildID <= 0 || body.PlayerID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		res, err := h.marketSvc.QueueSell(r.Context(), body.GuildID, teamID, body.PlayerID)
		if err != nil {
			writeMarketError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

// writeMarketError maps ledger errors onto the wire taxonomy. Rejected
// transfers are conflicts, not client mistakes.
func writeMarketError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, market.ErrTeamNotFound):
		WriteHTTPError(w, http.StatusNotFound, "team_not_found")
	case errors.Is(err, market.ErrAlreadyQueued):
		WriteHTTPError(w, http.StatusConflict, "already_on_team")
	case errors.Is(err, market.ErrRosterFull):
		WriteHTTPError(w, http.StatusConflict, "roster_full")
	case errors.Is(err, market.ErrNotOnRoster):
		WriteHTTPError(w, http.StatusConflict, "not_on_roster")
	case errors.Is(err, market.ErrInsufficientBudget):
		WriteHTTPError(w, http.StatusConflict, "insufficient_budget")
	case errors.Is(err, market.ErrTransferCapReached):
		WriteHTTPError(w, http.StatusConflict, "transfer_cap_reached")
	case errors.Is(err, market.ErrNoPriceAvailable):
		WriteHTTPError(w, http.StatusConflict, "no_price_available")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
