package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/valuation"
)

// PlayersHandler serves player identity lookups and consistency profiles.
type PlayersHandler struct {
	deps Dependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

type playerResponse struct {
	Identity model.PlayerIdentity `json:"identity"`
	Rows     []model.WeeklyRow    `json:"rows"`
}

type boomBustResponse struct {
	Identity model.PlayerIdentity `json:"identity"`
	Profile  valuation.BoomBust   `json:"profile"`
}

// HandleGetPlayer routes /players/{key} and /players/{key}/boombust. The key
// may be a canonical id, a bare source id, or a display name.
func (h *PlayersHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/players/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "missing_player",
			fmt.Errorf("%w: player key required", ErrBadRequest))
		return
	}

	if key, ok := strings.CutSuffix(rest, "/boombust"); ok {
		h.handleBoomBust(w, r, key)
		return
	}

	h.handlePlayer(w, r, rest)
}

func (h *PlayersHandler) handlePlayer(w http.ResponseWriter, r *http.Request, key string) {
	ident, ok := h.deps.Player(r.Context(), key)
	if !ok {
		writeError(w, http.StatusNotFound, "player_not_found",
			fmt.Errorf("no player matches %q", key))
		return
	}

	rows, err := h.deps.PlayerRows(r.Context(), ident.CanonicalID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, playerResponse{Identity: ident, Rows: rows})
}

func (h *PlayersHandler) handleBoomBust(w http.ResponseWriter, r *http.Request, key string) {
	season := 0
	if raw := r.URL.Query().Get("season"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_season",
				fmt.Errorf("%w: season must be an integer", ErrBadRequest))
			return
		}
		season = v
	}

	ident, profile, ok, err := h.deps.BoomBust(r.Context(), key, season)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "player_not_found",
			fmt.Errorf("no player matches %q", key))
		return
	}

	writeJSON(w, http.StatusOK, boomBustResponse{Identity: ident, Profile: profile})
}
