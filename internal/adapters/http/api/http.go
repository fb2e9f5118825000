// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/adapters/repository"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/aggregate"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/valuation"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Seasons lists ingested season summaries.
	Seasons(ctx context.Context) ([]repository.SeasonInfo, error)
	// Rows returns one week's rows in display order.
	Rows(ctx context.Context, season, week int) ([]model.WeeklyRow, error)
	// TopWAR returns the league-wide single-week leaderboard, optionally
	// restricted to one season.
	TopWAR(ctx context.Context, season, limit int, position string) ([]model.WeeklyRow, error)

	// Player resolves a canonical id, namespace id, or name.
	Player(ctx context.Context, key string) (model.PlayerIdentity, bool)
	// PlayerRows returns a player's weekly history.
	PlayerRows(ctx context.Context, canonicalID string) ([]model.WeeklyRow, error)
	// BoomBust computes a player's consistency profile.
	BoomBust(ctx context.Context, key string, season int) (model.PlayerIdentity, valuation.BoomBust, bool, error)

	// Careers returns per-owner career totals.
	Careers(ctx context.Context) ([]aggregate.CareerTotals, error)
	// HeadToHead compares two owners across the whole history.
	HeadToHead(ctx context.Context, a, b string) (aggregate.HeadToHead, error)
	// Owners lists canonical owners with their observed labels.
	Owners(ctx context.Context) []model.OwnerIdentity
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	seasonsHandler     *SeasonsHandler
	rowsHandler        *RowsHandler
	leaderboardHandler *LeaderboardHandler
	playersHandler     *PlayersHandler
	ownersHandler      *OwnersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		seasonsHandler:     NewSeasonsHandler(deps),
		rowsHandler:        NewRowsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		playersHandler:     NewPlayersHandler(deps),
		ownersHandler:      NewOwnersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/seasons", MetricsMiddleware(s.seasonsHandler.HandleGetSeasons, "seasons"))
	mux.HandleFunc("/rows", MetricsMiddleware(s.rowsHandler.HandleGetRows, "rows"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandleGetPlayer, "players"))
	mux.HandleFunc("/owners/", MetricsMiddleware(s.ownersHandler.HandleOwners, "owners"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
