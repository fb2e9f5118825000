package api

import (
	"fmt"
	"net/http"
	"strconv"
)

// RowsHandler serves one week's reconciled lineup rows.
type RowsHandler struct {
	deps Dependencies
}

// NewRowsHandler creates a new rows handler.
func NewRowsHandler(deps Dependencies) *RowsHandler {
	return &RowsHandler{deps: deps}
}

// HandleGetRows returns the display-ordered rows for ?season= and ?week=.
func (h *RowsHandler) HandleGetRows(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	season, err := queryInt(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_season", err)
		return
	}

	week, err := queryInt(r, "week")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_week", err)
		return
	}

	rows, err := h.deps.Rows(r.Context(), season, week)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "week_not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: missing %q parameter", ErrBadRequest, name)
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q must be an integer", ErrBadRequest, name)
	}

	return v, nil
}
