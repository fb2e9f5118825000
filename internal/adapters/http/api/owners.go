package api

import (
	"fmt"
	"net/http"
	"strings"
)

// OwnersHandler serves owner rosters, career totals, and head-to-head splits.
type OwnersHandler struct {
	deps Dependencies
}

// NewOwnersHandler creates a new owners handler.
func NewOwnersHandler(deps Dependencies) *OwnersHandler {
	return &OwnersHandler{deps: deps}
}

// HandleOwners routes /owners, /owners/career, and /owners/h2h.
func (h *OwnersHandler) HandleOwners(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	switch strings.TrimSuffix(r.URL.Path, "/") {
	case "/owners":
		writeJSON(w, http.StatusOK, h.deps.Owners(r.Context()))
	case "/owners/career":
		h.handleCareers(w, r)
	case "/owners/h2h":
		h.handleHeadToHead(w, r)
	default:
		writeError(w, http.StatusNotFound, "not_found", nil)
	}
}

func (h *OwnersHandler) handleCareers(w http.ResponseWriter, r *http.Request) {
	careers, err := h.deps.Careers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, careers)
}

func (h *OwnersHandler) handleHeadToHead(w http.ResponseWriter, r *http.Request) {
	a := r.URL.Query().Get("a")
	b := r.URL.Query().Get("b")
	if a == "" || b == "" {
		writeError(w, http.StatusBadRequest, "missing_owner",
			fmt.Errorf("%w: both %q and %q parameters are required", ErrBadRequest, "a", "b"))
		return
	}

	h2h, err := h.deps.HeadToHead(r.Context(), a, b)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, h2h)
}
