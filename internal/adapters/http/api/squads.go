package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/okian/gwbadge/internal/domain/types"
)

// SquadsHandler serves /squads/{squad}/achievements and
// /squads/{squad}/history.
type SquadsHandler struct {
	deps         Dependencies
	maxBodyBytes int64
}

// NewSquadsHandler creates a squads handler.
func NewSquadsHandler(deps Dependencies, maxBodyBytes int64) *SquadsHandler {
	return &SquadsHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandleSquad dispatches on the resource after the squad id.
func (h *SquadsHandler) HandleSquad(w http.ResponseWriter, r *http.Request) {
	squadID, resource, ok := splitSquadPath(r.URL.Path)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", ErrUnknownRoute)
		return
	}
	switch resource {
	case "achievements":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		h.handleEvaluate(w, r, squadID)
	case "history":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		h.handleHistory(w, r, squadID)
	default:
		writeError(w, http.StatusNotFound, "not_found", ErrUnknownRoute)
	}
}

// splitSquadPath parses /squads/{squad}/{resource}.
func splitSquadPath(path string) (squadID, resource string, ok bool) {
	rest := strings.TrimPrefix(path, "/squads/")
	parts := strings.Split(strings.TrimSuffix(rest, "/"), "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (h *SquadsHandler) handleEvaluate(w http.ResponseWriter, r *http.Request, squadID string) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", ErrPayloadTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	report, err := h.deps.Evaluate(r.Context(), squadID, body, types.ParseView(r.URL.Query().Get("view")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *SquadsHandler) handleHistory(w http.ResponseWriter, r *http.Request, squadID string) {
	history, err := h.deps.History(r.Context(), squadID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
