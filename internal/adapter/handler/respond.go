package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/okrahel/venue_flow/internal/core/domain"
	"github.com/okrahel/venue_flow/internal/core/ports"
	"github.com/okrahel/venue_flow/internal/core/services"
)

type entityResponse struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toEntityResponses(entities []domain.Entity) []entityResponse {
	out := make([]entityResponse, 0, len(entities))
	for _, e := range entities {
		out = append(out, entityResponse{
			ID:        e.ID,
			Status:    string(e.Status),
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		})
	}
	return out
}

// actorFrom reads the caller's identity from headers. Real authentication
// sits in front of this service; these headers are what it forwards.
func actorFrom(r *http.Request) services.Actor {
	role := domain.Role(r.Header.Get("X-Actor-Role"))
	if role == "" {
		role = domain.RoleCustomer
	}
	return services.Actor{
		ID:   r.Header.Get("X-Actor-ID"),
		Role: role,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the service error taxonomy onto HTTP statuses. Nothing
// propagates unhandled: every failure becomes a JSON envelope scoped to the
// request that caused it.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPermissionDenied), errors.Is(err, services.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, ports.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, domain.ErrUnknownTransition):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
