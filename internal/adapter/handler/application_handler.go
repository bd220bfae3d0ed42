package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okrahel/venue_flow/internal/core/domain"
	"github.com/okrahel/venue_flow/internal/core/services"
)

type ApplicationHandler struct {
	svc *services.WorkflowService
}

func NewApplicationHandler(svc *services.WorkflowService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

func (h *ApplicationHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/{id}/decision", h.decide)
}

func (h *ApplicationHandler) create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateStaffApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	resp, err := h.svc.CreateStaffApplication(r.Context(), chi.URLParam(r, "tenant"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *ApplicationHandler) list(w http.ResponseWriter, r *http.Request) {
	var status *domain.Status
	if q := r.URL.Query().Get("status"); q != "" {
		s := domain.Status(q)
		status = &s
	}
	apps, err := h.svc.List(r.Context(), chi.URLParam(r, "tenant"), domain.KindStaffApplication, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntityResponses(apps))
}

var decisionTransitions = map[string]domain.Transition{
	"under_review": domain.TransitionBeginReview,
	"approved":     domain.TransitionApprove,
	"rejected":     domain.TransitionReject,
	"waitlist":     domain.TransitionWaitlist,
}

func (h *ApplicationHandler) decide(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Decision string `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	tr, ok := decisionTransitions[body.Decision]
	if !ok {
		writeError(w, fmt.Errorf("%w: unknown decision %q", services.ErrInvalidInput, body.Decision))
		return
	}
	err := h.svc.ReviewStaffApplication(r.Context(), chi.URLParam(r, "tenant"), actorFrom(r), chi.URLParam(r, "id"), tr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
