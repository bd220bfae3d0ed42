package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okrahel/venue_flow/internal/core/domain"
	"github.com/okrahel/venue_flow/internal/core/services"
)

type CourierHandler struct {
	svc *services.WorkflowService
}

func NewCourierHandler(svc *services.WorkflowService) *CourierHandler {
	return &CourierHandler{svc: svc}
}

func (h *CourierHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/{id}/approve", h.decide(true))
	r.Post("/{id}/reject", h.decide(false))
}

func (h *CourierHandler) create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCourierApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	resp, err := h.svc.CreateCourierApplication(r.Context(), chi.URLParam(r, "tenant"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *CourierHandler) list(w http.ResponseWriter, r *http.Request) {
	var status *domain.Status
	if q := r.URL.Query().Get("status"); q != "" {
		s := domain.Status(q)
		status = &s
	}
	apps, err := h.svc.List(r.Context(), chi.URLParam(r, "tenant"), domain.KindCourierApplication, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntityResponses(apps))
}

func (h *CourierHandler) decide(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h.svc.DecideCourier(r.Context(), chi.URLParam(r, "tenant"), actorFrom(r), chi.URLParam(r, "id"), approve)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
