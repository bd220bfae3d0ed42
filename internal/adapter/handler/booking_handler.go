package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okrahel/venue_flow/internal/core/domain"
	"github.com/okrahel/venue_flow/internal/core/services"
)

type BookingHandler struct {
	svc *services.WorkflowService
}

func NewBookingHandler(svc *services.WorkflowService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/{id}/confirm", h.transition(domain.TransitionConfirm))
	r.Post("/{id}/seat", h.transition(domain.TransitionSeat))
	r.Post("/{id}/complete", h.transition(domain.TransitionComplete))
	r.Post("/{id}/cancel", h.transition(domain.TransitionCancel))
	r.Post("/{id}/no-show", h.transition(domain.TransitionNoShow))
	r.Post("/{id}/reset", h.transition(domain.TransitionReset))
}

func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	resp, err := h.svc.CreateBooking(r.Context(), chi.URLParam(r, "tenant"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request) {
	tab := services.BookingTab(r.URL.Query().Get("tab"))
	if tab == "" {
		tab = services.TabAll
	}
	date := r.URL.Query().Get("date")

	bookings, err := h.svc.Bookings(r.Context(), chi.URLParam(r, "tenant"), tab, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntityResponses(bookings))
}

func (h *BookingHandler) transition(tr domain.Transition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h.svc.TransitionBooking(r.Context(), chi.URLParam(r, "tenant"), actorFrom(r), chi.URLParam(r, "id"), tr)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
