package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okrahel/venue_flow/internal/core/services"
)

type AuctionHandler struct {
	svc *services.WorkflowService
}

func NewAuctionHandler(svc *services.WorkflowService) *AuctionHandler {
	return &AuctionHandler{svc: svc}
}

func (h *AuctionHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/{id}/bids", h.bid)
	r.Delete("/{id}", h.remove)
}

func (h *AuctionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	resp, err := h.svc.CreateAuction(r.Context(), chi.URLParam(r, "tenant"), actorFrom(r), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *AuctionHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Auctions(r.Context(), chi.URLParam(r, "tenant"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntityResponses(items))
}

func (h *AuctionHandler) bid(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	err := h.svc.PlaceBid(r.Context(), chi.URLParam(r, "tenant"), chi.URLParam(r, "id"), body.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuctionHandler) remove(w http.ResponseWriter, r *http.Request) {
	err := h.svc.RemoveAuction(r.Context(), chi.URLParam(r, "tenant"), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
