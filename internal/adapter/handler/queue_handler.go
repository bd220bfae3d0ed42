package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/okrahel/venue_flow/internal/core/domain"
	"github.com/okrahel/venue_flow/internal/core/services"
)

type QueueHandler struct {
	svc    *services.WorkflowService
	logger *zap.Logger
}

func NewQueueHandler(svc *services.WorkflowService, logger *zap.Logger) *QueueHandler {
	return &QueueHandler{svc: svc, logger: logger}
}

func (h *QueueHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.view)
	r.Get("/history", h.history)
	r.Get("/stream", h.stream)
	r.Post("/play-next", h.playNext)
	r.Post("/skip", h.skip)
	r.Post("/clear", h.clear)
	r.Delete("/{id}", h.remove)
}

func (h *QueueHandler) create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateQueueItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	resp, err := h.svc.CreateQueueItem(r.Context(), chi.URLParam(r, "tenant"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *QueueHandler) view(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Queue(r.Context(), chi.URLParam(r, "tenant"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntityResponses(items))
}

func (h *QueueHandler) history(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.History(r.Context(), chi.URLParam(r, "tenant"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntityResponses(items))
}

// stream pushes the ordered up-next view as server-sent events, one event
// per snapshot. The subscription is released when the client disconnects.
func (h *QueueHandler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	tenant := chi.URLParam(r, "tenant")
	snapshots := make(chan []domain.Entity, 1)
	unsubscribe, err := h.svc.SubscribeQueue(r.Context(), tenant, func(snapshot []domain.Entity) {
		select {
		case snapshots <- snapshot:
		default:
			// Slow consumer: drop this snapshot, a newer one is coming.
		}
	})
	if err != nil {
		writeError(w, err)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot := <-snapshots:
			payload, err := json.Marshal(toEntityResponses(services.UpNext(snapshot)))
			if err != nil {
				h.logger.Warn("encoding queue snapshot failed", zap.String("tenant", tenant), zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (h *QueueHandler) playNext(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TargetID string `json:"target_id"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
			return
		}
	}
	if err := h.svc.StartPlaying(r.Context(), chi.URLParam(r, "tenant"), actorFrom(r), body.TargetID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *QueueHandler) skip(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Skip(r.Context(), chi.URLParam(r, "tenant"), actorFrom(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *QueueHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearQueue(r.Context(), chi.URLParam(r, "tenant"), actorFrom(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *QueueHandler) remove(w http.ResponseWriter, r *http.Request) {
	err := h.svc.RemoveQueueItem(r.Context(), chi.URLParam(r, "tenant"), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
