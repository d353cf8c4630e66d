package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles dashboard HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "dashboard").Logger(),
	}
}

// RegisterRoutes registers all dashboard routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/stats", h.HandleGetStats)
		r.Get("/live-value", h.HandleGetLiveValue)
		r.Get("/breakdown", h.HandleGetBreakdown)
	})
}

// HandleGetStats handles GET /api/dashboard/stats
func (h *Handler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.GetSnapshot()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute dashboard snapshot")
		http.Error(w, "Failed to compute dashboard snapshot", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": snapshot,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetLiveValue handles GET /api/dashboard/live-value
func (h *Handler) HandleGetLiveValue(w http.ResponseWriter, r *http.Request) {
	value, err := h.service.GetLiveValue()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute live portfolio value")
		http.Error(w, "Failed to compute live portfolio value", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"live_value": value,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetBreakdown handles GET /api/dashboard/breakdown
func (h *Handler) HandleGetBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.service.GetBreakdown()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute asset breakdown")
		http.Error(w, "Failed to compute asset breakdown", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": breakdown,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
