package api

import (
	"net/http"

	"github.com/koopa0/pilot/internal/log"
	"github.com/koopa0/pilot/internal/tools"
)

// HealthHandler serves the static status and capability endpoints.
type HealthHandler struct {
	streaming bool
	version   string
	logger    log.Logger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(streaming bool, version string, logger log.Logger) *HealthHandler {
	return &HealthHandler{streaming: streaming, version: version, logger: logger}
}

// RegisterRoutes registers health routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /api/info", h.info)
}

// health reports process liveness and the configured streaming mode.
func (h *HealthHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": isoNow(),
		"agent":     "ready",
		"streaming": h.streaming,
	})
}

// info reports the gateway's static capabilities.
func (h *HealthHandler) info(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]any{
		"name":         "Pilot Agent Gateway",
		"version":      h.version,
		"websocket":    "/ws",
		"capabilities": []string{"navigation", "notifications", "ui-actions"},
		"tools":        tools.Names(),
		"features": map[string]any{
			"streaming":     h.streaming,
			"realTimeTools": true,
			"webUI":         true,
		},
	})
}
