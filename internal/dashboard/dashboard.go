// Package dashboard serves the live helix channel: a WebSocket that drives
// one navigator session and forwards searches and chats to the gateway.
package dashboard

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/enfoco/enfoco/internal/catalog"
	"github.com/enfoco/enfoco/internal/gateway"
	"github.com/enfoco/enfoco/internal/session"
)

// Dashboard wires the WebSocket channel and its stats endpoint.
type Dashboard struct {
	sessions *session.Store
	gateway  gateway.Gateway
	catalog  *catalog.Catalog
	logger   *zap.Logger
}

// New creates a new Dashboard.
func New(sessions *session.Store, gw gateway.Gateway, cat *catalog.Catalog, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{
		sessions: sessions,
		gateway:  gw,
		catalog:  cat,
		logger:   logger,
	}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/api/dashboard/stats", d.handleStats)
	r.Get("/ws/helix", d.handleWebSocket)
}
