package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wavelength-party/backend/internal/hub"
	"github.com/wavelength-party/backend/internal/ws"
)

// SetupRoutes builds the router with the hub injected. Room creation happens
// in-protocol over the socket, so the HTTP surface is just the upgrade
// endpoint and a health check.
func SetupRoutes(h *hub.Hub, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	return r
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
