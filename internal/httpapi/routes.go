package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wordspy/backend/internal/gateway"
	"github.com/wordspy/backend/internal/ident"
	"github.com/wordspy/backend/internal/ws"
)

func SetupRoutes(h *gateway.Hub, reg *ident.Registry, defaultRoom string, originPatterns []string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/rooms", CreateRoom(h, log))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, reg, defaultRoom, originPatterns, log))
	return r
}
