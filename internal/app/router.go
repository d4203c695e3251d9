package app

import (
	shothttp "github.com/shotline/shotline-backend/internal/http"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers, mw Middleware) *shothttp.Server {
	log.Info("Wiring router...")
	return shothttp.NewServer(shothttp.RouterConfig{
		Log:                 log,
		AuthHandler:         handlers.Auth,
		AuthMiddleware:      mw.Auth,
		ClientHandler:       handlers.Client,
		SessionHandler:      handlers.Session,
		PlanHandler:         handlers.Plan,
		SessionNotesHandler: handlers.SessionNotes,
		HealthHandler:       handlers.Health,
	})
}
