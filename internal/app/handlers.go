package app

import (
	httpH "github.com/shotline/shotline-backend/internal/http/handlers"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	Client       *httpH.ClientHandler
	Session      *httpH.SessionHandler
	Plan         *httpH.PlanHandler
	SessionNotes *httpH.SessionNotesHandler
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(),
		Auth:         httpH.NewAuthHandler(svcs.Auth),
		Client:       httpH.NewClientHandler(svcs.Client),
		Session:      httpH.NewSessionHandler(svcs.Session),
		Plan:         httpH.NewPlanHandler(svcs.Plan),
		SessionNotes: httpH.NewSessionNotesHandler(svcs.SessionNotes),
	}
}
