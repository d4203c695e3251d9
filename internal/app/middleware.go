package app

import (
	httpMW "github.com/shotline/shotline-backend/internal/http/middleware"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, svcs Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, svcs.Auth),
	}
}
