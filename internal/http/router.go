package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/shotline/shotline-backend/internal/http/handlers"
	httpMW "github.com/shotline/shotline-backend/internal/http/middleware"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	ClientHandler       *httpH.ClientHandler
	SessionHandler      *httpH.SessionHandler
	PlanHandler         *httpH.PlanHandler
	SessionNotesHandler *httpH.SessionNotesHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Clients
		if cfg.ClientHandler != nil {
			protected.POST("/clients", cfg.ClientHandler.Create)
			protected.GET("/clients", cfg.ClientHandler.List)
			protected.GET("/clients/:id", cfg.ClientHandler.Get)
			protected.DELETE("/clients/:id", cfg.ClientHandler.Delete)
		}

		// Sessions
		if cfg.SessionHandler != nil {
			protected.POST("/clients/:id/sessions", cfg.SessionHandler.Create)
			protected.GET("/clients/:id/sessions", cfg.SessionHandler.ListByClient)
			protected.GET("/sessions/:id", cfg.SessionHandler.Get)
		}

		// Training plans
		if cfg.PlanHandler != nil {
			protected.POST("/clients/:id/plan/generate", cfg.PlanHandler.Generate)
			protected.GET("/clients/:id/plan", cfg.PlanHandler.GetActive)
			protected.GET("/clients/:id/plan/versions", cfg.PlanHandler.ListVersions)
		}

		// Session notes
		if cfg.SessionNotesHandler != nil {
			protected.POST("/sessions/:id/notes/generate", cfg.SessionNotesHandler.Generate)
			protected.GET("/sessions/:id/notes", cfg.SessionNotesHandler.GetActive)
			protected.POST("/sessions/:id/notes/activate", cfg.SessionNotesHandler.Activate)
			protected.GET("/sessions/:id/notes/versions", cfg.SessionNotesHandler.ListVersions)
		}
	}

	return r
}
