package http

import (
	"github.com/gin-gonic/gin"

	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

// Server owns the gin engine and its listen lifecycle.
type Server struct {
	engine *gin.Engine
	log    *logger.Logger
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{
		engine: NewRouter(cfg),
		log:    cfg.Log.With("service", "HTTPServer"),
	}
}

func (s *Server) Run(address string) error {
	s.log.Info("HTTP server listening", "address", address)
	return s.engine.Run(address)
}
