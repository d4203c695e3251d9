package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shotline/shotline-backend/internal/http/response"
	"github.com/shotline/shotline-backend/internal/services"
)

type SessionHandler struct {
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (sh *SessionHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	clientID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Location string               `json:"location"`
		Notes    string               `json:"notes"`
		HeldAt   time.Time            `json:"held_at"`
		Shots    []services.ShotInput `json:"shots"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	session, err := sh.sessionService.Create(c.Request.Context(), userID, clientID, req.Location, req.Notes, req.HeldAt, req.Shots)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, session)
}

func (sh *SessionHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	sessionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	session, shots, err := sh.sessionService.Get(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session, "shots": shots})
}

func (sh *SessionHandler) ListByClient(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	clientID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	sessions, err := sh.sessionService.ListByClient(c.Request.Context(), userID, clientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": sessions})
}
