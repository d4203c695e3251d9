package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shotline/shotline-backend/internal/http/response"
	"github.com/shotline/shotline-backend/internal/services"
)

type SessionNotesHandler struct {
	notesService services.SessionNotesService
}

func NewSessionNotesHandler(notesService services.SessionNotesService) *SessionNotesHandler {
	return &SessionNotesHandler{notesService: notesService}
}

func (nh *SessionNotesHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	sessionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	force := c.Query("force") == "true"

	result, err := nh.notesService.Generate(c.Request.Context(), userID, sessionID, force)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"cached":       result.Cached,
		"reused":       result.Reused,
		"generated_by": result.GeneratedBy,
		"version":      result.Version,
	})
}

func (nh *SessionNotesHandler) GetActive(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	sessionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	version, err := nh.notesService.GetActive(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, version)
}

func (nh *SessionNotesHandler) Activate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	sessionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		VersionID string `json:"version_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	versionID, err := uuid.Parse(req.VersionID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_version_id", err)
		return
	}
	if err := nh.notesService.Activate(c.Request.Context(), userID, sessionID, versionID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (nh *SessionNotesHandler) ListVersions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	sessionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	versions, err := nh.notesService.ListVersions(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"versions": versions})
}
