package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shotline/shotline-backend/internal/http/response"
	"github.com/shotline/shotline-backend/internal/pkg/ctxutil"
	"github.com/shotline/shotline-backend/internal/services"
)

type ClientHandler struct {
	clientService services.ClientService
}

func NewClientHandler(clientService services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func (ch *ClientHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		Name       string `json:"name"`
		Discipline string `json:"discipline"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	client, err := ch.clientService.Create(c.Request.Context(), userID, req.Name, req.Discipline)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, client)
}

func (ch *ClientHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	clientID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	client, err := ch.clientService.Get(c.Request.Context(), userID, clientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, client)
}

func (ch *ClientHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	clients, err := ch.clientService.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"clients": clients})
}

func (ch *ClientHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	clientID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ch.clientService.Delete(c.Request.Context(), userID, clientID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
