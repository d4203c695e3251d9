package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shotline/shotline-backend/internal/http/response"
	"github.com/shotline/shotline-backend/internal/services"
)

type PlanHandler struct {
	planService services.PlanService
}

func NewPlanHandler(planService services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

func (ph *PlanHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	clientID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	force := c.Query("force") == "true"

	result, err := ph.planService.Generate(c.Request.Context(), userID, clientID, force)
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

func (ph *PlanHandler) GetActive(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	clientID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	version, err := ph.planService.GetActive(c.Request.Context(), userID, clientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, version)
}

func (ph *PlanHandler) ListVersions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	clientID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	versions, err := ph.planService.ListVersions(c.Request.Context(), userID, clientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"versions": versions})
}
