package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shotline/shotline-backend/internal/http/response"
	pkgerrors "github.com/shotline/shotline-backend/internal/pkg/errors"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		response.RespondError(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, pkgerrors.ErrInputMissing):
		response.RespondError(c, http.StatusUnprocessableEntity, "input_missing", err)
	case errors.Is(err, pkgerrors.ErrRetriesExhausted), errors.Is(err, pkgerrors.ErrWriteConflict):
		response.RespondError(c, http.StatusConflict, "write_conflict", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
