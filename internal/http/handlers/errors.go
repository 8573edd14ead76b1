package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/landgriffon/landgriffon-backend/internal/http/response"
	pkgerrors "github.com/landgriffon/landgriffon-backend/internal/pkg/errors"
)

// respondRepoError maps the sentinel errors of the data layer to HTTP
// statuses.
func respondRepoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
