// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mapchat/internal/maps"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Detail: msg})
}

// writeServiceError maps collaborator errors to a status. Invalid input is a
// 400; anything else is reported as a 500 carrying the error text.
func writeServiceError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, maps.ErrEmptyQuery), errors.Is(err, maps.ErrEmptyEndpoint):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, err.Error())
	}
}
