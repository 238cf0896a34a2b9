// README: Direct place search and directions endpoints.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mapchat/internal/maps"
	"mapchat/internal/types"
)

// MapsService is the subset of the maps client used by MapsHandler.
type MapsService interface {
	Search(ctx context.Context, query string) (maps.LocationResult, error)
	Directions(ctx context.Context, origin, destination string, mode types.TravelMode) (maps.DirectionsResult, error)
}

type MapsHandler struct {
	maps MapsService
}

func NewMapsHandler(svc MapsService) *MapsHandler {
	return &MapsHandler{maps: svc}
}

type searchReq struct {
	Query string `json:"query"`
}

// Search handles POST /api/search.
func (h *MapsHandler) Search(c *gin.Context) {
	var req searchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(c, http.StatusBadRequest, "missing query")
		return
	}

	res, err := h.maps.Search(c.Request.Context(), req.Query)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

// Directions handles GET /api/directions?origin=&destination=&mode=.
func (h *MapsHandler) Directions(c *gin.Context) {
	origin := strings.TrimSpace(c.Query("origin"))
	destination := strings.TrimSpace(c.Query("destination"))
	if origin == "" || destination == "" {
		writeError(c, http.StatusBadRequest, "origin and destination are required")
		return
	}

	mode := types.TravelModeDriving
	if raw := c.Query("mode"); raw != "" {
		m, ok := types.ParseTravelMode(raw)
		if !ok {
			writeError(c, http.StatusBadRequest, "invalid mode: must be driving, walking, bicycling or transit")
			return
		}
		mode = m
	}

	res, err := h.maps.Directions(c.Request.Context(), origin, destination, mode)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}
