// README: Reverse-geocoding handler for the SOS and pickup screens.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ndjele/internal/geo"
	"ndjele/internal/types"
)

type GeoHandler struct {
	geocoder *geo.Geocoder
}

func NewGeoHandler(geocoder *geo.Geocoder) *GeoHandler {
	return &GeoHandler{geocoder: geocoder}
}

// Neighborhood handles GET /api/geo/neighborhood?lat=..&lng=..
func (h *GeoHandler) Neighborhood(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(c, http.StatusBadRequest, "invalid lat/lng")
		return
	}
	name := h.geocoder.Neighborhood(c.Request.Context(), types.Point{Lat: lat, Lng: lng})
	writeJSON(c, http.StatusOK, map[string]any{"neighborhood": name})
}
