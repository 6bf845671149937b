package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/citypulse/internal/feed"
	"github.com/joshua-takyi/citypulse/internal/metrics"
	"github.com/joshua-takyi/citypulse/internal/models"
	"github.com/joshua-takyi/citypulse/internal/services"
)

func parseFloatParam(c *gin.Context, name string) (*float64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

func SearchEvents(ss *services.SearchService, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := models.SearchQuery{Q: strings.TrimSpace(c.Query("q"))}

		lat, ok := parseFloatParam(c, "lat")
		if !ok {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("lat must be a number"))
			return
		}
		lng, ok := parseFloatParam(c, "lng")
		if !ok {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("lng must be a number"))
			return
		}
		radius, ok := parseFloatParam(c, "radius_km")
		if !ok {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("radius_km must be a number"))
			return
		}
		query.Lat = lat
		query.Lng = lng
		query.RadiusKm = radius

		results, err := ss.Search(c.Request.Context(), query)
		if err != nil {
			if errors.Is(err, feed.ErrUnconstrainedSearch) {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("provide a text query or a full lat/lng/radius_km triple"))
				return
			}
			if errors.Is(err, services.ErrInvalidSearchQuery) {
				c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
				return
			}
			_ = c.Error(err)
			return
		}

		if m != nil {
			m.ObserveSearchResults(len(results))
		}

		c.JSON(http.StatusOK, models.SuccessResponse(results, "search results"))
	}
}
