package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/citypulse/internal/metrics"
	"github.com/joshua-takyi/citypulse/internal/models"
	"github.com/joshua-takyi/citypulse/internal/services"
)

func GetFeed(fs *services.FeedService, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("page must be an integer"))
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("limit must be an integer"))
			return
		}

		feedPage, err := fs.GetFeed(c.Request.Context(), page, limit)
		if err != nil {
			// Store failures surface as a generic 500 via the error
			// handler middleware; the detail only goes to the log.
			_ = c.Error(err)
			return
		}

		if m != nil {
			m.ObserveFeedCandidates(feedPage.Total)
		}

		c.JSON(http.StatusOK, models.PaginatedResponse(feedPage.Events, feedPage.Page, feedPage.Limit, feedPage.Total))
	}
}
