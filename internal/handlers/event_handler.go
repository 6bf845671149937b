package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/citypulse/internal/helpers"
	"github.com/joshua-takyi/citypulse/internal/models"
	"github.com/joshua-takyi/citypulse/internal/services"
)

// requireClaims pulls the authenticated user out of the context set by
// AuthMiddleware. Handlers behind the auth group can rely on it being set.
func requireClaims(c *gin.Context) (uuid.UUID, *helpers.EnhancedClaims, bool) {
	raw, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return uuid.Nil, nil, false
	}
	claims, ok := raw.(*helpers.EnhancedClaims)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid user claims"))
		return uuid.Nil, nil, false
	}
	userId, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("invalid user ID in token"))
		return uuid.Nil, nil, false
	}
	return userId, claims, true
}

func eventIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid event ID format"))
		return uuid.Nil, false
	}
	return id, true
}

type createEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	ImageURL    string    `json:"image_url"`
}

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _, ok := requireClaims(c)
		if !ok {
			return
		}

		var req createEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		accessToken, err := c.Cookie("access_token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("access token not found"))
			return
		}

		event := &models.Event{
			Title:       req.Title,
			Description: req.Description,
			Coordinates: models.Coordinates{Latitude: req.Lat, Longitude: req.Lng},
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			ImageURL:    req.ImageURL,
		}

		created, err := es.CreateEvent(c.Request.Context(), event, userId, accessToken)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(created, "event created"))
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := eventIDParam(c)
		if !ok {
			return
		}

		detail, err := es.GetEventDetail(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrEventNotFound) {
				c.JSON(http.StatusNotFound, models.ErrorResponse("event not found"))
				return
			}
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(detail, "event details"))
	}
}

type updateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Lat         *float64   `json:"lat"`
	Lng         *float64   `json:"lng"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
}

func UpdateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, claims, ok := requireClaims(c)
		if !ok {
			return
		}
		id, ok := eventIDParam(c)
		if !ok {
			return
		}

		var req updateEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		accessToken, err := c.Cookie("access_token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("access token not found"))
			return
		}

		input := services.UpdateEventInput{
			Title:       req.Title,
			Description: req.Description,
			Lat:         req.Lat,
			Lng:         req.Lng,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
		}

		updated, err := es.UpdateEvent(c.Request.Context(), id, userId, claims.IsAdmin(), input, accessToken)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEventNotFound):
				c.JSON(http.StatusNotFound, models.ErrorResponse("event not found"))
			case errors.Is(err, services.ErrNotEventOwner):
				c.JSON(http.StatusForbidden, models.ErrorResponse("you are not the owner of this event"))
			default:
				c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			}
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "event updated"))
	}
}

func DeleteEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, claims, ok := requireClaims(c)
		if !ok {
			return
		}
		id, ok := eventIDParam(c)
		if !ok {
			return
		}

		accessToken, err := c.Cookie("access_token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("access token not found"))
			return
		}

		if err := es.DeleteEvent(c.Request.Context(), id, userId, claims.IsAdmin(), accessToken); err != nil {
			switch {
			case errors.Is(err, services.ErrEventNotFound):
				c.JSON(http.StatusNotFound, models.ErrorResponse("event not found"))
			case errors.Is(err, services.ErrNotEventOwner):
				c.JSON(http.StatusForbidden, models.ErrorResponse("you are not the owner of this event"))
			default:
				_ = c.Error(err)
			}
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "event deleted"))
	}
}
