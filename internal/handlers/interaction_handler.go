package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/citypulse/internal/models"
	"github.com/joshua-takyi/citypulse/internal/services"
)

func ToggleLike(is *services.InteractionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _, ok := requireClaims(c)
		if !ok {
			return
		}
		eventId, ok := eventIDParam(c)
		if !ok {
			return
		}

		result, err := is.ToggleLike(c.Request.Context(), userId, eventId)
		if err != nil {
			if errors.Is(err, services.ErrEventNotFound) {
				c.JSON(http.StatusNotFound, models.ErrorResponse("event not found"))
				return
			}
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(result, "like toggled"))
	}
}

func MarkAttendance(is *services.InteractionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _, ok := requireClaims(c)
		if !ok {
			return
		}
		eventId, ok := eventIDParam(c)
		if !ok {
			return
		}

		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		result, err := is.MarkAttendance(c.Request.Context(), userId, eventId, strings.ToLower(req.Status))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEventNotFound):
				c.JSON(http.StatusNotFound, models.ErrorResponse("event not found"))
			case errors.Is(err, services.ErrInvalidAttendStatus):
				c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			default:
				_ = c.Error(err)
			}
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(result, "attendance updated"))
	}
}

func AddComment(is *services.InteractionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _, ok := requireClaims(c)
		if !ok {
			return
		}
		eventId, ok := eventIDParam(c)
		if !ok {
			return
		}

		var req struct {
			Content string `json:"content" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		comment, err := is.AddComment(c.Request.Context(), userId, eventId, req.Content)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEventNotFound):
				c.JSON(http.StatusNotFound, models.ErrorResponse("event not found"))
			case errors.Is(err, services.ErrInvalidComment):
				c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			default:
				_ = c.Error(err)
			}
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(comment, "comment added"))
	}
}

func ListComments(is *services.InteractionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := eventIDParam(c)
		if !ok {
			return
		}

		comments, err := is.ListComments(c.Request.Context(), eventId)
		if err != nil {
			if errors.Is(err, services.ErrEventNotFound) {
				c.JSON(http.StatusNotFound, models.ErrorResponse("event not found"))
				return
			}
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(comments, "comments"))
	}
}
