package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/citypulse/internal/models"
	"github.com/joshua-takyi/citypulse/internal/services"
)

func PostChatMessage(cs *services.ChatService) gin.HandlerFunc {
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

		msg, err := cs.PostMessage(c.Request.Context(), userId, eventId, req.Content)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEventNotFound):
				c.JSON(http.StatusNotFound, models.ErrorResponse("event not found"))
			case errors.Is(err, services.ErrLobbyClosed):
				c.JSON(http.StatusForbidden, models.ErrorResponse("chat lobby is only open while the event is live"))
			case errors.Is(err, services.ErrInvalidComment):
				c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			default:
				_ = c.Error(err)
			}
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(msg, "message posted"))
	}
}

func GetChatMessages(cs *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := eventIDParam(c)
		if !ok {
			return
		}

		msgs, err := cs.RecentMessages(c.Request.Context(), eventId)
		if err != nil {
			if errors.Is(err, services.ErrEventNotFound) {
				c.JSON(http.StatusNotFound, models.ErrorResponse("event not found"))
				return
			}
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(msgs, "chat messages"))
	}
}
