package notification

import (
	defError "errors"
	"net/http"
	"strconv"

	"github.com/tonzxz/ipophil-dms-sub000/internal/errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	userID, _ := c.Get("user_id")

	unreadOnly := c.Query("unread") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	notifications, err := h.service.List(c.Request.Context(), userID.(uint64), unreadOnly, limit)
	if err != nil {
		c.Error(err)
		return
	}

	unread, err := h.service.UnreadCount(c.Request.Context(), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notifications, "unread": unread})
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.Validation("Invalid notification id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.MarkRead(c.Request.Context(), id, userID.(uint64)); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			c.Error(errors.NotFound("Notification not found", err))
			return
		}
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	userID, _ := c.Get("user_id")

	if err := h.service.MarkAllRead(c.Request.Context(), userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
