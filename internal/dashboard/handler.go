package dashboard

import (
	"net/http"
	"time"

	"github.com/tonzxz/ipophil-dms-sub000/internal/document"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Stats(c *gin.Context) {
	userID, _ := c.Get("user_id")
	agencyID, _ := c.Get("agency_id")

	actor := document.Actor{}
	if id, ok := userID.(uint64); ok {
		actor.UserID = id
	}
	if id, ok := agencyID.(uint64); ok {
		actor.AgencyID = id
	}

	stats, err := h.service.Stats(c.Request.Context(), actor, time.Now())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
