package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandoesporte/gut59/backend/internal/service"
)

const defaultKeepalive = 25 * time.Second

// NotificationHandler lists notifications and streams new ones over SSE
type NotificationHandler struct {
	notifications service.INotificationService
	keepalive     time.Duration
}

// NewNotificationHandler creates a new NotificationHandler instance
func NewNotificationHandler(notifications service.INotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, keepalive: defaultKeepalive}
}

// RegisterRoutes registers notification routes on an authenticated group
func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.POST("/:id/read", h.MarkRead)
		notifications.GET("/stream", h.Stream)
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	unread := c.Query("unread") == "true"
	items, err := h.notifications.List(c.Request.Context(), userID, unread, queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stream pushes the user's notifications as server-sent events until the client leaves
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	events, cancel, err := h.notifications.Subscribe(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer cancel()

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case n, open := <-events:
			if !open {
				return false
			}
			c.SSEvent("notification", n)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", t.Unix())
			return true
		}
	})
}
