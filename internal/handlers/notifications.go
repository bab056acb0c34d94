package handlers

import (
	"net/http"

	"truthhub/internal/auth"
	"truthhub/internal/realtime"
	"truthhub/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NotificationHandler handles HTTP requests for notifications
type NotificationHandler struct {
	notifications *services.NotificationService
	hub           *realtime.Hub
	issuer        *auth.TokenIssuer
	db            *gorm.DB
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *services.NotificationService, hub *realtime.Hub,
	issuer *auth.TokenIssuer, db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, hub: hub, issuer: issuer, db: db}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	user := auth.CurrentUser(c)
	limit, offset := pagination(c)
	unreadOnly := c.Query("unread") == "true"

	notifications, total, err := h.notifications.ListForUser(user.ID, limit, offset, unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "total": total})
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	user := auth.CurrentUser(c)

	count, err := h.notifications.UnreadCount(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkAllRead handles PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user := auth.CurrentUser(c)

	if err := h.notifications.MarkAllRead(user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// ServeWS handles GET /ws/notifications. Browsers cannot set an
// Authorization header on WebSocket requests, so the access token
// arrives as a query parameter instead.
func (h *NotificationHandler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = c.GetHeader("Authorization")
	}

	claims, err := h.issuer.Verify(token)
	if err != nil || claims.Subject != "access" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	h.hub.ServeWS(c.Writer, c.Request, claims.UserID)
}
