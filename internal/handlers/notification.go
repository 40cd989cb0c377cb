package handlers

import (
	"errors"
	"log"
	"net/http"

	"campusresponse/internal/db"
	"campusresponse/internal/middleware"
	"campusresponse/internal/services"
	"campusresponse/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

type notificationItem struct {
	ID        uint   `json:"id"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// List returns the caller's unread notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	notifications, err := services.ListUnread(db.DB, user.ID)
	if err != nil {
		log.Printf("Failed to list notifications for %s: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}

	items := make([]notificationItem, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, notificationItem{
			ID:        n.ID,
			Message:   n.Message,
			CreatedAt: n.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items, "count": len(items)})
}

// ReadAll 只接受 POST，其余方法返回 success=false
func (h *NotificationHandler) ReadAll(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}

	user := middleware.CurrentUser(c)
	if _, err := services.MarkAllRead(db.DB, user.ID); err != nil {
		log.Printf("Failed to mark notifications read for %s: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *NotificationHandler) Read(c *gin.Context) {
	user := middleware.CurrentUser(c)

	err := services.MarkRead(db.DB, user.ID, utils.ParseID(c.Param("id")))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false})
	default:
		log.Printf("Failed to mark notification read: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
	}
}
