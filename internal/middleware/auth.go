package middleware

import (
	"errors"
	"log"
	"net/http"

	"campusresponse/internal/db"
	"campusresponse/internal/models"
	"campusresponse/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"
const UnreadCountKey = "unread_count"
const SessionUserKey = "user_id"

// AccessDenied is flashed when a user opens another role's page.
const AccessDenied = "Access denied."

// CurrentUser returns the user LoadUser put in the context, nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(CheckUserKey); exists {
		return u.(*models.User)
	}
	return nil
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RoleRequired lets only the given role through; everyone else is sent back
// to their own dashboard with a flash.
func RoleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if user.Role() != role {
			session := sessions.Default(c)
			session.AddFlash(AccessDenied, "error")
			session.Save()
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(SessionUserKey).(uint)
		if !ok {
			c.Next()
			return
		}

		user, err := services.GetAccount(db.DB, userID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				// 账号已被删除
				session.Delete(SessionUserKey)
				session.Save()
			} else {
				log.Printf("Failed to load session user %d: %v", userID, err)
			}
			c.Next()
			return
		}
		c.Set(CheckUserKey, user)

		count, err := services.UnreadCount(db.DB, user.ID)
		if err != nil {
			log.Printf("Failed to count notifications for %s: %v", user.Username, err)
		}
		c.Set(UnreadCountKey, count)
		c.Next()
	}
}
