package handlers

import (
	"errors"
	"log"
	"net/http"

	"campusresponse/internal/middleware"
	"campusresponse/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
		obj["Role"] = user.Role()
		if count, ok := c.Get(middleware.UnreadCountKey); ok {
			obj["UnreadCount"] = int(count.(int64))
		} else {
			obj["UnreadCount"] = 0
		}
	}

	// flashes are consumed on render
	session := sessions.Default(c)
	obj["SuccessMessages"] = session.Flashes(flashSuccess)
	obj["ErrorMessages"] = session.Flashes(flashError)
	session.Save()

	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Title": http.StatusText(code), "Error": message})
}

func addFlash(c *gin.Context, kind, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, kind)
	session.Save()
}

// redirectWithFlash 设置提示后跳转
func redirectWithFlash(c *gin.Context, path, kind, message string) {
	addFlash(c, kind, message)
	c.Redirect(http.StatusFound, path)
}

// serviceError maps the service sentinels onto an HTTP response.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		RenderError(c, http.StatusNotFound, "The page you requested does not exist.")
	case errors.Is(err, services.ErrPermissionDenied):
		redirectWithFlash(c, "/dashboard", flashError, middleware.AccessDenied)
	default:
		log.Printf("Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

// fieldErrors returns the per-field messages of a ValidationError, nil otherwise.
func fieldErrors(err error) map[string]string {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
