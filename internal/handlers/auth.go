package handlers

import (
	"errors"
	"log"
	"net/http"

	"campusresponse/internal/db"
	"campusresponse/internal/middleware"
	"campusresponse/internal/models"
	"campusresponse/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

func login(c *gin.Context, user *models.User) {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	session.Save()
}

// Home 首页直接跳转
func (h *AuthHandler) Home(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	Render(c, http.StatusOK, "auth/register.html", gin.H{
		"Title": "Register",
		"Roles": models.Roles,
		"Form":  services.RegisterInput{Role: string(models.RoleStudent)},
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		RenderError(c, http.StatusBadRequest, "Malformed registration form.")
		return
	}

	user, err := services.RegisterAccount(db.DB, in)
	if err != nil {
		if fields := fieldErrors(err); fields != nil {
			in.Password, in.PasswordConfirm = "", ""
			Render(c, http.StatusBadRequest, "auth/register.html", gin.H{
				"Title":  "Register",
				"Roles":  models.Roles,
				"Form":   in,
				"Errors": fields,
			})
			return
		}
		serviceError(c, err)
		return
	}

	login(c, user)
	redirectWithFlash(c, user.Role().DashboardPath(), flashSuccess, "Registration successful. Welcome, "+user.DisplayName()+"!")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	Render(c, http.StatusOK, "auth/login.html", gin.H{"Title": "Login"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := services.Authenticate(db.DB, username, password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			log.Printf("Login lookup failed: %v", err)
		}
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{
			"Title":    "Login",
			"Username": username,
			"Error":    "Please enter a correct username and password.",
		})
		return
	}

	login(c, user)
	c.Redirect(http.StatusFound, user.Role().DashboardPath())
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.AddFlash("You have been logged out.", flashSuccess)
	session.Save()
	c.Redirect(http.StatusFound, "/login")
}
