package handlers

import (
	"errors"
	"net/http"

	"campusresponse/internal/db"
	"campusresponse/internal/middleware"
	"campusresponse/internal/models"
	"campusresponse/internal/services"
	"campusresponse/internal/utils"

	"github.com/gin-gonic/gin"
)

type IncidentHandler struct{}

func NewIncidentHandler() *IncidentHandler {
	return &IncidentHandler{}
}

func (h *IncidentHandler) Detail(c *gin.Context) {
	user := middleware.CurrentUser(c)

	incident, err := services.GetIncident(db.DB, utils.ParseID(c.Param("id")))
	if err != nil {
		serviceError(c, err)
		return
	}

	role := user.Role()
	if !services.CanView(role, incident, user.ID) {
		redirectWithFlash(c, "/dashboard", flashError, "You do not have permission to view this incident.")
		return
	}

	Render(c, http.StatusOK, "incident/detail.html", gin.H{
		"Title":     incident.Title,
		"Incident":  incident,
		"CanUpdate": services.CanUpdate(role, incident),
		"Statuses":  models.Statuses,
	})
}

// UpdateStatus 更新事件状态，成功后回到来源页面
func (h *IncidentHandler) UpdateStatus(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := utils.ParseID(c.Param("id"))
	status := models.Status(c.PostForm("status"))

	_, err := services.UpdateStatus(db.DB, user, id, status)
	switch {
	case err == nil:
		target := c.Request.Referer()
		if target == "" {
			target = "/dashboard"
		}
		redirectWithFlash(c, target, flashSuccess, "Incident status updated successfully!")
	case errors.Is(err, services.ErrPermissionDenied):
		redirectWithFlash(c, "/dashboard", flashError, "You do not have permission to update this incident.")
	case fieldErrors(err) != nil:
		redirectWithFlash(c, "/dashboard", flashError, fieldErrors(err)["status"])
	default:
		serviceError(c, err)
	}
}
