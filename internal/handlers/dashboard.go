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

type DashboardHandler struct {
	images         services.ImageStore
	uploadMaxBytes int64
}

func NewDashboardHandler(images services.ImageStore, uploadMaxBytes int64) *DashboardHandler {
	return &DashboardHandler{images: images, uploadMaxBytes: uploadMaxBytes}
}

// Redirect sends the user to their role's landing page.
func (h *DashboardHandler) Redirect(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.Redirect(http.StatusFound, user.Role().DashboardPath())
}

func (h *DashboardHandler) render(c *gin.Context, code int, extra gin.H) {
	user := middleware.CurrentUser(c)
	dash, err := services.DashboardFor(db.DB, user)
	if err != nil {
		serviceError(c, err)
		return
	}

	page := "dashboard/department.html"
	switch dash.Role {
	case models.RoleStudent:
		page = "dashboard/student.html"
	case models.RoleAdmin:
		page = "dashboard/admin.html"
	}

	data := gin.H{
		"Title":      dash.Title,
		"Dashboard":  dash,
		"Categories": models.Categories,
		"Statuses":   models.Statuses,
	}
	for k, v := range extra {
		data[k] = v
	}
	Render(c, code, page, data)
}

// Student 学生仪表盘：自己的上报 + 上报表单
func (h *DashboardHandler) Student(c *gin.Context) {
	h.render(c, http.StatusOK, gin.H{"Form": services.IncidentInput{}})
}

// Report handles the student incident form, including the optional photo.
func (h *DashboardHandler) Report(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var in services.IncidentInput
	if err := c.ShouldBind(&in); err != nil {
		RenderError(c, http.StatusBadRequest, "Malformed incident form.")
		return
	}

	if header, err := c.FormFile("image"); err == nil {
		in.ImagePath, err = services.SaveIncidentImage(c.Request.Context(), h.images, header, h.uploadMaxBytes)
		if err != nil {
			h.formError(c, in, err)
			return
		}
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		h.formError(c, in, err)
		return
	}

	if _, _, err := services.CreateIncident(db.DB, user, in); err != nil {
		h.formError(c, in, err)
		return
	}
	redirectWithFlash(c, "/student/", flashSuccess, "Incident reported successfully!")
}

func (h *DashboardHandler) formError(c *gin.Context, in services.IncidentInput, err error) {
	fields := fieldErrors(err)
	if fields == nil {
		serviceError(c, err)
		return
	}
	h.render(c, http.StatusBadRequest, gin.H{"Form": in, "Errors": fields})
}

// Department 各部门仪表盘，路由层已按角色限制
func (h *DashboardHandler) Department(c *gin.Context) {
	h.render(c, http.StatusOK, nil)
}

func (h *DashboardHandler) Admin(c *gin.Context) {
	h.render(c, http.StatusOK, nil)
}

func (h *DashboardHandler) DeleteIncident(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := utils.ParseID(c.Param("id"))

	if err := services.DeleteIncident(db.DB, user, id); err != nil {
		serviceError(c, err)
		return
	}
	redirectWithFlash(c, "/admin/", flashSuccess, "Incident deleted.")
}

func (h *DashboardHandler) DeleteAccount(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := utils.ParseID(c.Param("id"))

	if id == user.ID {
		redirectWithFlash(c, "/admin/", flashError, "You cannot delete your own account.")
		return
	}
	if err := services.DeleteAccount(db.DB, user, id); err != nil {
		serviceError(c, err)
		return
	}
	redirectWithFlash(c, "/admin/", flashSuccess, "Account deleted.")
}
