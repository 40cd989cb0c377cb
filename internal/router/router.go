package router

import (
	"campusresponse/internal/handlers"
	"campusresponse/internal/middleware"
	"campusresponse/internal/models"
	"campusresponse/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators handlers need beyond the global DB.
type Deps struct {
	Images         services.ImageStore
	UploadMaxBytes int64
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	dashboardHandler := handlers.NewDashboardHandler(deps.Images, deps.UploadMaxBytes)
	incidentHandler := handlers.NewIncidentHandler()
	notificationHandler := handlers.NewNotificationHandler()
	seoHandler := handlers.NewSEOHandler()

	// 公共路由 (Public Routes)
	r.GET("/", authHandler.Home)                 // 首页跳转
	r.GET("/login", authHandler.ShowLogin)       // 登录页面
	r.POST("/login", authHandler.Login)          // 提交登录
	r.GET("/register", authHandler.ShowRegister) // 注册页面
	r.POST("/register", authHandler.Register)    // 提交注册
	r.GET("/logout", authHandler.Logout)         // 退出登录
	r.POST("/logout", authHandler.Logout)        // 退出登录
	r.GET("/robots.txt", seoHandler.RobotsTxt)   // 爬虫规则

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/dashboard", dashboardHandler.Redirect)                // 按角色跳转仪表盘
		authorized.GET("/incident/:id/", incidentHandler.Detail)               // 事件详情
		authorized.POST("/incident/:id/update/", incidentHandler.UpdateStatus) // 更新事件状态
	}

	// 各角色仪表盘 (Role Dashboards)
	student := r.Group("/student")
	student.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleStudent))
	{
		student.GET("/", dashboardHandler.Student) // 我的上报
		student.POST("/", dashboardHandler.Report) // 提交上报
	}

	for _, role := range []models.Role{models.RoleFire, models.RoleHealth, models.RoleSocial} {
		department := r.Group("/" + string(role))
		department.Use(middleware.AuthRequired(), middleware.RoleRequired(role))
		department.GET("/", dashboardHandler.Department)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/", dashboardHandler.Admin)                               // 管理员仪表盘
		admin.POST("/incidents/:id/delete", dashboardHandler.DeleteIncident) // 删除事件
		admin.POST("/accounts/:id/delete", dashboardHandler.DeleteAccount)   // 删除账号
	}

	// 通知接口 (Notification API)
	api := r.Group("/api/notifications")
	api.Use(middleware.AuthRequired())
	{
		api.GET("/", notificationHandler.List)               // 未读通知
		api.GET("/mark-read/", notificationHandler.ReadAll)  // 非 POST 返回 success=false
		api.POST("/mark-read/", notificationHandler.ReadAll) // 全部标记已读
		api.POST("/:id/read/", notificationHandler.Read)     // 单条标记已读
	}
}
