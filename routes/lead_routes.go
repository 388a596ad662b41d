package routes

import (
	"github.com/gin-gonic/gin"

	"crm_server/controllers"
	"crm_server/middleware"
)

// RegisterLeadRoutes 注册线索路由
func RegisterLeadRoutes(router *gin.Engine) {
	leadRoutes := router.Group("/api/leads")
	leadRoutes.Use(middleware.AuthMiddleware())

	leadRoutes.GET("", controllers.GetLeads)
	leadRoutes.GET("/:id", controllers.GetLeadById)
	leadRoutes.POST("", middleware.PermissionMiddleware("leads", "create"), controllers.CreateLead)
	leadRoutes.PUT("/:id", middleware.PermissionMiddleware("leads", "update"), controllers.UpdateLead)
	leadRoutes.DELETE("/:id", middleware.PermissionMiddleware("leads", "delete"), controllers.DeleteLead)

	// 线索转商机
	leadRoutes.POST("/:id/convert", middleware.PermissionMiddleware("leads", "update"), controllers.ConvertLead)
}
