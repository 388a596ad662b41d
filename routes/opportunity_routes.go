package routes

import (
	"github.com/gin-gonic/gin"

	"crm_server/controllers"
	"crm_server/middleware"
)

// RegisterOpportunityRoutes 注册商机路由
func RegisterOpportunityRoutes(router *gin.Engine) {
	oppRoutes := router.Group("/api/opportunities")
	oppRoutes.Use(middleware.AuthMiddleware())

	oppRoutes.GET("", controllers.GetOpportunities)
	oppRoutes.GET("/:id", controllers.GetOpportunityById)
	oppRoutes.POST("", middleware.PermissionMiddleware("opportunities", "create"), controllers.CreateOpportunity)
	oppRoutes.PUT("/:id", middleware.PermissionMiddleware("opportunities", "update"), controllers.UpdateOpportunity)
	oppRoutes.DELETE("/:id", middleware.PermissionMiddleware("opportunities", "delete"), controllers.DeleteOpportunity)
}
