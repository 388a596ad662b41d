package routes

import (
	"github.com/gin-gonic/gin"

	"crm_server/controllers"
	"crm_server/middleware"
)

// RegisterMemberRoutes 注册团队成员路由
func RegisterMemberRoutes(router *gin.Engine) {
	memberRoutes := router.Group("/api/members")
	memberRoutes.Use(middleware.AuthMiddleware())

	memberRoutes.GET("", controllers.GetMembers)
	memberRoutes.GET("/:id", controllers.GetMemberById)
}
