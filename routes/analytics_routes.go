package routes

import (
	"github.com/gin-gonic/gin"

	"crm_server/controllers"
	"crm_server/middleware"
)

// RegisterAnalyticsRoutes 注册看板与活动流路由
func RegisterAnalyticsRoutes(router *gin.Engine) {
	analyticsRoutes := router.Group("/api/analytics")
	analyticsRoutes.Use(middleware.AuthMiddleware())
	analyticsRoutes.Use(middleware.PermissionMiddleware("analytics", "read"))

	// 运营看板聚合数据
	analyticsRoutes.GET("", controllers.GetAnalytics)

	// 最近操作动态
	activityRoutes := router.Group("/api/recent-activity")
	activityRoutes.Use(middleware.AuthMiddleware())
	activityRoutes.Use(middleware.PermissionMiddleware("analytics", "read"))
	activityRoutes.GET("", controllers.GetRecentActivity)
}
