package routes

import (
	"github.com/gin-gonic/gin"

	"crm_server/controllers"
	"crm_server/middleware"
)

// RegisterDailyFollowUpRoutes 注册每日跟进路由
func RegisterDailyFollowUpRoutes(router *gin.Engine) {
	followUpRoutes := router.Group("/api/daily-followups")
	followUpRoutes.Use(middleware.AuthMiddleware())

	// 获取跟进列表（含统计、提示和逾期确认队列）
	followUpRoutes.GET("", controllers.GetDailyFollowUps)

	// 创建跟进记录
	followUpRoutes.POST("", middleware.PermissionMiddleware("followups", "create"), controllers.CreateDailyFollowUp)

	// 部分更新跟进记录，ID通过查询参数传递（?id=xxx）
	// 带 overdueReason 时走逾期确认流程
	followUpRoutes.PUT("", middleware.PermissionMiddleware("followups", "update"), controllers.UpdateDailyFollowUp)

	// 兼容路径参数形式
	followUpRoutes.PUT("/:id", middleware.PermissionMiddleware("followups", "update"), controllers.UpdateDailyFollowUp)
}
