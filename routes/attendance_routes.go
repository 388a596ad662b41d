package routes

import (
	"github.com/gin-gonic/gin"

	"crm_server/controllers"
	"crm_server/middleware"
)

// RegisterAttendanceRoutes 注册考勤路由
func RegisterAttendanceRoutes(router *gin.Engine) {
	attendanceRoutes := router.Group("/api/attendance")
	attendanceRoutes.Use(middleware.AuthMiddleware())

	// 提交考勤（当天重复提交视为更新）
	attendanceRoutes.POST("", controllers.SubmitAttendance)

	// 按日期查询全员考勤
	attendanceRoutes.GET("", controllers.GetAttendanceByDate)

	// 最近N天考勤及出勤率
	attendanceRoutes.GET("/recent", controllers.GetRecentAttendance)
}
