package routes

import (
	"github.com/gin-gonic/gin"

	"crm_server/controllers"
	"crm_server/middleware"
)

// RegisterCompanyRoutes 注册公司路由
func RegisterCompanyRoutes(router *gin.Engine) {
	companyRoutes := router.Group("/api/companies")
	companyRoutes.Use(middleware.AuthMiddleware())

	companyRoutes.GET("", controllers.GetCompanies)
	companyRoutes.GET("/:id", controllers.GetCompanyById)
	companyRoutes.POST("", middleware.PermissionMiddleware("companies", "create"), controllers.CreateCompany)
}
