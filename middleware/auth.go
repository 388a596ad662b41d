package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crm_server/models"
	"crm_server/utils"
)

// AuthMiddleware 认证中间件
// 令牌由外部认证服务签发，这里只做验证
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从请求头获取token
		authHeader := c.GetHeader("Authorization")

		// 检查Authorization头
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.Logger.Info().
				Str("path", c.Request.URL.Path).
				Msg("缺少Authorization头或格式错误")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "未授权访问",
				"code":    "MISSING_TOKEN",
			})
			return
		}

		// 提取token
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "未授权访问",
				"code":    "MISSING_TOKEN",
			})
			return
		}

		// 解析token
		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Logger.Error().Err(err).Msg("Token验证失败")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "无效的token: " + err.Error(),
				"code":    "INVALID_TOKEN",
			})
			return
		}

		// 检查必要字段
		if claims["id"] == nil || claims["role"] == nil || claims["username"] == nil {
			utils.Logger.Warn().Interface("claims", claims).Msg("Token负载缺少必要字段")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Token缺少必要字段",
				"code":    "INVALID_TOKEN",
			})
			return
		}

		// 将用户信息存储到上下文
		c.Set("user", claims)

		c.Next()
	}
}

// PermissionMiddleware 资源级权限校验中间件
func PermissionMiddleware(resource string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.GetUser(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "用户未认证",
				"code":    "UNAUTHENTICATED",
			})
			return
		}

		// 检查权限
		if !utils.HasPermission(models.UserRole(user.Role), resource, action) {
			utils.Logger.Info().
				Str("username", user.Username).
				Str("role", user.Role).
				Str("resource", resource).
				Str("action", action).
				Msg("权限不足")

			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "权限不足",
				"code":    "INSUFFICIENT_PERMISSION",
			})
			return
		}

		c.Next()
	}
}
