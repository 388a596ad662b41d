package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// LoginUser 当前登录用户
type LoginUser struct {
	ID       string `json:"id"`
	Role     string `json:"role"`
	Username string `json:"name"`
}

// GetUser 从请求上下文中取当前用户
func GetUser(c *gin.Context) (*LoginUser, error) {
	currentUser, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("GetUser 未授权访问")
	}

	// 处理不同类型的 claims
	var claims map[string]interface{}
	switch v := currentUser.(type) {
	case jwt.MapClaims:
		claims = make(map[string]interface{})
		for key, val := range v {
			claims[key] = val
		}
	case map[string]interface{}:
		claims = v
	case string:
		if err := json.Unmarshal([]byte(v), &claims); err != nil {
			return nil, fmt.Errorf("解析用户信息失败: %v", err)
		}
	default:
		// 尝试通过 JSON 序列化/反序列化转换
		data, err := json.Marshal(currentUser)
		if err != nil {
			return nil, fmt.Errorf("序列化用户信息失败: %v", err)
		}
		if err := json.Unmarshal(data, &claims); err != nil {
			return nil, fmt.Errorf("反序列化用户信息失败: %v", err)
		}
	}

	// 获取用户信息字段
	id, ok := claims["id"].(string)
	if !ok {
		return nil, fmt.Errorf("无效的用户ID")
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("无效的用户角色")
	}

	username, ok := claims["username"].(string)
	if !ok {
		// 检查是否有 "name" 字段作为备选
		if name, ok := claims["name"].(string); ok {
			username = name
		} else {
			return nil, fmt.Errorf("无效的用户名")
		}
	}

	return &LoginUser{
		ID:       id,
		Role:     role,
		Username: username,
	}, nil
}

// PaginatedResponse 分页响应
func PaginatedResponse(c *gin.Context, data interface{}, total int64, page int64, limit int64) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": (total + limit - 1) / limit,
		},
	})
}

// ParseDateParam 解析 YYYY-MM-DD 格式的日期参数
func ParseDateParam(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("无效的日期格式，应为 YYYY-MM-DD: %v", err)
	}
	return t, nil
}
