package utils

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	"crm_server/config"
	"crm_server/models"
)

var jwtSecret = []byte(config.LoadConfig().JWTKey)

// GenerateToken 生成JWT令牌
// 正常流程中令牌由外部认证服务签发，这里与其共享密钥，
// 本函数用于运维脚本和中间件测试
func GenerateToken(user models.User) (string, error) {
	userId := user.ID.Hex()

	Logger.Info().
		Str("_id", userId).
		Str("username", user.Username).
		Str("role", string(user.Role)).
		Msg("开始生成token")

	// 创建JWT Claims
	claims := jwt.MapClaims{
		"id":       userId,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(time.Hour * 24 * 30).Unix(), // 30天有效期
		"iat":      time.Now().Unix(),
	}

	// 创建并签名token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		Logger.Error().Err(err).Msg("生成token失败")
		return "", err
	}

	return tokenString, nil
}

// ParseToken 解析和验证JWT令牌
func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	// 验证token并提取claims
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("无效的token")
}

// HasPermission 检查用户是否有权限
func HasPermission(role models.UserRole, resource string, action string) bool {
	// 超级管理员拥有所有权限
	if role == models.UserRoleSUPER_ADMIN {
		return true
	}

	// 定义各角色权限
	permissions := map[models.UserRole]map[string][]string{
		models.UserRoleSALES_MANAGER: {
			"leads":         {"read", "create", "update", "delete"},
			"opportunities": {"read", "create", "update"},
			"companies":     {"read", "create"},
			"followups":     {"read", "create", "update"},
			"attendance":    {"read", "create"},
			"members":       {"read"},
			"analytics":     {"read"},
		},
		models.UserRoleSALES_REP: {
			"leads":         {"read", "create", "update"},
			"opportunities": {"read", "create"},
			"companies":     {"read"},
			"followups":     {"read", "create", "update"},
			"attendance":    {"read", "create"},
			"members":       {"read"},
			"analytics":     {"read"},
		},
	}

	// 检查特定角色的权限
	if resourceActions, exists := permissions[role]; exists {
		if actions, hasResource := resourceActions[resource]; hasResource {
			for _, a := range actions {
				if a == action {
					return true
				}
			}
		}
	}

	return false
}
