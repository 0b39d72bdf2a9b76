package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/water_go_server/internal/pkg/jwt"
	"github.com/qs3c/water_go_server/internal/pkg/response"
)

const (
	PrincipalIDKey = "principalID"
	RoleKey        = "principalRole"
)

// Auth JWT 认证中间件。登录主体 ID 和角色写入上下文，
// 后续处理不再解析令牌。
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "请提供认证信息")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "认证失败或已过期")
			c.Abort()
			return
		}

		c.Set(PrincipalIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin 仅管理员可访问
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok || role != jwt.RoleAdmin {
			response.PermissionError(c, "仅管理员可操作")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireResident 仅居民可访问
func RequireResident() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok || role != jwt.RoleResident {
			response.PermissionError(c, "仅居民可操作")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipalID 从上下文获取登录主体 ID
func GetPrincipalID(c *gin.Context) (int64, bool) {
	principalID, exists := c.Get(PrincipalIDKey)
	if !exists {
		return 0, false
	}
	id, ok := principalID.(int64)
	return id, ok
}

// GetRole 从上下文获取登录主体角色
func GetRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(RoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(string)
	return r, ok
}
