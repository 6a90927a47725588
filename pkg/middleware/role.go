// Package middleware 提供角色与权限相关的中间件和辅助方法。
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Role 表示请求方的角色（使用 iota 实现的枚举，数值越大权限越高）。
type Role int

const (
	RoleViewer Role = iota + 1
	RoleEditor
	RoleAdmin
)

// String 返回角色的字符串表示。
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleEditor:
		return "editor"
	case RoleViewer:
		fallthrough
	default:
		return "viewer"
	}
}

// parseRole 从字符串解析角色，未知值降级为 viewer。
func parseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "editor":
		return RoleEditor
	case "viewer":
		fallthrough
	default:
		return RoleViewer
	}
}

// GetRole 从 gin.Context 获取当前请求角色。
func GetRole(c *gin.Context) Role {
	if v, ok := c.Get("role"); ok {
		if r, ok2 := v.(Role); ok2 {
			return r
		}
	}

	return RoleViewer
}

// RequireMinRole 要求最小角色，不满足则返回 403。
func RequireMinRole(minRole Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		r := GetRole(c)
		if r < minRole { // 使用枚举的自然顺序进行最小角色判断
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: insufficient role"})
			return
		}

		c.Next()
	}
}
