package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/yeisme/regvault/pkg/configs"
)

// TokenClaims 登录令牌负载：用户 ID、用户名与角色.
type TokenClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type claimsKey struct{}

// AuthMiddleware 基于 Bearer JWT 做统一身份认证校验。
//   - 支持通过配置跳过某些路径（如 /metrics, /api/v1/auth/login）
//   - 校验通过后把 claims 注入 gin.Context 与 request.Context，供下游读取.
func AuthMiddleware(conf configs.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !conf.Enabled || isSkippedPath(c.Request.URL.Path, conf.SkipPaths) {
			c.Next()
			return
		}

		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(raw, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))

		claims := &TokenClaims{}

		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}

			return []byte(conf.Secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("claims", claims)
		c.Set("username", claims.Username)
		c.Set("role", parseRole(claims.Role))

		ctx := context.WithValue(c.Request.Context(), claimsKey{}, claims)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetClaims 从 gin.Context 获取当前请求的令牌负载，未认证返回 nil.
func GetClaims(c *gin.Context) *TokenClaims {
	if v, ok := c.Get("claims"); ok {
		if claims, ok2 := v.(*TokenClaims); ok2 {
			return claims
		}
	}

	if v := c.Request.Context().Value(claimsKey{}); v != nil {
		if claims, ok := v.(*TokenClaims); ok {
			return claims
		}
	}

	return nil
}

// GetUsername 获取当前请求用户名，未认证返回空串.
func GetUsername(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return claims.Username
	}

	return ""
}

func isSkippedPath(path string, skips []string) bool {
	if path == "" || len(skips) == 0 {
		return false
	}

	for _, p := range skips {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
