// Package handle 提供 HTTP 请求处理器实现，解析请求、调用业务服务并映射错误码.
package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/regvault/pkg/errors"
	nlog "github.com/yeisme/regvault/pkg/log"
	"github.com/yeisme/regvault/pkg/middleware"
)

// NotFoundHandler 未匹配路由的兜底处理器.
func NotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found", "path": c.Request.URL.Path})
}

// respondError 把业务错误映射为 HTTP 状态码并输出统一错误体.
func respondError(c *gin.Context, err error) {
	se := errors.AsStatusError(err)

	if se.Code >= http.StatusInternalServerError {
		nlog.Logger().Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}

	body := gin.H{"error": se.Message}
	if se.Reason != "" {
		body["reason"] = se.Reason
	}

	c.JSON(se.Code, body)
}

// bindError 请求体解析失败的统一响应.
func bindError(c *gin.Context, err error) {
	nlog.Logger().Warn().Err(err).Str("path", c.Request.URL.Path).Msg("invalid request")
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// operatorFrom 取当前登录用户名作为操作者，未认证时为空串.
func operatorFrom(c *gin.Context) string {
	return middleware.GetUsername(c)
}

// uintParam 解析路径上的数字 id，非法时返回 false 并已写出 400.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})

		return 0, false
	}

	return uint(v), true
}
