// Package errors 定义带 HTTP 状态码的业务错误类型，服务层返回、处理层直接映射为响应.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError 携带 HTTP 状态码的业务错误.
type StatusError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("status %d: %s: %s", e.Code, e.Message, e.Reason)
	}

	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// Is 让 errors.Is 按状态码和消息匹配哨兵值，忽略 Reason.
func (e *StatusError) Is(target error) bool {
	var t *StatusError
	if !errors.As(target, &t) {
		return false
	}

	return e.Code == t.Code && e.Message == t.Message
}

func NewStatusError(code int, message string) *StatusError {
	return &StatusError{
		Code:    code,
		Message: message,
	}
}

// WithReason 返回附加原因的副本，不修改哨兵值本身.
func (e *StatusError) WithReason(reason string) *StatusError {
	return &StatusError{
		Code:    e.Code,
		Message: e.Message,
		Reason:  reason,
	}
}

// WithReasonf 同 WithReason，格式化原因文本.
func (e *StatusError) WithReasonf(format string, args ...any) *StatusError {
	return e.WithReason(fmt.Sprintf(format, args...))
}

// AsStatusError 提取错误链中的 StatusError；没有时包一层 500.
func AsStatusError(err error) *StatusError {
	var se *StatusError
	if errors.As(err, &se) {
		return se
	}

	return ErrInternal.WithReason(err.Error())
}

var (
	// 认证相关错误

	ErrInvalidCredentials = NewStatusError(http.StatusUnauthorized, "invalid credentials")
	ErrTokenExpired       = NewStatusError(http.StatusUnauthorized, "token expired")
	ErrInvalidToken       = NewStatusError(http.StatusUnauthorized, "invalid token")

	// 权限相关错误

	ErrForbidden        = NewStatusError(http.StatusForbidden, "forbidden")
	ErrPermissionDenied = NewStatusError(http.StatusForbidden, "permission denied")

	// 资源相关错误

	ErrRegulationNotFound   = NewStatusError(http.StatusNotFound, "regulation not found")
	ErrDocumentNotFound     = NewStatusError(http.StatusNotFound, "document not found")
	ErrCodeFileNotFound     = NewStatusError(http.StatusNotFound, "code file not found")
	ErrNotificationNotFound = NewStatusError(http.StatusNotFound, "notification not found")
	ErrUserNotFound         = NewStatusError(http.StatusNotFound, "user not found")
	ErrRegulationCodeExists = NewStatusError(http.StatusConflict, "regulation code already exists")
	ErrUserExists           = NewStatusError(http.StatusConflict, "user already exists")

	// 校验相关错误

	ErrInvalidRequest = NewStatusError(http.StatusBadRequest, "invalid request")
	ErrInvalidInput   = NewStatusError(http.StatusBadRequest, "invalid input")

	// 源文件相关错误：上传/模板文件缺失或不可读

	ErrSourceFile = NewStatusError(http.StatusBadRequest, "source file unavailable")

	// 外部工具相关错误：git 子进程、GitHub API、更新描述符拉取

	ErrExternalTool = NewStatusError(http.StatusBadGateway, "external tool failed")

	// 服务端错误

	ErrInternal      = NewStatusError(http.StatusInternalServerError, "internal server error")
	ErrStorageFailed = NewStatusError(http.StatusInternalServerError, "storage operation failed")

	// 通用存储错误

	ErrNotFound      = NewStatusError(http.StatusNotFound, "resource not found")
	ErrAlreadyExists = NewStatusError(http.StatusConflict, "resource already exists")
)
