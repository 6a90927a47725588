package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/regvault/pkg/internal/service"
	"github.com/yeisme/regvault/pkg/middleware"
)

// currentUserID 从令牌声明取用户 id，认证关闭时为 0（只见广播通知）.
func currentUserID(c *gin.Context) uint {
	if claims := middleware.GetClaims(c); claims != nil {
		return claims.UserID
	}

	return 0
}

// ListNotifications 通知列表.
//
//	@Summary		通知列表
//	@Description	当前用户可见的通知（含广播），时间倒序分页
//	@Tags			通知
//	@Produce		json
//	@Param			page	query		int								false	"页码"
//	@Param			size	query		int								false	"页大小"
//	@Success		200		{object}	types.ListNotificationsResponse	"通知列表"
//	@Security		BearerAuth
//	@Router			/api/v1/notifications [get]
func ListNotifications(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	resp, err := service.NewNotificationService(c.Request.Context()).List(c.Request.Context(), currentUserID(c), page, size)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// UnreadCount 未读角标数.
//
//	@Summary		未读数
//	@Tags			通知
//	@Produce		json
//	@Success		200	{object}	types.UnreadCountResponse	"未读数"
//	@Security		BearerAuth
//	@Router			/api/v1/notifications/unread [get]
func UnreadCount(c *gin.Context) {
	unread, err := service.NewNotificationService(c.Request.Context()).UnreadCount(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": unread})
}

// MarkNotificationRead 标记单条已读.
//
//	@Summary		标记已读
//	@Tags			通知
//	@Produce		json
//	@Param			id	path		int					true	"通知 id"
//	@Success		200	{object}	map[string]string	"标记成功"
//	@Failure		404	{object}	map[string]string	"通知不存在"
//	@Security		BearerAuth
//	@Router			/api/v1/notifications/{id}/read [put]
func MarkNotificationRead(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	err := service.NewNotificationService(c.Request.Context()).MarkRead(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification read"})
}

// MarkAllNotificationsRead 全部标记已读.
//
//	@Summary		全部已读
//	@Tags			通知
//	@Produce		json
//	@Success		200	{object}	map[string]string	"标记成功"
//	@Security		BearerAuth
//	@Router			/api/v1/notifications/read-all [put]
func MarkAllNotificationsRead(c *gin.Context) {
	err := service.NewNotificationService(c.Request.Context()).MarkAllRead(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all notifications read"})
}

// ClearNotifications 清空通知.
//
//	@Summary		清空通知
//	@Tags			通知
//	@Produce		json
//	@Success		200	{object}	map[string]string	"清空成功"
//	@Security		BearerAuth
//	@Router			/api/v1/notifications [delete]
func ClearNotifications(c *gin.Context) {
	err := service.NewNotificationService(c.Request.Context()).ClearAll(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notifications cleared"})
}
