package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/model"
)

// TestNotificationUnreadFlow 未读数随已读标记变化：3 -> 2 -> 0.
func TestNotificationUnreadFlow(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewNotificationService(ctx)

	const uid = uint(7)

	require.NoError(t, svc.CreateSystem(ctx, 0, model.NotifyTypeSystem, "广播一", ""))
	require.NoError(t, svc.CreateSystem(ctx, uid, model.NotifyTypeRegulation, "私有一", ""))
	require.NoError(t, svc.CreateSystem(ctx, uid, model.NotifyTypeRegulation, "私有二", ""))

	unread, err := svc.UnreadCount(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 3, unread)

	listed, err := svc.List(ctx, uid, 1, 50)
	require.NoError(t, err)
	require.Equal(t, 3, listed.Total)

	require.NoError(t, svc.MarkRead(ctx, uid, listed.Notifications[0].ID))

	unread, err = svc.UnreadCount(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	require.NoError(t, svc.MarkAllRead(ctx, uid))

	unread, err = svc.UnreadCount(ctx, uid)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

// TestNotificationVisibility 用户只能看到广播和自己的通知.
func TestNotificationVisibility(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewNotificationService(ctx)

	require.NoError(t, svc.CreateSystem(ctx, 0, model.NotifyTypeSystem, "广播", ""))
	require.NoError(t, svc.CreateSystem(ctx, 1, model.NotifyTypeSystem, "用户 1 专属", ""))
	require.NoError(t, svc.CreateSystem(ctx, 2, model.NotifyTypeSystem, "用户 2 专属", ""))

	listed, err := svc.List(ctx, 1, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, listed.Total)

	// 别人的通知标记已读应报 404
	other, err := svc.List(ctx, 2, 1, 50)
	require.NoError(t, err)

	var otherOwnID uint
	for _, n := range other.Notifications {
		if n.Title == "用户 2 专属" {
			otherOwnID = n.ID
		}
	}
	require.NotZero(t, otherOwnID)

	err = svc.MarkRead(ctx, 1, otherOwnID)
	require.Error(t, err)
	assert.Equal(t, 404, errors.AsStatusError(err).Code)
}

// TestNotificationClearAll 清空后列表与未读数归零.
func TestNotificationClearAll(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewNotificationService(ctx)

	require.NoError(t, svc.CreateSystem(ctx, 0, model.NotifyTypeSystem, "广播", ""))
	require.NoError(t, svc.CreateSystem(ctx, 3, model.NotifyTypeSystem, "专属", ""))

	require.NoError(t, svc.ClearAll(ctx, 3))

	listed, err := svc.List(ctx, 3, 1, 50)
	require.NoError(t, err)
	assert.Zero(t, listed.Total)

	unread, err := svc.UnreadCount(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
