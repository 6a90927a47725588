package service

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/types"
	nlog "github.com/yeisme/regvault/pkg/log"
)

const (
	kvKeyUnreadPrefix = "notify:unread:" // + 用户 id
	unreadCacheTTL    = time.Minute
)

// NotificationService 负责站内通知查询与已读管理.
// 用户可见的通知包括发给自己的和 UserID 为 0 的广播.
type NotificationService struct {
	*baseService
}

// NewNotificationService 从 context 获取依赖实例.
func NewNotificationService(c context.Context) *NotificationService {
	return &NotificationService{newBaseService(c)}
}

// List 列出用户可见通知，时间倒序.
func (n *NotificationService) List(ctx context.Context, userID uint, page, size int) (types.ListNotificationsResponse, error) {
	page, size = normalizePage(page, size)

	query := n.visible(ctx, userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return types.ListNotificationsResponse{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	var rows []model.Notification
	if err := query.Order("created_at DESC, id DESC").Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
		return types.ListNotificationsResponse{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	unread, err := n.UnreadCount(ctx, userID)
	if err != nil {
		return types.ListNotificationsResponse{}, err
	}

	items := make([]types.NotificationInfo, 0, len(rows))
	for _, row := range rows {
		items = append(items, types.NotificationInfo{
			ID:        row.ID,
			Type:      row.Type,
			Title:     row.Title,
			Content:   row.Content,
			Read:      row.Read,
			CreatedAt: fmtTime(row.CreatedAt),
		})
	}

	return types.ListNotificationsResponse{
		Total:         int(total),
		Unread:        unread,
		Notifications: items,
	}, nil
}

// UnreadCount 未读数，短 TTL 的 KV 缓存兜住角标轮询.
func (n *NotificationService) UnreadCount(ctx context.Context, userID uint) (int, error) {
	cacheKey := kvKeyUnreadPrefix + strconv.FormatUint(uint64(userID), 10)

	if data, err := n.kvClient.Get(ctx, cacheKey); err == nil {
		if v, convErr := strconv.Atoi(string(data)); convErr == nil {
			return v, nil
		}
	}

	var count int64
	if err := n.visible(ctx, userID).Where("read = ?", false).Count(&count).Error; err != nil {
		return 0, errors.ErrStorageFailed.WithReason(err.Error())
	}

	if err := n.kvClient.Set(ctx, cacheKey, []byte(strconv.FormatInt(count, 10)), unreadCacheTTL); err != nil {
		nlog.Logger().Warn().Err(err).Msg("cache unread count failed")
	}

	return int(count), nil
}

// MarkRead 标记单条通知已读.
func (n *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	gdb := n.dbClient.GetDB().WithContext(ctx)

	var row model.Notification
	if err := gdb.Where("user_id IN ?", []uint{0, userID}).First(&row, notificationID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrNotificationNotFound
		}

		return errors.ErrStorageFailed.WithReason(err.Error())
	}

	if err := gdb.Model(&row).Update("read", true).Error; err != nil {
		return errors.ErrStorageFailed.WithReason(err.Error())
	}

	n.invalidateUnread(ctx, userID)

	return nil
}

// MarkAllRead 标记用户全部可见通知已读.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	err := n.visible(ctx, userID).Where("read = ?", false).Update("read", true).Error
	if err != nil {
		return errors.ErrStorageFailed.WithReason(err.Error())
	}

	n.invalidateUnread(ctx, userID)

	return nil
}

// ClearAll 删除用户全部可见通知.
func (n *NotificationService) ClearAll(ctx context.Context, userID uint) error {
	err := n.dbClient.GetDB().WithContext(ctx).
		Where("user_id IN ?", []uint{0, userID}).
		Delete(&model.Notification{}).Error
	if err != nil {
		return errors.ErrStorageFailed.WithReason(err.Error())
	}

	n.invalidateUnread(ctx, userID)

	return nil
}

// CreateSystem 写一条系统/业务通知，事件订阅端与定时任务复用.
func (n *NotificationService) CreateSystem(ctx context.Context, userID uint, notifyType, title, content string) error {
	row := model.Notification{
		UserID:  userID,
		Type:    notifyType,
		Title:   title,
		Content: content,
	}
	if err := n.dbClient.GetDB().WithContext(ctx).Create(&row).Error; err != nil {
		return errors.ErrStorageFailed.WithReason(err.Error())
	}

	n.invalidateUnread(ctx, userID)

	return nil
}

func (n *NotificationService) visible(ctx context.Context, userID uint) *gorm.DB {
	return n.dbClient.GetDB().WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id IN ?", []uint{0, userID})
}

func (n *NotificationService) invalidateUnread(ctx context.Context, userID uint) {
	key := kvKeyUnreadPrefix + strconv.FormatUint(uint64(userID), 10)
	if err := n.kvClient.Delete(ctx, key); err != nil {
		nlog.Logger().Debug().Err(err).Msg("invalidate unread cache failed")
	}
}
