package types

// NotificationInfo 通知响应体.
type NotificationInfo struct {
	ID        uint   `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// ListNotificationsResponse 通知列表响应，按创建时间倒序.
type ListNotificationsResponse struct {
	Total         int                `json:"total"`
	Unread        int                `json:"unread"`
	Notifications []NotificationInfo `json:"notifications"`
}

// UnreadCountResponse 未读数响应.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
