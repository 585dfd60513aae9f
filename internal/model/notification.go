package model

import "time"

type NotificationType string

const (
	NotificationCompletion  NotificationType = "completion"
	NotificationAchievement NotificationType = "achievement"
	NotificationProgress    NotificationType = "progress"
)

// RelatedEntity 通知关联的业务实体
type RelatedEntity struct {
	Type string `json:"type"` // course | project | skill | achievement
	ID   uint   `json:"id"`
}

// Notification 会话内通知，只存在于内存，不落库。
// 由通知中心按用户维护有界环形缓冲，超出容量时淘汰最旧的。
type Notification struct {
	ID            uint64           `json:"id"`
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	Date          time.Time        `json:"date"`
	IsRead        bool             `json:"isRead"`
	RelatedEntity RelatedEntity    `json:"relatedEntity"`
}
