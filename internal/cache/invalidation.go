package cache

import (
	"errors"
	"fmt"
)

// Event 会触发缓存失效的变更事件，闭集
type Event string

const (
	EventCourseCompleted      Event = "COURSE_COMPLETED"
	EventProjectCompleted     Event = "PROJECT_COMPLETED"
	EventSkillCompleted       Event = "SKILL_COMPLETED"
	EventCommunityPostCreated Event = "COMMUNITY_POST_CREATED"
)

// ErrUnknownEvent 枚举之外的事件属于编程错误，必须显式失败
var ErrUnknownEvent = errors.New("unknown invalidation event")

// invalidationTable 事件 → 需要重算的视图键模板。
// 纯静态数据，%d 处填入所属用户 ID。
var invalidationTable = map[Event][]string{
	EventCourseCompleted: {
		"user:%d:overview",
		"user:%d:enrollments",
		"user:%d:achievements",
	},
	EventProjectCompleted: {
		"user:%d:overview",
		"user:%d:projects",
		"user:%d:achievements",
	},
	EventSkillCompleted: {
		"user:%d:overview",
		"user:%d:soft-skills",
		"user:%d:achievements",
	},
	EventCommunityPostCreated: {
		"community:posts",
		"user:%d:posts",
	},
}

// KeysFor 返回某事件过期的全部视图键。
// 对四种已定义事件总是返回非空确定的键集，其余输入返回 ErrUnknownEvent。
func KeysFor(event Event, userID uint) ([]string, error) {
	templates, ok := invalidationTable[event]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}

	keys := make([]string, len(templates))
	for i, tpl := range templates {
		keys[i] = expandKey(tpl, userID)
	}
	return keys, nil
}

func expandKey(tpl string, userID uint) string {
	for _, r := range tpl {
		if r == '%' {
			return fmt.Sprintf(tpl, userID)
		}
	}
	return tpl
}

// OverviewKey 用户仪表盘总览视图键
func OverviewKey(userID uint) string {
	return fmt.Sprintf("user:%d:overview", userID)
}

// CommunityFeedKey 全站最新帖子视图键
func CommunityFeedKey() string {
	return "community:posts"
}
