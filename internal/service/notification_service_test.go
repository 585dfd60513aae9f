package service

import (
	"careeros_backend/internal/model"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationPushAndList(t *testing.T) {
	s := NewNotificationService(50)

	first := s.Push(1, model.Notification{Type: model.NotificationCompletion, Title: "课程完成"})
	second := s.Push(1, model.Notification{Type: model.NotificationAchievement, Title: "解锁新成就"})
	assert.Greater(t, second, first)

	// 最新的在前
	list := s.List(1)
	require.Len(t, list, 2)
	assert.Equal(t, "解锁新成就", list[0].Title)
	assert.Equal(t, "课程完成", list[1].Title)
	assert.False(t, list[0].Date.IsZero())
}

func TestNotificationBufferEvictsOldest(t *testing.T) {
	s := NewNotificationService(3)

	for i := 1; i <= 5; i++ {
		s.Push(1, model.Notification{Title: fmt.Sprintf("通知 %d", i)})
	}

	list := s.List(1)
	require.Len(t, list, 3)
	assert.Equal(t, "通知 5", list[0].Title)
	assert.Equal(t, "通知 3", list[2].Title)
}

func TestNotificationIsolatedPerUser(t *testing.T) {
	s := NewNotificationService(50)
	s.Push(1, model.Notification{Title: "给用户 1"})
	s.Push(2, model.Notification{Title: "给用户 2"})

	require.Len(t, s.List(1), 1)
	require.Len(t, s.List(2), 1)
	assert.Equal(t, "给用户 1", s.List(1)[0].Title)
	assert.Empty(t, s.List(3))
}

func TestNotificationMarkRead(t *testing.T) {
	s := NewNotificationService(50)
	id := s.Push(1, model.Notification{Title: "未读"})
	s.Push(1, model.Notification{Title: "另一条"})

	assert.Equal(t, 2, s.UnreadCount(1))

	assert.True(t, s.MarkRead(1, id))
	assert.Equal(t, 1, s.UnreadCount(1))

	// 重复标记与不存在的 ID
	assert.True(t, s.MarkRead(1, id))
	assert.Equal(t, 1, s.UnreadCount(1))
	assert.False(t, s.MarkRead(1, 9999))
	assert.False(t, s.MarkRead(2, id))
}

func TestNotificationDefaultCapacity(t *testing.T) {
	s := NewNotificationService(0)

	for i := 0; i < defaultNotificationBuffer+10; i++ {
		s.Push(1, model.Notification{Title: "n"})
	}
	assert.Len(t, s.List(1), defaultNotificationBuffer)
}
