package service

import (
	"careeros_backend/internal/model"
	"sync"
	"time"
)

const defaultNotificationBuffer = 50

// NotificationService 会话级通知中心。
// 通知只存在于内存：按用户维护一个有界缓冲，装满后淘汰最旧的一条，
// 进程重启即清空，所有内容都能从持久化实体重新推导。
type NotificationService struct {
	mu       sync.Mutex
	byUser   map[uint][]model.Notification
	capacity int
	nextID   uint64
}

func NewNotificationService(capacity int) *NotificationService {
	if capacity <= 0 {
		capacity = defaultNotificationBuffer
	}
	return &NotificationService{
		byUser:   make(map[uint][]model.Notification),
		capacity: capacity,
	}
}

// Push 追加一条通知，返回分配的通知 ID
func (s *NotificationService) Push(userID uint, n model.Notification) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	n.ID = s.nextID
	if n.Date.IsZero() {
		n.Date = time.Now()
	}

	list := append(s.byUser[userID], n)
	if len(list) > s.capacity {
		list = list[len(list)-s.capacity:]
	}
	s.byUser[userID] = list
	return n.ID
}

// List 返回用户通知，最新的在前
func (s *NotificationService) List(userID uint) []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.byUser[userID]
	result := make([]model.Notification, len(list))
	for i, n := range list {
		result[len(list)-1-i] = n
	}
	return result
}

func (s *NotificationService) MarkRead(userID uint, id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.byUser[userID]
	for i := range list {
		if list[i].ID == id {
			list[i].IsRead = true
			return true
		}
	}
	return false
}

func (s *NotificationService) UnreadCount(userID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.byUser[userID] {
		if !n.IsRead {
			count++
		}
	}
	return count
}
