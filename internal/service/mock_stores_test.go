package service

import (
	"careeros_backend/internal/model"
	"careeros_backend/internal/util"
	"careeros_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	m.Run()
}

// ── Mock EnrollmentStore ──

type mockEnrollmentStore struct {
	mu      sync.Mutex
	records map[uint]*model.Enrollment
	failAll bool
}

func newMockEnrollmentStore() *mockEnrollmentStore {
	return &mockEnrollmentStore{records: make(map[uint]*model.Enrollment)}
}

func (m *mockEnrollmentStore) add(e model.Enrollment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := e
	m.records[e.ID] = &copied
}

func (m *mockEnrollmentStore) FindByUserID(_ context.Context, userID uint) ([]model.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errors.New("enrollment store unavailable")
	}
	var result []model.Enrollment
	for _, e := range m.records {
		if e.UserID == userID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEnrollmentStore) FindByIDAndUserID(_ context.Context, id, userID uint) (*model.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.records[id]; ok && e.UserID == userID {
		copied := *e
		return &copied, nil
	}
	return nil, util.ErrNotFound
}

func (m *mockEnrollmentStore) UpdateProgress(_ context.Context, id uint, progress int, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.records[id]
	if !ok {
		return util.ErrNotFound
	}
	e.Progress = progress
	e.IsCompleted = completed
	if completed {
		now := time.Now()
		e.CompletedAt = &now
	}
	return nil
}

// ── Mock UserProjectStore ──

type mockUserProjectStore struct {
	mu      sync.Mutex
	records map[uint]*model.UserProject
	failAll bool
}

func newMockUserProjectStore() *mockUserProjectStore {
	return &mockUserProjectStore{records: make(map[uint]*model.UserProject)}
}

func (m *mockUserProjectStore) add(p model.UserProject) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := p
	m.records[p.ID] = &copied
}

func (m *mockUserProjectStore) FindByUserID(_ context.Context, userID uint) ([]model.UserProject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errors.New("project store unavailable")
	}
	var result []model.UserProject
	for _, p := range m.records {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockUserProjectStore) FindByIDAndUserID(_ context.Context, id, userID uint) (*model.UserProject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.records[id]; ok && p.UserID == userID {
		copied := *p
		return &copied, nil
	}
	return nil, util.ErrNotFound
}

func (m *mockUserProjectStore) UpdateProgress(_ context.Context, id uint, progress int, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.records[id]
	if !ok {
		return util.ErrNotFound
	}
	p.Progress = progress
	p.IsCompleted = completed
	return nil
}

// ── Mock UserSoftSkillStore ──

type mockUserSoftSkillStore struct {
	mu      sync.Mutex
	records map[uint]*model.UserSoftSkill
}

func newMockUserSoftSkillStore() *mockUserSoftSkillStore {
	return &mockUserSoftSkillStore{records: make(map[uint]*model.UserSoftSkill)}
}

func (m *mockUserSoftSkillStore) add(s model.UserSoftSkill) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := s
	m.records[s.ID] = &copied
}

func (m *mockUserSoftSkillStore) FindByUserID(_ context.Context, userID uint) ([]model.UserSoftSkill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.UserSoftSkill
	for _, s := range m.records {
		if s.UserID == userID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockUserSoftSkillStore) FindByIDAndUserID(_ context.Context, id, userID uint) (*model.UserSoftSkill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.records[id]; ok && s.UserID == userID {
		copied := *s
		return &copied, nil
	}
	return nil, util.ErrNotFound
}

func (m *mockUserSoftSkillStore) UpdateProgress(_ context.Context, id uint, progress int, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.records[id]
	if !ok {
		return util.ErrNotFound
	}
	s.Progress = progress
	s.IsCompleted = completed
	return nil
}

// ── Mock UserAchievementStore ──

type mockAwardedStore struct {
	mu      sync.Mutex
	awarded map[uint][]model.UserAchievement
	nextID  uint
}

func newMockAwardedStore() *mockAwardedStore {
	return &mockAwardedStore{awarded: make(map[uint][]model.UserAchievement)}
}

func (m *mockAwardedStore) add(ua model.UserAchievement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.awarded[ua.UserID] = append(m.awarded[ua.UserID], ua)
}

func (m *mockAwardedStore) FindByUserID(_ context.Context, userID uint) ([]model.UserAchievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.UserAchievement(nil), m.awarded[userID]...), nil
}

func (m *mockAwardedStore) Award(_ context.Context, userID, achievementID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ua := range m.awarded[userID] {
		if ua.AchievementID == achievementID {
			return false, nil
		}
	}
	m.nextID++
	m.awarded[userID] = append(m.awarded[userID], model.UserAchievement{
		BaseModel:     model.BaseModel{ID: m.nextID},
		UserID:        userID,
		AchievementID: achievementID,
		AwardedAt:     time.Now(),
	})
	return true, nil
}

// ── Mock AchievementCatalog ──

type mockAchievementCatalog struct {
	byCode map[string]*model.Achievement
}

func newMockAchievementCatalog() *mockAchievementCatalog {
	return &mockAchievementCatalog{byCode: map[string]*model.Achievement{
		"first_course_completed":  {BaseModel: model.BaseModel{ID: 1}, Code: "first_course_completed", Name: "第一门课程", XPReward: 50},
		"first_project_completed": {BaseModel: model.BaseModel{ID: 2}, Code: "first_project_completed", Name: "第一个项目", XPReward: 80},
		"first_skill_mastered":    {BaseModel: model.BaseModel{ID: 3}, Code: "first_skill_mastered", Name: "软实力觉醒", XPReward: 30},
	}}
}

func (m *mockAchievementCatalog) FindByCode(_ context.Context, code string) (*model.Achievement, error) {
	if a, ok := m.byCode[code]; ok {
		return a, nil
	}
	return nil, util.ErrNotFound
}

// ── Mock QuizResultStore ──

type mockQuizStore struct {
	mu      sync.Mutex
	results []model.QuizResult
	nextID  uint
}

func newMockQuizStore() *mockQuizStore {
	return &mockQuizStore{}
}

func (m *mockQuizStore) Create(_ context.Context, result *model.QuizResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	result.ID = m.nextID
	m.results = append(m.results, *result)
	return nil
}

func (m *mockQuizStore) FindByUserID(_ context.Context, userID uint) ([]model.QuizResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.QuizResult
	// 最新的在前
	for i := len(m.results) - 1; i >= 0; i-- {
		if m.results[i].UserID == userID {
			out = append(out, m.results[i])
		}
	}
	return out, nil
}

func (m *mockQuizStore) FindLatestByUserID(_ context.Context, userID uint) (*model.QuizResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.results) - 1; i >= 0; i-- {
		if m.results[i].UserID == userID {
			copied := m.results[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockQuizStore) CountByUserID(_ context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, r := range m.results {
		if r.UserID == userID {
			count++
		}
	}
	return count, nil
}

// ── Mock PostStore / CommunityStore ──

type mockPostStore struct {
	mu     sync.Mutex
	posts  []model.Post
	nextID int
}

func newMockPostStore() *mockPostStore {
	return &mockPostStore{}
}

func (m *mockPostStore) Create(_ context.Context, post *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if post.ID == "" {
		post.ID = "post-" + post.Title
	}
	post.CreatedAt = time.Now()
	m.posts = append(m.posts, *post)
	return nil
}

func (m *mockPostStore) FindRecent(_ context.Context, limit int) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Post
	for i := len(m.posts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.posts[i])
	}
	return out, nil
}

func (m *mockPostStore) FindByCommunity(_ context.Context, communityID uint, offset, limit int) ([]model.Post, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.Post
	for _, p := range m.posts {
		if p.CommunityID == communityID {
			all = append(all, p)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

type mockCommunityStore struct {
	communities map[uint]*model.Community
}

func newMockCommunityStore() *mockCommunityStore {
	return &mockCommunityStore{communities: map[uint]*model.Community{
		1: {BaseModel: model.BaseModel{ID: 1}, Name: "前端开发"},
	}}
}

func (m *mockCommunityStore) FindAll(_ context.Context) ([]model.Community, error) {
	var out []model.Community
	for _, c := range m.communities {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCommunityStore) FindByID(_ context.Context, id uint) (*model.Community, error) {
	if c, ok := m.communities[id]; ok {
		return c, nil
	}
	return nil, util.ErrNotFound
}

// ── Mock XPStore ──

type mockXPStore struct {
	mu sync.Mutex
	xp map[uint]int
}

func newMockXPStore() *mockXPStore {
	return &mockXPStore{xp: make(map[uint]int)}
}

func (m *mockXPStore) AddXP(_ context.Context, userID uint, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.xp[userID] += amount
	return nil
}

func (m *mockXPStore) total(userID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.xp[userID]
}

// ── Recording cache：包装内存缓存并记录失效调用 ──

type recordingCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	stale       map[string]bool
	invalidated []string
	sets        []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{
		entries: make(map[string][]byte),
		stale:   make(map[string]bool),
	}
}

func (c *recordingCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if !ok || c.stale[key] {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, nil
	}
	return true, nil
}

func (c *recordingCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	delete(c.stale, key)
	c.sets = append(c.sets, key)
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		c.stale[key] = true
		c.invalidated = append(c.invalidated, key)
	}
	return nil
}

func (c *recordingCache) invalidatedKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.invalidated...)
}

func (c *recordingCache) isStale(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale[key]
}
