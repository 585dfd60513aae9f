package service

import (
	"careeros_backend/internal/cache"
	"careeros_backend/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dashboardFixture struct {
	enrollments *mockEnrollmentStore
	projects    *mockUserProjectStore
	skills      *mockUserSoftSkillStore
	awarded     *mockAwardedStore
	quiz        *mockQuizStore
	cache       *recordingCache
	service     *DashboardService
}

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		enrollments: newMockEnrollmentStore(),
		projects:    newMockUserProjectStore(),
		skills:      newMockUserSoftSkillStore(),
		awarded:     newMockAwardedStore(),
		quiz:        newMockQuizStore(),
		cache:       newRecordingCache(),
	}
	f.service = NewDashboardService(
		f.enrollments, f.projects, f.skills, f.awarded, f.quiz,
		f.cache, 10*time.Minute, 5*time.Second,
	)
	return f
}

func ts(daysAgo int) time.Time {
	return time.Now().Add(-time.Duration(daysAgo) * 24 * time.Hour)
}

func TestOverviewStats(t *testing.T) {
	f := newDashboardFixture()
	f.enrollments.add(model.Enrollment{BaseModel: model.BaseModel{ID: 1}, UserID: 1, CourseID: 10, Course: model.Course{Title: "Go 入门"}, Progress: 100, IsCompleted: true, EnrolledAt: ts(5)})
	f.enrollments.add(model.Enrollment{BaseModel: model.BaseModel{ID: 2}, UserID: 1, CourseID: 11, Course: model.Course{Title: "数据库"}, Progress: 40, EnrolledAt: ts(3)})
	f.projects.add(model.UserProject{BaseModel: model.BaseModel{ID: 1}, UserID: 1, ProjectID: 20, Project: model.Project{Title: "博客系统"}, Progress: 100, IsCompleted: true, StartedAt: ts(2)})
	f.skills.add(model.UserSoftSkill{BaseModel: model.BaseModel{ID: 1}, UserID: 1, SoftSkillID: 30, SoftSkill: model.SoftSkill{Name: "沟通"}, Progress: 10, StartedAt: ts(1)})
	f.awarded.add(model.UserAchievement{BaseModel: model.BaseModel{ID: 1}, UserID: 1, AchievementID: 1, Achievement: model.Achievement{Name: "第一门课程"}, AwardedAt: ts(4)})

	overview, err := f.service.Overview(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, overview.Stats.CompletedCourses)
	assert.Equal(t, 1, overview.Stats.CompletedProjects)
	assert.Equal(t, 0, overview.Stats.MasteredSkills)
	assert.Equal(t, 1, overview.Stats.AchievementCount)
	assert.False(t, overview.Stats.HasCareerPath)
	// 4 条记录完成 2 条 → 50%
	assert.Equal(t, 50, overview.Stats.OverallProgress)
}

// 新用户所有统计为零，整体进度不会除零
func TestOverviewEmptyUser(t *testing.T) {
	f := newDashboardFixture()

	overview, err := f.service.Overview(context.Background(), 99)
	require.NoError(t, err)

	assert.Equal(t, DashboardStats{}, overview.Stats)
	assert.Empty(t, overview.RecentActivities)
	assert.Empty(t, overview.Recommendations)
}

// 最近动态合并四类记录，按时间降序，截取前 10 条
func TestOverviewRecentActivitiesMergedAndSorted(t *testing.T) {
	f := newDashboardFixture()
	for i := uint(1); i <= 6; i++ {
		f.enrollments.add(model.Enrollment{
			BaseModel: model.BaseModel{ID: i}, UserID: 1, CourseID: 10 + i,
			Course: model.Course{Title: "课程"}, EnrolledAt: ts(int(i)),
		})
	}
	for i := uint(1); i <= 4; i++ {
		f.projects.add(model.UserProject{
			BaseModel: model.BaseModel{ID: i}, UserID: 1, ProjectID: 20 + i,
			Project: model.Project{Title: "项目"}, StartedAt: ts(int(i) * 2),
		})
	}
	f.skills.add(model.UserSoftSkill{
		BaseModel: model.BaseModel{ID: 1}, UserID: 1, SoftSkillID: 30,
		SoftSkill: model.SoftSkill{Name: "沟通"}, StartedAt: ts(0),
	})
	f.awarded.add(model.UserAchievement{
		BaseModel: model.BaseModel{ID: 1}, UserID: 1, AchievementID: 1,
		Achievement: model.Achievement{Name: "成就"}, AwardedAt: ts(20),
	})

	overview, err := f.service.Overview(context.Background(), 1)
	require.NoError(t, err)

	// 共 12 条，只保留最近 10 条
	require.Len(t, overview.RecentActivities, 10)

	for i := 1; i < len(overview.RecentActivities); i++ {
		prev := overview.RecentActivities[i-1].Date
		curr := overview.RecentActivities[i].Date
		assert.False(t, curr.After(prev), "activities must be in descending order")
	}

	// 最旧的成就被截掉
	for _, a := range overview.RecentActivities {
		assert.NotEqual(t, ActivityAchievement, a.Type)
	}

	// 最新的一条是今天开始的软技能
	assert.Equal(t, ActivitySkill, overview.RecentActivities[0].Type)
}

// 任何一路实体存储失败则整个聚合失败，不返回部分结果
func TestOverviewFailsWhenAnyStoreFails(t *testing.T) {
	f := newDashboardFixture()
	f.enrollments.add(model.Enrollment{BaseModel: model.BaseModel{ID: 1}, UserID: 1, CourseID: 10, EnrolledAt: ts(1)})
	f.projects.failAll = true

	overview, err := f.service.Overview(context.Background(), 1)
	assert.Nil(t, overview)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aggregate overview")
}

// 聚合结果写入缓存，第二次调用直接命中
func TestOverviewUsesCache(t *testing.T) {
	f := newDashboardFixture()
	f.enrollments.add(model.Enrollment{BaseModel: model.BaseModel{ID: 1}, UserID: 1, CourseID: 10, Course: model.Course{Title: "Go 入门"}, Progress: 100, IsCompleted: true, EnrolledAt: ts(1)})

	first, err := f.service.Overview(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, f.cache.sets, cache.OverviewKey(1))

	// 后续写入不应影响已缓存的视图
	f.enrollments.add(model.Enrollment{BaseModel: model.BaseModel{ID: 2}, UserID: 1, CourseID: 11, EnrolledAt: ts(0)})

	second, err := f.service.Overview(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, first.Stats, second.Stats)
	assert.Len(t, second.RecentActivities, 1)
}

// 缓存失效后重新聚合，读到最新状态
func TestOverviewRecomputesAfterInvalidation(t *testing.T) {
	f := newDashboardFixture()
	f.enrollments.add(model.Enrollment{BaseModel: model.BaseModel{ID: 1}, UserID: 1, CourseID: 10, Course: model.Course{Title: "Go 入门"}, Progress: 40, EnrolledAt: ts(1)})

	first, err := f.service.Overview(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Stats.CompletedCourses)

	require.NoError(t, f.enrollments.UpdateProgress(context.Background(), 1, 100, true))
	require.NoError(t, f.cache.Invalidate(context.Background(), cache.OverviewKey(1)))

	second, err := f.service.Overview(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Stats.CompletedCourses)
	assert.Equal(t, 100, second.Stats.OverallProgress)
}

// 推荐永远基于当前统计重算，不随总览一起缓存
func TestRecommendationsNotCached(t *testing.T) {
	f := newDashboardFixture()
	f.enrollments.add(model.Enrollment{BaseModel: model.BaseModel{ID: 1}, UserID: 1, CourseID: 10, Course: model.Course{Title: "Go 入门"}, Progress: 100, IsCompleted: true, EnrolledAt: ts(1)})

	overview, err := f.service.Overview(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, overview.Recommendations)

	// 缓存里只有统计和动态
	var cached overviewPayload
	hit, err := f.cache.Get(context.Background(), cache.OverviewKey(1), &cached)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, overview.Stats, cached.Stats)

	// 命中缓存的调用也带有推荐
	again, err := f.service.Overview(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, overview.Recommendations, again.Recommendations)
}

func TestRecommendationRules(t *testing.T) {
	completedCourse := buildRecommendations(DashboardStats{CompletedCourses: 1, OverallProgress: 20})
	require.Len(t, completedCourse, 1)
	assert.Equal(t, "project", completedCourse[0].Type)

	completedBoth := buildRecommendations(DashboardStats{CompletedCourses: 1, CompletedProjects: 1, OverallProgress: 60})
	require.Len(t, completedBoth, 3)
	assert.Equal(t, "project", completedBoth[0].Type)
	assert.Equal(t, "skill", completedBoth[1].Type)
	assert.Equal(t, "community", completedBoth[2].Type)

	fresh := buildRecommendations(DashboardStats{})
	assert.Empty(t, fresh)
}

func TestOverviewHasCareerPathFromQuiz(t *testing.T) {
	f := newDashboardFixture()
	require.NoError(t, f.quiz.Create(context.Background(), &model.QuizResult{UserID: 1, QuizType: "career_interest", TakenAt: time.Now()}))

	overview, err := f.service.Overview(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, overview.Stats.HasCareerPath)
}
