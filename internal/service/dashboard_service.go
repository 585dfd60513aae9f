package service

import (
	"careeros_backend/internal/cache"
	"careeros_backend/internal/model"
	"careeros_backend/pkg/logger"
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardService 聚合引擎：把分散在各实体存储里的学习记录
// 汇总成单个用户的仪表盘快照（统计 + 最近动态 + 推荐）。
type DashboardService struct {
	EnrollmentStore EnrollmentStore
	ProjectStore    UserProjectStore
	SkillStore      UserSoftSkillStore
	AwardedStore    UserAchievementStore
	QuizStore       QuizResultStore
	Cache           cache.ViewCache
	CacheTTL        time.Duration
	StoreTimeout    time.Duration
}

func NewDashboardService(
	enrollmentStore EnrollmentStore,
	projectStore UserProjectStore,
	skillStore UserSoftSkillStore,
	awardedStore UserAchievementStore,
	quizStore QuizResultStore,
	viewCache cache.ViewCache,
	cacheTTL time.Duration,
	storeTimeout time.Duration,
) *DashboardService {
	return &DashboardService{
		EnrollmentStore: enrollmentStore,
		ProjectStore:    projectStore,
		SkillStore:      skillStore,
		AwardedStore:    awardedStore,
		QuizStore:       quizStore,
		Cache:           viewCache,
		CacheTTL:        cacheTTL,
		StoreTimeout:    storeTimeout,
	}
}

type ActivityType string

const (
	ActivityCourse      ActivityType = "course"
	ActivityProject     ActivityType = "project"
	ActivitySkill       ActivityType = "skill"
	ActivityAchievement ActivityType = "achievement"
)

const recentActivityLimit = 10

// DashboardStats 仪表盘统计块
type DashboardStats struct {
	CompletedCourses  int  `json:"completedCourses"`
	CompletedProjects int  `json:"completedProjects"`
	MasteredSkills    int  `json:"masteredSkills"`
	AchievementCount  int  `json:"achievementCount"`
	HasCareerPath     bool `json:"hasCareerPath"`
	OverallProgress   int  `json:"overallProgress"` // 0-100
}

// Activity 四类记录合并后的统一动态条目
type Activity struct {
	Type        ActivityType `json:"type"`
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Progress    *int         `json:"progress,omitempty"` // 成就没有进度
	IsCompleted bool         `json:"isCompleted"`
	Date        time.Time    `json:"date"`
	EntityID    uint         `json:"entityId"`
}

// Recommendation 基于统计阈值的规则推荐，每次调用重算，从不缓存
type Recommendation struct {
	Type        string `json:"type"` // project | skill | community
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

type Overview struct {
	Stats            DashboardStats   `json:"stats"`
	RecentActivities []Activity       `json:"recentActivities"`
	Recommendations  []Recommendation `json:"recommendations"`
}

// overviewPayload 缓存的部分：统计和动态。推荐不进缓存。
type overviewPayload struct {
	Stats            DashboardStats `json:"stats"`
	RecentActivities []Activity     `json:"recentActivities"`
}

// Overview 计算用户仪表盘快照。
// 五路读取并发发出，任何一路失败则整个调用失败，不返回部分结果。
func (s *DashboardService) Overview(ctx context.Context, userID uint) (*Overview, error) {
	cacheKey := cache.OverviewKey(userID)

	var cached overviewPayload
	hit, err := s.Cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Log.Warn("overview cache read failed", zap.Uint("userID", userID), zap.Error(err))
	}
	if hit {
		return &Overview{
			Stats:            cached.Stats,
			RecentActivities: cached.RecentActivities,
			Recommendations:  buildRecommendations(cached.Stats),
		}, nil
	}

	payload, err := s.computeOverview(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.Cache.Set(ctx, cacheKey, payload, s.CacheTTL); err != nil {
		logger.Log.Warn("overview cache write failed", zap.Uint("userID", userID), zap.Error(err))
	}

	return &Overview{
		Stats:            payload.Stats,
		RecentActivities: payload.RecentActivities,
		Recommendations:  buildRecommendations(payload.Stats),
	}, nil
}

func (s *DashboardService) computeOverview(ctx context.Context, userID uint) (*overviewPayload, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	var (
		enrollments []model.Enrollment
		projects    []model.UserProject
		skills      []model.UserSoftSkill
		awarded     []model.UserAchievement
		quizCount   int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		enrollments, err = s.EnrollmentStore.FindByUserID(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		projects, err = s.ProjectStore.FindByUserID(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		skills, err = s.SkillStore.FindByUserID(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		awarded, err = s.AwardedStore.FindByUserID(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		quizCount, err = s.QuizStore.CountByUserID(gctx, userID)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate overview for user %d: %w", userID, err)
	}

	return &overviewPayload{
		Stats:            computeStats(enrollments, projects, skills, awarded, quizCount),
		RecentActivities: buildActivities(enrollments, projects, skills, awarded),
	}, nil
}

func computeStats(
	enrollments []model.Enrollment,
	projects []model.UserProject,
	skills []model.UserSoftSkill,
	awarded []model.UserAchievement,
	quizCount int64,
) DashboardStats {
	stats := DashboardStats{
		AchievementCount: len(awarded),
		HasCareerPath:    quizCount > 0,
	}

	for _, e := range enrollments {
		if e.IsCompleted {
			stats.CompletedCourses++
		}
	}
	for _, p := range projects {
		if p.IsCompleted {
			stats.CompletedProjects++
		}
	}
	for _, sk := range skills {
		if sk.IsCompleted {
			stats.MasteredSkills++
		}
	}

	total := len(enrollments) + len(projects) + len(skills)
	if total > 0 {
		completed := stats.CompletedCourses + stats.CompletedProjects + stats.MasteredSkills
		stats.OverallProgress = int(math.Round(100 * float64(completed) / float64(total)))
	}
	// total == 0 时保持 0，除零保护而非错误

	return stats
}

// buildActivities 按固定顺序（课程、项目、技能、成就）拼接四类记录，
// 再按时间稳定降序排序，同一时刻保持拼接顺序，截取最近 10 条。
func buildActivities(
	enrollments []model.Enrollment,
	projects []model.UserProject,
	skills []model.UserSoftSkill,
	awarded []model.UserAchievement,
) []Activity {
	activities := make([]Activity, 0, len(enrollments)+len(projects)+len(skills)+len(awarded))

	for _, e := range enrollments {
		progress := e.Progress
		activities = append(activities, Activity{
			Type:        ActivityCourse,
			ID:          e.ID,
			Title:       e.Course.Title,
			Progress:    &progress,
			IsCompleted: e.IsCompleted,
			Date:        e.EnrolledAt,
			EntityID:    e.CourseID,
		})
	}
	for _, p := range projects {
		progress := p.Progress
		activities = append(activities, Activity{
			Type:        ActivityProject,
			ID:          p.ID,
			Title:       p.Project.Title,
			Progress:    &progress,
			IsCompleted: p.IsCompleted,
			Date:        p.StartedAt,
			EntityID:    p.ProjectID,
		})
	}
	for _, sk := range skills {
		progress := sk.Progress
		activities = append(activities, Activity{
			Type:        ActivitySkill,
			ID:          sk.ID,
			Title:       sk.SoftSkill.Name,
			Progress:    &progress,
			IsCompleted: sk.IsCompleted,
			Date:        sk.StartedAt,
			EntityID:    sk.SoftSkillID,
		})
	}
	for _, a := range awarded {
		activities = append(activities, Activity{
			Type:        ActivityAchievement,
			ID:          a.ID,
			Title:       a.Achievement.Name,
			IsCompleted: true,
			Date:        a.AwardedAt,
			EntityID:    a.AchievementID,
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Date.After(activities[j].Date)
	})

	if len(activities) > recentActivityLimit {
		activities = activities[:recentActivityLimit]
	}
	return activities
}

// buildRecommendations 三条硬编码阈值规则。
// 目录 ID 是占位值，真正的推荐引擎是后续规划。
func buildRecommendations(stats DashboardStats) []Recommendation {
	recommendations := []Recommendation{}

	if stats.CompletedCourses > 0 {
		recommendations = append(recommendations, Recommendation{
			Type:        "project",
			ID:          1,
			Title:       "实战项目：把课程知识用起来",
			Description: "选择一个与已完成课程匹配的实战项目巩固所学",
			Reason:      "你已完成课程学习，动手实践是下一步",
		})
	}
	if stats.CompletedProjects > 0 {
		recommendations = append(recommendations, Recommendation{
			Type:        "skill",
			ID:          1,
			Title:       "软技能：展示你的项目",
			Description: "学习表达与协作技巧，让项目经历在面试中发光",
			Reason:      "项目完成之后，沟通能力决定它的价值",
		})
	}
	if stats.OverallProgress > 30 {
		recommendations = append(recommendations, Recommendation{
			Type:        "community",
			ID:          1,
			Title:       "加入学习社区",
			Description: "和同方向的学习者交流进度与心得",
			Reason:      "你的整体进度已过三成，同伴会帮你走得更远",
		})
	}

	return recommendations
}
