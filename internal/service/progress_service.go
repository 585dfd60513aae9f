package service

import (
	"careeros_backend/internal/cache"
	"careeros_backend/internal/model"
	"careeros_backend/internal/util"
	"careeros_backend/pkg/logger"
	"careeros_backend/pkg/monitoring"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// EntityKind 可推进进度的三类学习实体
type EntityKind string

const (
	KindCourse  EntityKind = "course"
	KindProject EntityKind = "project"
	KindSkill   EntityKind = "skill"
)

// 里程碑成就代码与完成奖励经验值
const (
	achievementFirstCourse  = "first_course_completed"
	achievementFirstProject = "first_project_completed"
	achievementFirstSkill   = "first_skill_mastered"
)

var completionXP = map[EntityKind]int{
	KindCourse:  100,
	KindProject: 150,
	KindSkill:   50,
}

// ProgressService 完成变更处理器：执行一次实体更新并编排全部副作用
// （通知、成就、缓存失效、总览预热）。
// 存储更新失败会原样向上抛；副作用全部尽力而为，不会让成功的更新回滚。
type ProgressService struct {
	EnrollmentStore EnrollmentStore
	ProjectStore    UserProjectStore
	SkillStore      UserSoftSkillStore
	AwardedStore    UserAchievementStore
	Achievements    AchievementCatalog
	Users           XPStore
	Notifications   *NotificationService
	Cache           cache.ViewCache
	Dashboard       *DashboardService
	StoreTimeout    time.Duration
}

func NewProgressService(
	enrollmentStore EnrollmentStore,
	projectStore UserProjectStore,
	skillStore UserSoftSkillStore,
	awardedStore UserAchievementStore,
	achievements AchievementCatalog,
	users XPStore,
	notifications *NotificationService,
	viewCache cache.ViewCache,
	dashboard *DashboardService,
	storeTimeout time.Duration,
) *ProgressService {
	return &ProgressService{
		EnrollmentStore: enrollmentStore,
		ProjectStore:    projectStore,
		SkillStore:      skillStore,
		AwardedStore:    awardedStore,
		Achievements:    achievements,
		Users:           users,
		Notifications:   notifications,
		Cache:           viewCache,
		Dashboard:       dashboard,
		StoreTimeout:    storeTimeout,
	}
}

// progressRecord 三类实体在变更层的统一视图
type progressRecord struct {
	id          uint
	title       string
	entityID    uint
	progress    int
	isCompleted bool
}

// CompleteEntity 把一条学习记录标记为完成。
// 记录不存在或不属于该用户时返回 util.ErrNotFound，不产生任何副作用。
// 对已完成的记录幂等：状态不变、不重复通知，仅重复失效已过期的缓存键。
func (s *ProgressService) CompleteEntity(ctx context.Context, kind EntityKind, entityID, userID uint) error {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	event, err := eventFor(kind)
	if err != nil {
		return err
	}

	record, err := s.loadRecord(ctx, kind, entityID, userID)
	if err != nil {
		return err
	}

	if !record.isCompleted {
		// 完成不变量：isCompleted=true 必须伴随 progress=100
		if err := s.updateRecord(ctx, kind, record.id, 100, true); err != nil {
			return err
		}

		s.Notifications.Push(userID, model.Notification{
			Type:    model.NotificationCompletion,
			Title:   completionTitle(kind),
			Message: fmt.Sprintf("恭喜，你完成了「%s」！", record.title),
			RelatedEntity: model.RelatedEntity{
				Type: string(kind),
				ID:   record.entityID,
			},
		})

		s.grantCompletionRewards(ctx, kind, userID)
	}

	keys, err := cache.KeysFor(event, userID)
	if err != nil {
		return err
	}
	if err := s.Cache.Invalidate(ctx, keys...); err != nil {
		logger.Log.Warn("cache invalidation failed",
			zap.String("event", string(event)),
			zap.Uint("userID", userID),
			zap.Error(err))
	} else {
		monitoring.CacheInvalidations.WithLabelValues(string(event)).Inc()
	}

	s.warmOverview(userID)
	return nil
}

// UpdateProgress 推进一条学习记录的进度（不回退）。
// progress 到达 100 时等同于 CompleteEntity 的完整语义。
func (s *ProgressService) UpdateProgress(ctx context.Context, kind EntityKind, entityID, userID uint, progress int) error {
	if progress < 0 || progress > 100 {
		return fmt.Errorf("%w: progress must be within [0,100]", util.ErrValidation)
	}
	if progress == 100 {
		return s.CompleteEntity(ctx, kind, entityID, userID)
	}

	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	if _, err := eventFor(kind); err != nil {
		return err
	}

	record, err := s.loadRecord(ctx, kind, entityID, userID)
	if err != nil {
		return err
	}

	// 完成是终态，进度只增不减
	if record.isCompleted || progress <= record.progress {
		return nil
	}

	return s.updateRecord(ctx, kind, record.id, progress, false)
}

func (s *ProgressService) loadRecord(ctx context.Context, kind EntityKind, entityID, userID uint) (*progressRecord, error) {
	switch kind {
	case KindCourse:
		e, err := s.EnrollmentStore.FindByIDAndUserID(ctx, entityID, userID)
		if err != nil {
			return nil, err
		}
		return &progressRecord{id: e.ID, title: e.Course.Title, entityID: e.CourseID, progress: e.Progress, isCompleted: e.IsCompleted}, nil
	case KindProject:
		p, err := s.ProjectStore.FindByIDAndUserID(ctx, entityID, userID)
		if err != nil {
			return nil, err
		}
		return &progressRecord{id: p.ID, title: p.Project.Title, entityID: p.ProjectID, progress: p.Progress, isCompleted: p.IsCompleted}, nil
	case KindSkill:
		sk, err := s.SkillStore.FindByIDAndUserID(ctx, entityID, userID)
		if err != nil {
			return nil, err
		}
		return &progressRecord{id: sk.ID, title: sk.SoftSkill.Name, entityID: sk.SoftSkillID, progress: sk.Progress, isCompleted: sk.IsCompleted}, nil
	default:
		return nil, fmt.Errorf("%w: unknown entity kind %q", util.ErrValidation, kind)
	}
}

func (s *ProgressService) updateRecord(ctx context.Context, kind EntityKind, id uint, progress int, completed bool) error {
	switch kind {
	case KindCourse:
		return s.EnrollmentStore.UpdateProgress(ctx, id, progress, completed)
	case KindProject:
		return s.ProjectStore.UpdateProgress(ctx, id, progress, completed)
	case KindSkill:
		return s.SkillStore.UpdateProgress(ctx, id, progress, completed)
	default:
		return fmt.Errorf("%w: unknown entity kind %q", util.ErrValidation, kind)
	}
}

// grantCompletionRewards 发放经验值与里程碑成就。尽力而为：
// 任何失败只记日志，不影响已成功的完成更新。
func (s *ProgressService) grantCompletionRewards(ctx context.Context, kind EntityKind, userID uint) {
	if err := s.Users.AddXP(ctx, userID, completionXP[kind]); err != nil {
		logger.Log.Warn("XP grant failed", zap.Uint("userID", userID), zap.Error(err))
	}

	code := milestoneCode(kind)
	achievement, err := s.Achievements.FindByCode(ctx, code)
	if err != nil {
		logger.Log.Warn("milestone achievement lookup failed",
			zap.String("code", code), zap.Error(err))
		return
	}

	newlyAwarded, err := s.AwardedStore.Award(ctx, userID, achievement.ID)
	if err != nil {
		logger.Log.Warn("achievement award failed",
			zap.Uint("userID", userID), zap.String("code", code), zap.Error(err))
		return
	}
	if !newlyAwarded {
		return
	}

	if achievement.XPReward > 0 {
		if err := s.Users.AddXP(ctx, userID, achievement.XPReward); err != nil {
			logger.Log.Warn("achievement XP grant failed", zap.Uint("userID", userID), zap.Error(err))
		}
	}

	s.Notifications.Push(userID, model.Notification{
		Type:    model.NotificationAchievement,
		Title:   "解锁新成就",
		Message: fmt.Sprintf("你获得了成就「%s」", achievement.Name),
		RelatedEntity: model.RelatedEntity{
			Type: "achievement",
			ID:   achievement.ID,
		},
	})
}

// warmOverview 异步预热总览缓存，让下一次渲染不必等待重算。
// 失败只记日志——下一次 Overview 调用会照常重算。
func (s *ProgressService) warmOverview(userID uint) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.StoreTimeout)
		defer cancel()
		if _, err := s.Dashboard.Overview(ctx, userID); err != nil {
			logger.Log.Warn("overview warmup failed", zap.Uint("userID", userID), zap.Error(err))
		}
	}()
}

func eventFor(kind EntityKind) (cache.Event, error) {
	switch kind {
	case KindCourse:
		return cache.EventCourseCompleted, nil
	case KindProject:
		return cache.EventProjectCompleted, nil
	case KindSkill:
		return cache.EventSkillCompleted, nil
	default:
		return "", fmt.Errorf("%w: unknown entity kind %q", util.ErrValidation, kind)
	}
}

func completionTitle(kind EntityKind) string {
	switch kind {
	case KindCourse:
		return "课程完成"
	case KindProject:
		return "项目完成"
	default:
		return "技能掌握"
	}
}

func milestoneCode(kind EntityKind) string {
	switch kind {
	case KindCourse:
		return achievementFirstCourse
	case KindProject:
		return achievementFirstProject
	default:
		return achievementFirstSkill
	}
}
