package service

import (
	"careeros_backend/internal/model"
	"context"
)

// 服务层按消费方定义实体存储接口，由 repository 包的具体类型实现，
// 单元测试用内存版 mock 替换。

type EnrollmentStore interface {
	FindByUserID(ctx context.Context, userID uint) ([]model.Enrollment, error)
	FindByIDAndUserID(ctx context.Context, id, userID uint) (*model.Enrollment, error)
	UpdateProgress(ctx context.Context, id uint, progress int, completed bool) error
}

type UserProjectStore interface {
	FindByUserID(ctx context.Context, userID uint) ([]model.UserProject, error)
	FindByIDAndUserID(ctx context.Context, id, userID uint) (*model.UserProject, error)
	UpdateProgress(ctx context.Context, id uint, progress int, completed bool) error
}

type UserSoftSkillStore interface {
	FindByUserID(ctx context.Context, userID uint) ([]model.UserSoftSkill, error)
	FindByIDAndUserID(ctx context.Context, id, userID uint) (*model.UserSoftSkill, error)
	UpdateProgress(ctx context.Context, id uint, progress int, completed bool) error
}

type UserAchievementStore interface {
	FindByUserID(ctx context.Context, userID uint) ([]model.UserAchievement, error)
	Award(ctx context.Context, userID, achievementID uint) (bool, error)
}

type AchievementCatalog interface {
	FindByCode(ctx context.Context, code string) (*model.Achievement, error)
}

type QuizResultStore interface {
	Create(ctx context.Context, result *model.QuizResult) error
	FindByUserID(ctx context.Context, userID uint) ([]model.QuizResult, error)
	FindLatestByUserID(ctx context.Context, userID uint) (*model.QuizResult, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}

type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	FindRecent(ctx context.Context, limit int) ([]model.Post, error)
	FindByCommunity(ctx context.Context, communityID uint, offset, limit int) ([]model.Post, int64, error)
}

type CommunityStore interface {
	FindAll(ctx context.Context) ([]model.Community, error)
	FindByID(ctx context.Context, id uint) (*model.Community, error)
}

type XPStore interface {
	AddXP(ctx context.Context, userID uint, amount int) error
}
