package repository

import (
	"careeros_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) FindAll(ctx context.Context) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *AchievementRepository) FindByCode(ctx context.Context, code string) (*model.Achievement, error) {
	var achievement model.Achievement
	err := r.DB.WithContext(ctx).Where("code = ?", code).First(&achievement).Error
	if err != nil {
		return nil, err
	}
	return &achievement, nil
}

type UserAchievementRepository struct {
	DB *gorm.DB
}

func NewUserAchievementRepository(db *gorm.DB) *UserAchievementRepository {
	return &UserAchievementRepository{DB: db}
}

func (r *UserAchievementRepository) FindByUserID(ctx context.Context, userID uint) ([]model.UserAchievement, error) {
	var awarded []model.UserAchievement
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Achievement").
		Order("awarded_at ASC").
		Find(&awarded).Error
	if err != nil {
		return nil, err
	}
	return awarded, nil
}

// Award 颁发成就，幂等：已颁发过的组合直接跳过。
// 返回值表示本次是否真正新颁发。
func (r *UserAchievementRepository) Award(ctx context.Context, userID, achievementID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	err = r.DB.WithContext(ctx).Create(&model.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
	}).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *UserAchievementRepository) HasAchievement(ctx context.Context, userID, achievementID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error
	return count > 0, err
}
