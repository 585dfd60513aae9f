package repository

import (
	"careeros_backend/internal/model"
	"careeros_backend/internal/util"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type SoftSkillRepository struct {
	DB *gorm.DB
}

func NewSoftSkillRepository(db *gorm.DB) *SoftSkillRepository {
	return &SoftSkillRepository{DB: db}
}

func (r *SoftSkillRepository) FindPublished(ctx context.Context) ([]model.SoftSkill, error) {
	var skills []model.SoftSkill
	err := r.DB.WithContext(ctx).
		Where("published = ?", true).
		Order("name ASC").
		Find(&skills).Error
	if err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *SoftSkillRepository) FindByID(ctx context.Context, id uint) (*model.SoftSkill, error) {
	var skill model.SoftSkill
	err := r.DB.WithContext(ctx).First(&skill, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

type UserSoftSkillRepository struct {
	DB *gorm.DB
}

func NewUserSoftSkillRepository(db *gorm.DB) *UserSoftSkillRepository {
	return &UserSoftSkillRepository{DB: db}
}

func (r *UserSoftSkillRepository) Create(ctx context.Context, userSkill *model.UserSoftSkill) error {
	return r.DB.WithContext(ctx).Create(userSkill).Error
}

func (r *UserSoftSkillRepository) FindByUserID(ctx context.Context, userID uint) ([]model.UserSoftSkill, error) {
	var userSkills []model.UserSoftSkill
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("SoftSkill").
		Order("started_at ASC").
		Find(&userSkills).Error
	if err != nil {
		return nil, err
	}
	return userSkills, nil
}

func (r *UserSoftSkillRepository) FindByIDAndUserID(ctx context.Context, id, userID uint) (*model.UserSoftSkill, error) {
	var userSkill model.UserSoftSkill
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Preload("SoftSkill").
		First(&userSkill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &userSkill, nil
}

func (r *UserSoftSkillRepository) ExistsByUserAndSkill(ctx context.Context, userID, skillID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.UserSoftSkill{}).
		Where("user_id = ? AND soft_skill_id = ?", userID, skillID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserSoftSkillRepository) UpdateProgress(ctx context.Context, id uint, progress int, completed bool) error {
	updates := map[string]interface{}{
		"progress":     progress,
		"is_completed": completed,
	}
	if completed {
		updates["completed_at"] = time.Now()
	}

	result := r.DB.WithContext(ctx).Model(&model.UserSoftSkill{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
