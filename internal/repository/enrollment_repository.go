package repository

import (
	"careeros_backend/internal/model"
	"careeros_backend/internal/util"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.DB.WithContext(ctx).Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByUserID(ctx context.Context, userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Course").
		Order("enrolled_at ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *EnrollmentRepository) FindByIDAndUserID(ctx context.Context, id, userID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Preload("Course").
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) ExistsByUserAndCourse(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// UpdateProgress 写入进度与完成标记。completed=true 时调用方必须已把 progress 置为 100。
func (r *EnrollmentRepository) UpdateProgress(ctx context.Context, id uint, progress int, completed bool) error {
	updates := map[string]interface{}{
		"progress":     progress,
		"is_completed": completed,
	}
	if completed {
		updates["completed_at"] = time.Now()
	}

	result := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
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
