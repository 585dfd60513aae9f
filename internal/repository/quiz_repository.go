package repository

import (
	"careeros_backend/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type QuizResultRepository struct {
	DB *gorm.DB
}

func NewQuizResultRepository(db *gorm.DB) *QuizResultRepository {
	return &QuizResultRepository{DB: db}
}

func (r *QuizResultRepository) Create(ctx context.Context, result *model.QuizResult) error {
	return r.DB.WithContext(ctx).Create(result).Error
}

func (r *QuizResultRepository) FindByUserID(ctx context.Context, userID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("taken_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *QuizResultRepository) FindLatestByUserID(ctx context.Context, userID uint) (*model.QuizResult, error) {
	var result model.QuizResult
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("taken_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *QuizResultRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.QuizResult{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
