package repository

import (
	"careeros_backend/internal/model"
	"careeros_backend/internal/util"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	DB *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

func (r *ProjectRepository) FindPublished(ctx context.Context, category string) ([]model.Project, error) {
	var projects []model.Project
	query := r.DB.WithContext(ctx).Where("published = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("created_at DESC").Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := r.DB.WithContext(ctx).First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.DB.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.DB.WithContext(ctx).Save(project).Error
}

type UserProjectRepository struct {
	DB *gorm.DB
}

func NewUserProjectRepository(db *gorm.DB) *UserProjectRepository {
	return &UserProjectRepository{DB: db}
}

func (r *UserProjectRepository) Create(ctx context.Context, userProject *model.UserProject) error {
	return r.DB.WithContext(ctx).Create(userProject).Error
}

func (r *UserProjectRepository) FindByUserID(ctx context.Context, userID uint) ([]model.UserProject, error) {
	var userProjects []model.UserProject
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Project").
		Order("started_at ASC").
		Find(&userProjects).Error
	if err != nil {
		return nil, err
	}
	return userProjects, nil
}

func (r *UserProjectRepository) FindByIDAndUserID(ctx context.Context, id, userID uint) (*model.UserProject, error) {
	var userProject model.UserProject
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Preload("Project").
		First(&userProject).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &userProject, nil
}

func (r *UserProjectRepository) ExistsByUserAndProject(ctx context.Context, userID, projectID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.UserProject{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserProjectRepository) UpdateProgress(ctx context.Context, id uint, progress int, completed bool) error {
	updates := map[string]interface{}{
		"progress":     progress,
		"is_completed": completed,
	}
	if completed {
		updates["completed_at"] = time.Now()
	}

	result := r.DB.WithContext(ctx).Model(&model.UserProject{}).
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
