package repository

import (
	"careeros_backend/internal/model"
	"careeros_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{DB: db}
}

func (r *CommunityRepository) FindAll(ctx context.Context) ([]model.Community, error) {
	var communities []model.Community
	err := r.DB.WithContext(ctx).Order("member_count DESC").Find(&communities).Error
	if err != nil {
		return nil, err
	}
	return communities, nil
}

func (r *CommunityRepository) FindByID(ctx context.Context, id uint) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).First(&community, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &community, nil
}

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

// FindRecent 全站最新帖子，仪表盘与社区首页的"最新动态"数据源
func (r *PostRepository) FindRecent(ctx context.Context, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) FindByCommunity(ctx context.Context, communityID uint, offset, limit int) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.Post{}).Where("community_id = ?", communityID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("is_pinned DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Preload("Author").
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}
