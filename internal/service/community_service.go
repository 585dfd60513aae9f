package service

import (
	"careeros_backend/internal/cache"
	"careeros_backend/internal/model"
	"careeros_backend/internal/util"
	"careeros_backend/pkg/logger"
	"careeros_backend/pkg/monitoring"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const recentFeedLimit = 20

type CommunityService struct {
	CommunityStore CommunityStore
	PostStore      PostStore
	Cache          cache.ViewCache
	CacheTTL       time.Duration
	StoreTimeout   time.Duration
}

func NewCommunityService(
	communityStore CommunityStore,
	postStore PostStore,
	viewCache cache.ViewCache,
	cacheTTL time.Duration,
	storeTimeout time.Duration,
) *CommunityService {
	return &CommunityService{
		CommunityStore: communityStore,
		PostStore:      postStore,
		Cache:          viewCache,
		CacheTTL:       cacheTTL,
		StoreTimeout:   storeTimeout,
	}
}

type PostRequest struct {
	Title   string         `json:"title" binding:"required"`
	Content string         `json:"content" binding:"required"`
	Type    model.PostType `json:"type"`
	Tags    []string       `json:"tags"`
}

type PostResponse struct {
	ID          string    `json:"id"`
	CommunityID uint      `json:"communityId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Type        string    `json:"type"`
	Author      string    `json:"author"`
	Avatar      string    `json:"avatar"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	Upvotes     int       `json:"upvotes"`
	Views       int       `json:"views"`
}

// CreatePost 在社区发帖，成功后按失效表过期最新帖子视图
func (s *CommunityService) CreatePost(ctx context.Context, userID, communityID uint, req PostRequest) (*model.Post, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", util.ErrValidation)
	}

	postType := req.Type
	switch postType {
	case model.PostDiscussion, model.PostQuestion, model.PostShowcase:
	case "":
		postType = model.PostDiscussion
	default:
		return nil, fmt.Errorf("%w: unknown post type %q", util.ErrValidation, postType)
	}

	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	if _, err := s.CommunityStore.FindByID(ctx, communityID); err != nil {
		return nil, err
	}

	post := &model.Post{
		CommunityID: communityID,
		AuthorID:    userID,
		Title:       req.Title,
		Content:     req.Content,
		Type:        postType,
		Tags:        strings.Join(req.Tags, ","),
	}
	if err := s.PostStore.Create(ctx, post); err != nil {
		return nil, err
	}

	keys, err := cache.KeysFor(cache.EventCommunityPostCreated, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Invalidate(ctx, keys...); err != nil {
		logger.Log.Warn("feed invalidation failed", zap.Uint("userID", userID), zap.Error(err))
	} else {
		monitoring.CacheInvalidations.WithLabelValues(string(cache.EventCommunityPostCreated)).Inc()
	}

	return post, nil
}

// RecentFeed 全站最新帖子，经视图缓存提供
func (s *CommunityService) RecentFeed(ctx context.Context) ([]PostResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	cacheKey := cache.CommunityFeedKey()

	var cached []PostResponse
	hit, err := s.Cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Log.Warn("feed cache read failed", zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	posts, err := s.PostStore.FindRecent(ctx, recentFeedLimit)
	if err != nil {
		return nil, err
	}

	feed := make([]PostResponse, len(posts))
	for i, post := range posts {
		feed[i] = toPostResponse(post)
	}

	if err := s.Cache.Set(ctx, cacheKey, feed, s.CacheTTL); err != nil {
		logger.Log.Warn("feed cache write failed", zap.Error(err))
	}
	return feed, nil
}

func (s *CommunityService) ListCommunities(ctx context.Context) ([]model.Community, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.CommunityStore.FindAll(ctx)
}

func (s *CommunityService) ListCommunityPosts(ctx context.Context, communityID uint, page, limit int) ([]PostResponse, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	offset := (page - 1) * limit
	posts, total, err := s.PostStore.FindByCommunity(ctx, communityID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PostResponse, len(posts))
	for i, post := range posts {
		responses[i] = toPostResponse(post)
	}
	return responses, total, nil
}

func toPostResponse(post model.Post) PostResponse {
	tags := []string{}
	if post.Tags != "" {
		tags = strings.Split(post.Tags, ",")
	}
	return PostResponse{
		ID:          post.ID,
		CommunityID: post.CommunityID,
		Title:       post.Title,
		Content:     post.Content,
		Type:        string(post.Type),
		Author:      post.Author.Name,
		Avatar:      post.Author.Avatar,
		Tags:        tags,
		CreatedAt:   post.CreatedAt,
		Upvotes:     post.Upvotes,
		Views:       post.Views,
	}
}
