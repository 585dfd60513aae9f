package service

import (
	"careeros_backend/internal/cache"
	"careeros_backend/internal/model"
	"careeros_backend/internal/util"
	"careeros_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// QuizService 职业测评结果。只追加：结果写入后不可修改，
// 存在至少一条结果即认为用户已生成职业路径。
type QuizService struct {
	QuizStore    QuizResultStore
	Cache        cache.ViewCache
	StoreTimeout time.Duration
}

func NewQuizService(quizStore QuizResultStore, viewCache cache.ViewCache, storeTimeout time.Duration) *QuizService {
	return &QuizService{
		QuizStore:    quizStore,
		Cache:        viewCache,
		StoreTimeout: storeTimeout,
	}
}

type QuizResultRequest struct {
	QuizType          string          `json:"quizType" binding:"required"`
	Result            json.RawMessage `json:"result" binding:"required"`
	RecommendedCareer string          `json:"recommendedCareer"`
	RecommendedNiches []string        `json:"recommendedNiches"`
}

func (s *QuizService) CreateQuizResult(ctx context.Context, userID uint, req QuizResultRequest) (*model.QuizResult, error) {
	if strings.TrimSpace(req.QuizType) == "" {
		return nil, fmt.Errorf("%w: quizType is required", util.ErrValidation)
	}
	if len(req.Result) == 0 {
		return nil, fmt.Errorf("%w: result is required", util.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	result := &model.QuizResult{
		UserID:            userID,
		QuizType:          req.QuizType,
		Result:            req.Result,
		RecommendedCareer: req.RecommendedCareer,
		RecommendedNiches: strings.Join(req.RecommendedNiches, ","),
		TakenAt:           time.Now(),
	}

	if err := s.QuizStore.Create(ctx, result); err != nil {
		return nil, err
	}

	// 首条结果会翻转 hasCareerPath，总览缓存直接过期。
	// 测评不在完成事件枚举内，这里点名失效而不走失效表。
	if err := s.Cache.Invalidate(ctx, cache.OverviewKey(userID)); err != nil {
		logger.Log.Warn("overview invalidation after quiz failed",
			zap.Uint("userID", userID), zap.Error(err))
	}

	return result, nil
}

func (s *QuizService) LatestResult(ctx context.Context, userID uint) (*model.QuizResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.QuizStore.FindLatestByUserID(ctx, userID)
}

func (s *QuizService) History(ctx context.Context, userID uint) ([]model.QuizResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.QuizStore.FindByUserID(ctx, userID)
}

func (s *QuizService) HasCareerPath(ctx context.Context, userID uint) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()
	count, err := s.QuizStore.CountByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
