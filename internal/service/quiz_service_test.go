package service

import (
	"careeros_backend/internal/cache"
	"careeros_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuizFixture() (*QuizService, *mockQuizStore, *recordingCache) {
	store := newMockQuizStore()
	viewCache := newRecordingCache()
	return NewQuizService(store, viewCache, 5*time.Second), store, viewCache
}

func TestCreateQuizResult(t *testing.T) {
	s, _, viewCache := newQuizFixture()

	result, err := s.CreateQuizResult(context.Background(), 42, QuizResultRequest{
		QuizType:          "career_interest",
		Result:            json.RawMessage(`{"scores":{"tech":90}}`),
		RecommendedCareer: "后端工程师",
		RecommendedNiches: []string{"分布式系统", "数据库"},
	})
	require.NoError(t, err)
	assert.NotZero(t, result.ID)
	assert.Equal(t, "分布式系统,数据库", result.RecommendedNiches)
	assert.False(t, result.TakenAt.IsZero())

	// 首条结果翻转 hasCareerPath，总览缓存点名失效
	assert.Equal(t, []string{cache.OverviewKey(42)}, viewCache.invalidatedKeys())
}

func TestCreateQuizResultValidation(t *testing.T) {
	s, store, viewCache := newQuizFixture()

	_, err := s.CreateQuizResult(context.Background(), 42, QuizResultRequest{
		QuizType: "",
		Result:   json.RawMessage(`{}`),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrValidation))

	_, err = s.CreateQuizResult(context.Background(), 42, QuizResultRequest{QuizType: "career_interest"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrValidation))

	history, err := store.FindByUserID(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, viewCache.invalidatedKeys())
}

func TestQuizHistoryAppendOnly(t *testing.T) {
	s, _, _ := newQuizFixture()

	for _, career := range []string{"前端工程师", "后端工程师"} {
		_, err := s.CreateQuizResult(context.Background(), 42, QuizResultRequest{
			QuizType:          "career_interest",
			Result:            json.RawMessage(`{}`),
			RecommendedCareer: career,
		})
		require.NoError(t, err)
	}

	history, err := s.History(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// 最新的在前
	assert.Equal(t, "后端工程师", history[0].RecommendedCareer)

	latest, err := s.LatestResult(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "后端工程师", latest.RecommendedCareer)
}

func TestLatestResultNilWhenAbsent(t *testing.T) {
	s, _, _ := newQuizFixture()

	latest, err := s.LatestResult(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestHasCareerPath(t *testing.T) {
	s, _, _ := newQuizFixture()

	has, err := s.HasCareerPath(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = s.CreateQuizResult(context.Background(), 42, QuizResultRequest{
		QuizType: "career_interest",
		Result:   json.RawMessage(`{}`),
	})
	require.NoError(t, err)

	has, err = s.HasCareerPath(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, has)

	// 其他用户不受影响
	has, err = s.HasCareerPath(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, has)
}
