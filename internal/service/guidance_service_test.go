package service

import (
	"careeros_backend/internal/config"
	"careeros_backend/internal/model"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuidanceFixture(aiCfg config.AIConfig) (*GuidanceService, *dashboardFixture) {
	df := newDashboardFixture()
	return NewGuidanceService(aiCfg, df.service, df.quiz), df
}

func aiResponse(content string) string {
	resp := chatCompletionResponse{}
	resp.Choices = append(resp.Choices, struct {
		Message chatMessage `json:"message"`
	}{Message: chatMessage{Role: "assistant", Content: content}})
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestGetGuidanceFromAI(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deepseek-chat", req.Model)
		require.Len(t, req.Messages, 2)

		w.Write([]byte(aiResponse(`{"recommendedCareer":"后端工程师","niches":["分布式系统"],"advice":["多写项目"],"nextSteps":["完成课程"]}`)))
	}))
	defer server.Close()

	s, _ := newGuidanceFixture(config.AIConfig{
		Model:   "deepseek-chat",
		BaseURL: server.URL,
		APIKey:  "test-key",
	})

	guidance, err := s.GetGuidance(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "ai", guidance.Source)
	assert.Equal(t, "后端工程师", guidance.RecommendedCareer)
	assert.Equal(t, []string{"分布式系统"}, guidance.Niches)
}

// 模型把 JSON 包在 Markdown 代码块里也能解析
func TestGetGuidanceStripsCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(aiResponse("```json\n{\"recommendedCareer\":\"前端工程师\",\"advice\":[\"继续\"]}\n```")))
	}))
	defer server.Close()

	s, _ := newGuidanceFixture(config.AIConfig{Model: "deepseek-chat", BaseURL: server.URL})

	guidance, err := s.GetGuidance(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "ai", guidance.Source)
	assert.Equal(t, "前端工程师", guidance.RecommendedCareer)
}

func TestGetGuidanceFallsBackOnAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	s, _ := newGuidanceFixture(config.AIConfig{Model: "deepseek-chat", BaseURL: server.URL})

	guidance, err := s.GetGuidance(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "fallback", guidance.Source)
	assert.NotEmpty(t, guidance.RecommendedCareer)
	assert.NotEmpty(t, guidance.Advice)
}

func TestGetGuidanceFallsBackOnBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(aiResponse("抱歉，我不能输出 JSON。")))
	}))
	defer server.Close()

	s, _ := newGuidanceFixture(config.AIConfig{Model: "deepseek-chat", BaseURL: server.URL})

	guidance, err := s.GetGuidance(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "fallback", guidance.Source)
}

func TestGetGuidanceFallsBackWhenUnreachable(t *testing.T) {
	// 无人监听的地址
	s, _ := newGuidanceFixture(config.AIConfig{Model: "deepseek-chat", BaseURL: "http://127.0.0.1:1"})

	guidance, err := s.GetGuidance(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "fallback", guidance.Source)
}

// 统计读不到时指导不降级，错误原样向上
func TestGetGuidanceFailsWhenStatsUnavailable(t *testing.T) {
	s, df := newGuidanceFixture(config.AIConfig{Model: "deepseek-chat", BaseURL: "http://127.0.0.1:1"})
	df.enrollments.failAll = true

	guidance, err := s.GetGuidance(context.Background(), 42)
	assert.Nil(t, guidance)
	require.Error(t, err)
}

func TestFallbackGuidanceTiers(t *testing.T) {
	early := fallbackGuidance(DashboardStats{OverallProgress: 10})
	assert.Contains(t, early.NextSteps[0], "测评")

	middle := fallbackGuidance(DashboardStats{OverallProgress: 50})
	assert.Contains(t, middle.NextSteps[0], "项目")

	late := fallbackGuidance(DashboardStats{OverallProgress: 90})
	assert.Contains(t, late.Advice[0], "作品集")

	for _, g := range []*CareerGuidance{early, middle, late} {
		assert.Equal(t, "fallback", g.Source)
		assert.NotEmpty(t, g.RecommendedCareer)
	}
}

func TestSetConfigHotSwap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deepseek-reasoner", req.Model)
		w.Write([]byte(aiResponse(`{"recommendedCareer":"数据工程师"}`)))
	}))
	defer server.Close()

	s, _ := newGuidanceFixture(config.AIConfig{Model: "deepseek-chat", BaseURL: "http://127.0.0.1:1"})
	s.SetConfig(config.AIConfig{Model: "deepseek-reasoner", BaseURL: server.URL})

	guidance, err := s.GetGuidance(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "ai", guidance.Source)
	assert.Equal(t, "数据工程师", guidance.RecommendedCareer)
}

func TestGuidancePromptIncludesQuizFlag(t *testing.T) {
	var sawPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		sawPrompt = req.Messages[1].Content
		w.Write([]byte(aiResponse(`{"recommendedCareer":"后端工程师"}`)))
	}))
	defer server.Close()

	s, df := newGuidanceFixture(config.AIConfig{Model: "deepseek-chat", BaseURL: server.URL})
	require.NoError(t, df.quiz.Create(context.Background(), &model.QuizResult{UserID: 42, QuizType: "career_interest", TakenAt: time.Now()}))

	_, err := s.GetGuidance(context.Background(), 42)
	require.NoError(t, err)
	assert.Contains(t, sawPrompt, "是否做过职业测评：true")
}
