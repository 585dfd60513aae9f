package service

import (
	"bytes"
	"careeros_backend/internal/config"
	"careeros_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// GuidanceService AI 职业指导。三级降级链：
// 调用外部大模型 → 解析回复中的结构化 JSON → 任一环节失败退回静态建议。
// 指导内容永远可用，降级不视为错误。
type GuidanceService struct {
	mu        sync.RWMutex
	config    config.AIConfig
	Dashboard *DashboardService
	QuizStore QuizResultStore
	client    *http.Client
}

func NewGuidanceService(cfg config.AIConfig, dashboard *DashboardService, quizStore QuizResultStore) *GuidanceService {
	return &GuidanceService{
		config:    cfg,
		Dashboard: dashboard,
		QuizStore: quizStore,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetConfig 热更新 AI 接入配置，配置文件变更时由配置监听器调用
func (s *GuidanceService) SetConfig(cfg config.AIConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

func (s *GuidanceService) aiConfig() config.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

type CareerGuidance struct {
	RecommendedCareer string   `json:"recommendedCareer"`
	Niches            []string `json:"niches"`
	Advice            []string `json:"advice"`
	NextSteps         []string `json:"nextSteps"`
	Source            string   `json:"source"` // ai | fallback
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GetGuidance 基于用户当前学习统计生成职业指导
func (s *GuidanceService) GetGuidance(ctx context.Context, userID uint) (*CareerGuidance, error) {
	overview, err := s.Dashboard.Overview(ctx, userID)
	if err != nil {
		// 统计读不到时指导无从谈起，这里不降级
		return nil, err
	}

	latest, err := s.QuizStore.FindLatestByUserID(ctx, userID)
	if err != nil {
		logger.Log.Warn("quiz lookup for guidance failed", zap.Uint("userID", userID), zap.Error(err))
	}

	guidance, err := s.requestGuidance(ctx, overview.Stats, latest != nil)
	if err != nil {
		logger.Log.Warn("AI guidance failed, serving fallback",
			zap.Uint("userID", userID), zap.Error(err))
		return fallbackGuidance(overview.Stats), nil
	}
	guidance.Source = "ai"
	return guidance, nil
}

func (s *GuidanceService) requestGuidance(ctx context.Context, stats DashboardStats, hasQuiz bool) (*CareerGuidance, error) {
	cfg := s.aiConfig()

	prompt := fmt.Sprintf(
		"学习者数据：完成课程 %d 门，完成项目 %d 个，掌握软技能 %d 项，整体进度 %d%%，是否做过职业测评：%t。\n"+
			"请给出职业发展建议，严格按以下 JSON 输出，不要输出其他内容：\n"+
			`{"recommendedCareer":"...","niches":["..."],"advice":["..."],"nextSteps":["..."]}`,
		stats.CompletedCourses, stats.CompletedProjects, stats.MasteredSkills,
		stats.OverallProgress, hasQuiz,
	)

	reqBody := chatCompletionRequest{
		Model: cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "你是一名职业发展顾问，只输出 JSON。"},
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("AI returned no choices")
	}

	return parseGuidance(result.Choices[0].Message.Content)
}

// parseGuidance 从模型回复里提取结构化 JSON。
// 模型偶尔会包一层 Markdown 代码块，先剥掉再解析。
func parseGuidance(content string) (*CareerGuidance, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var guidance CareerGuidance
	if err := json.Unmarshal([]byte(content), &guidance); err != nil {
		return nil, fmt.Errorf("parse AI guidance: %w", err)
	}
	if guidance.RecommendedCareer == "" {
		return nil, fmt.Errorf("AI guidance missing recommendedCareer")
	}
	return &guidance, nil
}

// fallbackGuidance 静态兜底建议，按进度阶段给出
func fallbackGuidance(stats DashboardStats) *CareerGuidance {
	guidance := &CareerGuidance{
		RecommendedCareer: "软件开发工程师",
		Niches:            []string{"Web 开发", "后端开发"},
		Source:            "fallback",
	}

	switch {
	case stats.OverallProgress >= 70:
		guidance.Advice = []string{"你的学习进度已接近完成，开始整理作品集", "针对目标岗位准备面试"}
		guidance.NextSteps = []string{"完善项目文档与演示", "参与社区分享学习心得"}
	case stats.OverallProgress >= 30:
		guidance.Advice = []string{"保持当前节奏，优先完成进行中的课程和项目", "开始有意识地积累项目经验"}
		guidance.NextSteps = []string{"完成一个端到端的实战项目", "补齐一项软技能"}
	default:
		guidance.Advice = []string{"先完成职业测评，明确方向", "从一门基础课程开始建立习惯"}
		guidance.NextSteps = []string{"完成职业兴趣测评", "报名第一门课程"}
	}

	return guidance
}
