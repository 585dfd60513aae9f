package model

import (
	"encoding/json"
	"time"
)

// QuizResult 职业测评结果，只写一次。
// 存在至少一条记录即认为用户已生成职业路径。
type QuizResult struct {
	BaseModel
	UserID            uint            `gorm:"index;type:bigint unsigned" json:"userId"`
	QuizType          string          `gorm:"size:50;not null" json:"quizType"`
	Result            json.RawMessage `gorm:"type:json" json:"result"` // 原始答卷，后端不解释
	RecommendedCareer string          `gorm:"size:100" json:"recommendedCareer"`
	RecommendedNiches string          `gorm:"size:255" json:"recommendedNiches"` // 逗号分隔
	TakenAt           time.Time       `gorm:"default:CURRENT_TIMESTAMP(3)" json:"takenAt"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
