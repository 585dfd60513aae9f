package model

import "time"

// Project 实战项目目录条目
type Project struct {
	BaseModel
	Title          string `gorm:"size:255;not null" json:"title"`
	Description    string `gorm:"type:text" json:"description"`
	Category       string `gorm:"size:100;index" json:"category"`
	Difficulty     string `gorm:"size:20;default:'beginner'" json:"difficulty"`
	CoverURL       string `gorm:"size:255" json:"coverUrl"`
	EstimatedHours int    `gorm:"default:0" json:"estimatedHours"`
	Published      bool   `gorm:"default:true" json:"published"`
}

func (Project) TableName() string {
	return "projects"
}

// UserProject 用户项目进度记录，生命周期与 Enrollment 相同
type UserProject struct {
	BaseModel
	UserID      uint       `gorm:"uniqueIndex:idx_user_project;type:bigint unsigned" json:"userId"`
	ProjectID   uint       `gorm:"uniqueIndex:idx_user_project;type:bigint unsigned" json:"projectId"`
	Project     Project    `gorm:"foreignKey:ProjectID" json:"project"`
	Progress    int        `gorm:"default:0" json:"progress"`
	IsCompleted bool       `gorm:"default:false" json:"isCompleted"`
	StartedAt   time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (UserProject) TableName() string {
	return "user_projects"
}
