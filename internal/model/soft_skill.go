package model

import "time"

// SoftSkill 软技能目录条目（沟通、协作、时间管理等）
type SoftSkill struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"size:255" json:"icon"`
	Published   bool   `gorm:"default:true" json:"published"`
}

func (SoftSkill) TableName() string {
	return "soft_skills"
}

// UserSoftSkill 用户软技能修炼记录
type UserSoftSkill struct {
	BaseModel
	UserID      uint       `gorm:"uniqueIndex:idx_user_skill;type:bigint unsigned" json:"userId"`
	SoftSkillID uint       `gorm:"uniqueIndex:idx_user_skill;type:bigint unsigned" json:"softSkillId"`
	SoftSkill   SoftSkill  `gorm:"foreignKey:SoftSkillID" json:"softSkill"`
	Progress    int        `gorm:"default:0" json:"progress"`
	IsCompleted bool       `gorm:"default:false" json:"isCompleted"`
	StartedAt   time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (UserSoftSkill) TableName() string {
	return "user_soft_skills"
}
