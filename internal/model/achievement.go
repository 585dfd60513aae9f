package model

import "time"

// Achievement 成就定义（徽章目录）
type Achievement struct {
	BaseModel
	Code        string `gorm:"size:50;unique;not null" json:"code"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Icon        string `gorm:"size:255" json:"icon"`
	XPReward    int    `gorm:"default:0" json:"xpReward"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement 已颁发的成就，创建后不可变，只追加
type UserAchievement struct {
	BaseModel
	UserID        uint        `gorm:"uniqueIndex:idx_user_achievement;type:bigint unsigned" json:"userId"`
	AchievementID uint        `gorm:"uniqueIndex:idx_user_achievement;type:bigint unsigned" json:"achievementId"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID" json:"achievement"`
	AwardedAt     time.Time   `gorm:"default:CURRENT_TIMESTAMP(3)" json:"awardedAt"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
