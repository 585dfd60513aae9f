package model

import "time"

// Course 课程目录条目，由管理员维护
type Course struct {
	BaseModel
	Title         string `gorm:"size:255;not null" json:"title"`
	Description   string `gorm:"type:text" json:"description"`
	Category      string `gorm:"size:100;index" json:"category"`
	Difficulty    string `gorm:"size:20;default:'beginner'" json:"difficulty"`
	CoverURL      string `gorm:"size:255" json:"coverUrl"`
	IntroVideoURL string `gorm:"size:255" json:"introVideoUrl"`
	ThumbnailURL  string `gorm:"size:255" json:"thumbnailUrl"`
	DurationHours int    `gorm:"default:0" json:"durationHours"`
	Published     bool   `gorm:"default:true" json:"published"`
}

func (Course) TableName() string {
	return "courses"
}

// Enrollment 用户选课记录。只追加：进度只增不减，完成后不可回退。
// 同一用户对同一课程只允许一条记录。
type Enrollment struct {
	BaseModel
	UserID      uint       `gorm:"uniqueIndex:idx_user_course;type:bigint unsigned" json:"userId"`
	CourseID    uint       `gorm:"uniqueIndex:idx_user_course;type:bigint unsigned" json:"courseId"`
	Course      Course     `gorm:"foreignKey:CourseID" json:"course"`
	Progress    int        `gorm:"default:0" json:"progress"` // 0-100
	IsCompleted bool       `gorm:"default:false" json:"isCompleted"`
	EnrolledAt  time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"enrolledAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
