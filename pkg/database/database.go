package database

import (
	"careeros_backend/internal/config"
	"careeros_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	logLevel := logger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认跳过迁移，通过 --migrate 显式触发
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := migrate(db); err != nil {
			return nil, err
		}
		seedDefaults(db)
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Enrollment{},
		&model.Project{},
		&model.UserProject{},
		&model.SoftSkill{},
		&model.UserSoftSkill{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.QuizResult{},
		&model.Community{},
		&model.Post{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}

// seedDefaults 首次启动时写入里程碑成就和默认社区，
// 完成事件依赖这些成就代码存在。
func seedDefaults(db *gorm.DB) {
	var achievementCount int64
	db.Model(&model.Achievement{}).Count(&achievementCount)
	if achievementCount == 0 {
		defaults := []model.Achievement{
			{
				Code:        "first_course_completed",
				Name:        "第一门课程",
				Description: "完成你的第一门课程",
				XPReward:    50,
			},
			{
				Code:        "first_project_completed",
				Name:        "第一个项目",
				Description: "完成你的第一个实战项目",
				XPReward:    80,
			},
			{
				Code:        "first_skill_mastered",
				Name:        "软实力觉醒",
				Description: "掌握你的第一项软技能",
				XPReward:    30,
			},
		}
		for i := range defaults {
			db.Create(&defaults[i])
		}
	}

	var communityCount int64
	db.Model(&model.Community{}).Count(&communityCount)
	if communityCount == 0 {
		defaults := []model.Community{
			{Name: "前端开发", Description: "Web 前端学习者社区"},
			{Name: "后端开发", Description: "服务端技术交流"},
			{Name: "职业发展", Description: "求职、面试与职业规划讨论"},
		}
		for i := range defaults {
			db.Create(&defaults[i])
		}
	}
}
