// 手动导入学习目录脚本
//
// 从 YAML 文件批量导入课程、项目和软技能目录。
// 用于首次部署或运营批量上新，日常单条维护走管理端接口。
//
// 用法: go run scripts/seed_catalog.go catalog.yaml

package main

import (
	"careeros_backend/internal/config"
	"careeros_backend/internal/model"
	"careeros_backend/pkg/database"
	"careeros_backend/pkg/logger"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Courses []struct {
		Title         string `yaml:"title"`
		Description   string `yaml:"description"`
		Category      string `yaml:"category"`
		Difficulty    string `yaml:"difficulty"`
		DurationHours int    `yaml:"duration_hours"`
	} `yaml:"courses"`
	Projects []struct {
		Title          string `yaml:"title"`
		Description    string `yaml:"description"`
		Category       string `yaml:"category"`
		Difficulty     string `yaml:"difficulty"`
		EstimatedHours int    `yaml:"estimated_hours"`
	} `yaml:"projects"`
	SoftSkills []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"soft_skills"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("用法: go run scripts/seed_catalog.go <catalog.yaml>")
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("无法读取目录文件: %v", err)
	}

	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		log.Fatalf("解析目录文件失败: %v", err)
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	imported := 0
	for _, c := range catalog.Courses {
		course := model.Course{
			Title:         c.Title,
			Description:   c.Description,
			Category:      c.Category,
			Difficulty:    c.Difficulty,
			DurationHours: c.DurationHours,
			Published:     true,
		}
		if err := db.Where("title = ?", c.Title).FirstOrCreate(&course).Error; err != nil {
			log.Printf("课程 %q 导入失败: %v", c.Title, err)
			continue
		}
		imported++
	}

	for _, p := range catalog.Projects {
		project := model.Project{
			Title:          p.Title,
			Description:    p.Description,
			Category:       p.Category,
			Difficulty:     p.Difficulty,
			EstimatedHours: p.EstimatedHours,
			Published:      true,
		}
		if err := db.Where("title = ?", p.Title).FirstOrCreate(&project).Error; err != nil {
			log.Printf("项目 %q 导入失败: %v", p.Title, err)
			continue
		}
		imported++
	}

	for _, s := range catalog.SoftSkills {
		skill := model.SoftSkill{
			Name:        s.Name,
			Description: s.Description,
			Published:   true,
		}
		if err := db.Where("name = ?", s.Name).FirstOrCreate(&skill).Error; err != nil {
			log.Printf("软技能 %q 导入失败: %v", s.Name, err)
			continue
		}
		imported++
	}

	log.Printf("完成，共导入 %d 条目录条目", imported)
}
