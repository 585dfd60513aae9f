package service

import (
	"careeros_backend/internal/model"
	"careeros_backend/internal/repository"
	"careeros_backend/internal/util"
	"context"
	"fmt"
	"time"
)

// CatalogService 课程/项目/软技能目录，以及"开始学习"入口。
// 开始一项学习即在对应实体存储里创建一条进度记录。
type CatalogService struct {
	CourseRepo   *repository.CourseRepository
	ProjectRepo  *repository.ProjectRepository
	SkillRepo    *repository.SoftSkillRepository
	Enrollments  *repository.EnrollmentRepository
	UserProjects *repository.UserProjectRepository
	UserSkills   *repository.UserSoftSkillRepository
	Achievements *repository.AchievementRepository
	StoreTimeout time.Duration
}

func NewCatalogService(
	courseRepo *repository.CourseRepository,
	projectRepo *repository.ProjectRepository,
	skillRepo *repository.SoftSkillRepository,
	enrollments *repository.EnrollmentRepository,
	userProjects *repository.UserProjectRepository,
	userSkills *repository.UserSoftSkillRepository,
	achievements *repository.AchievementRepository,
	storeTimeout time.Duration,
) *CatalogService {
	return &CatalogService{
		CourseRepo:   courseRepo,
		ProjectRepo:  projectRepo,
		SkillRepo:    skillRepo,
		Enrollments:  enrollments,
		UserProjects: userProjects,
		UserSkills:   userSkills,
		Achievements: achievements,
		StoreTimeout: storeTimeout,
	}
}

func (s *CatalogService) ListCourses(ctx context.Context, category string) ([]model.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.CourseRepo.FindPublished(ctx, category)
}

func (s *CatalogService) GetCourse(ctx context.Context, id uint) (*model.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.CourseRepo.FindByID(ctx, id)
}

// Enroll 报名课程。同一用户同一课程只允许一条选课记录。
func (s *CatalogService) Enroll(ctx context.Context, userID, courseID uint) (*model.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		return nil, err
	}

	exists, err := s.Enrollments.ExistsByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: course %d", util.ErrAlreadyEnrolled, courseID)
	}

	enrollment := &model.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	if err := s.Enrollments.Create(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *CatalogService) ListProjects(ctx context.Context, category string) ([]model.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.ProjectRepo.FindPublished(ctx, category)
}

func (s *CatalogService) StartProject(ctx context.Context, userID, projectID uint) (*model.UserProject, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	if _, err := s.ProjectRepo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}

	exists, err := s.UserProjects.ExistsByUserAndProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: project %d", util.ErrAlreadyEnrolled, projectID)
	}

	userProject := &model.UserProject{
		UserID:    userID,
		ProjectID: projectID,
		StartedAt: time.Now(),
	}
	if err := s.UserProjects.Create(ctx, userProject); err != nil {
		return nil, err
	}
	return userProject, nil
}

func (s *CatalogService) ListSoftSkills(ctx context.Context) ([]model.SoftSkill, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.SkillRepo.FindPublished(ctx)
}

func (s *CatalogService) StartSoftSkill(ctx context.Context, userID, skillID uint) (*model.UserSoftSkill, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	if _, err := s.SkillRepo.FindByID(ctx, skillID); err != nil {
		return nil, err
	}

	exists, err := s.UserSkills.ExistsByUserAndSkill(ctx, userID, skillID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: skill %d", util.ErrAlreadyEnrolled, skillID)
	}

	userSkill := &model.UserSoftSkill{
		UserID:      userID,
		SoftSkillID: skillID,
		StartedAt:   time.Now(),
	}
	if err := s.UserSkills.Create(ctx, userSkill); err != nil {
		return nil, err
	}
	return userSkill, nil
}

func (s *CatalogService) ListAchievements(ctx context.Context) ([]model.Achievement, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.Achievements.FindAll(ctx)
}

// CreateCourse 管理端新建课程
func (s *CatalogService) CreateCourse(ctx context.Context, course *model.Course) error {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.CourseRepo.Create(ctx, course)
}

func (s *CatalogService) UpdateCourse(ctx context.Context, course *model.Course) error {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.CourseRepo.Update(ctx, course)
}

func (s *CatalogService) CreateProject(ctx context.Context, project *model.Project) error {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.ProjectRepo.Create(ctx, project)
}
