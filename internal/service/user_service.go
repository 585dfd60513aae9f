package service

import (
	"careeros_backend/internal/model"
	"careeros_backend/internal/repository"
	"careeros_backend/internal/util"
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserService 处理用户资料相关的业务逻辑
type UserService struct {
	UserRepo     *repository.UserRepository
	StoreTimeout time.Duration
}

func NewUserService(userRepo *repository.UserRepository, storeTimeout time.Duration) *UserService {
	return &UserService{
		UserRepo:     userRepo,
		StoreTimeout: storeTimeout,
	}
}

// ProfileUpdate 用户可自助修改的资料字段
type ProfileUpdate struct {
	Name       string `json:"name"`
	Headline   string `json:"headline"`
	CareerGoal string `json:"careerGoal"`
	Avatar     string `json:"avatar"`
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.UserRepo.FindByID(ctx, id)
}

// UpdateProfile 更新用户资料，只覆盖请求里出现的字段
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(update.Name); name != "" {
		user.Name = name
	}
	if update.Headline != "" {
		user.Headline = update.Headline
	}
	if update.CareerGoal != "" {
		user.CareerGoal = update.CareerGoal
	}
	if update.Avatar != "" {
		user.Avatar = update.Avatar
	}

	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword 校验旧密码后更新为新密码
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", util.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return util.ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashedPassword)
	return s.UserRepo.Update(ctx, user)
}

// DisableUser 管理端禁用/启用用户
func (s *UserService) DisableUser(ctx context.Context, id uint, disable bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	user.Disabled = disable
	return s.UserRepo.Update(ctx, user)
}
