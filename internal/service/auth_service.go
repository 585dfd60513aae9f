package service

import (
	"careeros_backend/internal/config"
	"careeros_backend/internal/model"
	"careeros_backend/internal/repository"
	"careeros_backend/internal/util"
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo     *repository.UserRepository
	Cfg          *config.Config
	StoreTimeout time.Duration
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:     userRepo,
		Cfg:          cfg,
		StoreTimeout: cfg.Server.StoreTimeout(),
	}
}

func (s *AuthService) Register(ctx context.Context, user *model.User) error {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	_, err := s.UserRepo.FindByEmail(ctx, user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	if user.Role == "" {
		user.Role = model.Student
	}
	return s.UserRepo.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, util.ErrWrongPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrWrongPassword
	}

	if user.Disabled {
		return "", nil, util.ErrAccountDisabled
	}

	if err := s.UserRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		return "", nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(c.Request.Context(), claims.UserID)
	return user
}
