package util

import "errors"

var (
	ErrNotFound        = errors.New("record not found or not owned by user")
	ErrValidation      = errors.New("invalid or incomplete payload")
	ErrAlreadyEnrolled = errors.New("已加入该课程/项目/技能")
	ErrUserNotFound    = errors.New("用户不存在")
	ErrEmailRegistered = errors.New("该邮箱已被注册")
	ErrWrongPassword   = errors.New("邮箱或密码错误")
	ErrAccountDisabled = errors.New("账号已被禁用")
)
