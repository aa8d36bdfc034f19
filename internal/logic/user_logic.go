package logic

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kindred/kcf/internal/auth"
	"github.com/kindred/kcf/internal/model"
	"github.com/kindred/kcf/internal/repository"
)

// UserLogic 用户及认证业务逻辑
type UserLogic struct {
	store     repository.Store
	jwtSecret string
	tokenTTL  time.Duration
}

// NewUserLogic 创建用户业务逻辑
func NewUserLogic(store repository.Store, jwtSecret string, tokenTTL time.Duration) *UserLogic {
	return &UserLogic{store: store, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register 注册新用户并签发令牌
func (l *UserLogic) Register(name, email, password string) (*model.User, string, error) {
	if utf8.RuneCountInString(name) < 2 {
		return nil, "", validationErr("name", "姓名不能少于2个字符")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, "", validationErr("email", "邮箱格式不正确")
	}
	if len(password) < 8 {
		return nil, "", validationErr("password", "密码不能少于8个字符")
	}

	if _, err := l.store.Users().FindByEmail(email); err == nil {
		return nil, "", validationErr("email", "该邮箱已被注册")
	} else if !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, "", wrapProvider("查询用户", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", wrapProvider("加密密码", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := l.store.Users().Create(user); err != nil {
		return nil, "", wrapProvider("创建用户", err)
	}

	token, err := auth.GenerateToken(l.jwtSecret, user.Id, l.tokenTTL)
	if err != nil {
		return nil, "", wrapProvider("签发令牌", err)
	}
	return user, token, nil
}

// Login 校验邮箱密码并签发令牌
func (l *UserLogic) Login(email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := l.store.Users().FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", wrapProvider("查询用户", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(l.jwtSecret, user.Id, l.tokenTTL)
	if err != nil {
		return nil, "", wrapProvider("签发令牌", err)
	}
	return user, token, nil
}

// GetUser 获取用户信息
func (l *UserLogic) GetUser(id int64) (*model.User, error) {
	user, err := l.store.Users().FindById(id)
	if err != nil {
		return nil, wrapProvider("获取用户", err)
	}
	return user, nil
}
