package logic

import (
	"errors"
	"fmt"

	"github.com/kindred/kcf/internal/repository"
)

var (
	// ErrNotFound 目标记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrUnauthorized 当前用户无权执行该操作
	ErrUnauthorized = errors.New("无权执行此操作")
	// ErrInvalidCredentials 登录凭证错误
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
)

// ValidationError 字段级校验错误，阻止提交
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ProviderError 底层数据提供方错误，携带失败的操作名
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s失败: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// wrapProvider 将仓储层错误归入错误分类
func wrapProvider(op string, err error) error {
	if errors.Is(err, repository.ErrRecordNotFound) {
		return ErrNotFound
	}
	return &ProviderError{Op: op, Err: err}
}
