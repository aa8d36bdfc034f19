package logic

import (
	"testing"
	"time"

	"github.com/kindred/kcf/internal/auth"
	"github.com/kindred/kcf/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newUserLogic() *UserLogic {
	return NewUserLogic(repository.NewMemoryStore(), testSecret, time.Hour)
}

func TestRegister(t *testing.T) {
	l := newUserLogic()

	user, token, err := l.Register("张伟", "zhangwei@example.com", "password123")
	require.NoError(t, err)
	assert.NotZero(t, user.Id)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEmpty(t, token)

	// 令牌可解析且指向该用户
	claims, err := auth.ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, user.Id, claims.UserId)
}

func TestRegisterValidation(t *testing.T) {
	l := newUserLogic()

	var validationError *ValidationError
	_, _, err := l.Register("张", "zhangwei@example.com", "password123")
	assert.ErrorAs(t, err, &validationError)

	_, _, err = l.Register("张伟", "not-an-email", "password123")
	assert.ErrorAs(t, err, &validationError)

	_, _, err = l.Register("张伟", "zhangwei@example.com", "short")
	assert.ErrorAs(t, err, &validationError)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	l := newUserLogic()

	_, _, err := l.Register("张伟", "zhangwei@example.com", "password123")
	require.NoError(t, err)

	// 邮箱大小写不敏感
	var validationError *ValidationError
	_, _, err = l.Register("李四", "ZhangWei@Example.com", "password456")
	assert.ErrorAs(t, err, &validationError)
}

func TestLogin(t *testing.T) {
	l := newUserLogic()

	registered, _, err := l.Register("张伟", "zhangwei@example.com", "password123")
	require.NoError(t, err)

	user, token, err := l.Login("zhangwei@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.Id, user.Id)
	assert.NotEmpty(t, token)

	_, _, err = l.Login("zhangwei@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// 未注册邮箱与密码错误返回同一错误
	_, _, err = l.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUser(t *testing.T) {
	l := newUserLogic()

	registered, _, err := l.Register("张伟", "zhangwei@example.com", "password123")
	require.NoError(t, err)

	user, err := l.GetUser(registered.Id)
	require.NoError(t, err)
	assert.Equal(t, "张伟", user.Name)

	_, err = l.GetUser(999)
	assert.ErrorIs(t, err, ErrNotFound)
}
