package model

import (
	"time"
)

// User 用户模型
type User struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string `json:"name" gorm:"not null"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	AvatarURL    string `json:"avatar_url"`
}

// TableName 自定义表名
func (User) TableName() string {
	return "user"
}
