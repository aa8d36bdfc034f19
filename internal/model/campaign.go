package model

import (
	"time"
)

// Campaign 众筹活动模型
type Campaign struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title            string `json:"title" gorm:"not null" binding:"required"`
	ShortDescription string `json:"short_description" gorm:"type:varchar(200)"`
	Story            string `json:"story" gorm:"type:text"`
	Category         string `json:"category"`

	// 筹款信息
	TargetAmount  float64 `json:"target_amount" gorm:"not null"`
	CurrentAmount float64 `json:"current_amount" gorm:"default:0"`
	BackerCount   int64   `json:"backer_count" gorm:"default:0"`

	// 时间信息
	EndDate time.Time `json:"end_date" gorm:"not null"`

	// 发起人信息
	OrganizerName string `json:"organizer_name" gorm:"not null"`
	OrganizerBio  string `json:"organizer_bio"`

	// 状态
	IsPublic bool           `json:"is_public" gorm:"default:true"`
	Status   CampaignStatus `json:"status" gorm:"default:'draft'"`

	// 归属用户
	UserId int64 `json:"user_id" gorm:"index;not null"`

	// 关联
	Media []CampaignMedia `json:"media,omitempty" gorm:"foreignKey:CampaignId"`
}

// CampaignStatus 活动状态
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"     // 草稿
	CampaignStatusActive    CampaignStatus = "active"    // 进行中
	CampaignStatusCompleted CampaignStatus = "completed" // 已结束
)

// TableName 自定义表名
func (Campaign) TableName() string {
	return "campaign"
}
