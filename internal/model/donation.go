package model

import (
	"time"
)

// Donation 捐赠记录模型
type Donation struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	CampaignId int64 `json:"campaign_id" gorm:"index;not null"`
	UserId     int64 `json:"user_id" gorm:"index;not null"`

	// 捐赠信息
	Amount      float64        `json:"amount" gorm:"not null"`
	Status      DonationStatus `json:"status" gorm:"default:'completed'"`
	Message     string         `json:"message"`
	IsAnonymous bool           `json:"is_anonymous" gorm:"default:false"`
}

// DonationStatus 捐赠状态
type DonationStatus string

const (
	DonationStatusCompleted  DonationStatus = "completed"  // 已完成
	DonationStatusProcessing DonationStatus = "processing" // 处理中
	DonationStatusFailed     DonationStatus = "failed"     // 失败
)

// TableName 自定义表名
func (Donation) TableName() string {
	return "donation"
}
