package model

import (
	"time"
)

// Pledge 认捐记录模型，认捐不计入活动筹款总额
type Pledge struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	CampaignId int64 `json:"campaign_id" gorm:"index;not null"`
	UserId     int64 `json:"user_id" gorm:"index;not null"`

	// 认捐信息
	Amount  float64      `json:"amount" gorm:"not null"`
	Status  PledgeStatus `json:"status" gorm:"default:'pending'"`
	Message string       `json:"message"`

	// 提醒日期，到期后发送捐赠提醒
	PledgeDate   time.Time `json:"pledge_date" gorm:"not null"`
	ReminderSent bool      `json:"reminder_sent" gorm:"default:false"`
}

// PledgeStatus 认捐状态
type PledgeStatus string

const (
	PledgeStatusPending   PledgeStatus = "pending"   // 待处理
	PledgeStatusFulfilled PledgeStatus = "fulfilled" // 已兑现
	PledgeStatusExpired   PledgeStatus = "expired"   // 已过期
)

// TableName 自定义表名
func (Pledge) TableName() string {
	return "pledge"
}
