package model

import (
	"time"
)

// CampaignMedia 活动媒体文件模型
type CampaignMedia struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	// 归属活动
	CampaignId int64 `json:"campaign_id" gorm:"index;not null"`

	// 文件信息
	FilePath string    `json:"file_path" gorm:"not null"`
	FileType MediaType `json:"file_type" gorm:"default:'image'"`

	// 展示信息，每个活动至多一个封面
	IsCover      bool   `json:"is_cover" gorm:"default:false"`
	DisplayOrder int    `json:"display_order" gorm:"default:0"`
	Caption      string `json:"caption"`
}

// MediaType 媒体类型
type MediaType string

const (
	MediaTypeImage MediaType = "image" // 图片
	MediaTypeVideo MediaType = "video" // 视频
)

// TableName 自定义表名
func (CampaignMedia) TableName() string {
	return "campaign_media"
}
