package handler

import (
	"time"

	"github.com/kindred/kcf/internal/model"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 活动相关响应模型

// MediaResponse 媒体文件响应模型
type MediaResponse struct {
	ID           int64  `json:"id"`
	CampaignID   int64  `json:"campaignId"`
	URL          string `json:"url"`
	FileType     string `json:"fileType"`
	IsCover      bool   `json:"isCover"`
	DisplayOrder int    `json:"displayOrder"`
	Caption      string `json:"caption"`
}

// CampaignDetailResponse 活动详情响应模型
type CampaignDetailResponse struct {
	ID               int64           `json:"id"`
	Title            string          `json:"title"`
	ShortDescription string          `json:"shortDescription"`
	Story            string          `json:"story"`
	Category         string          `json:"category"`
	TargetAmount     float64         `json:"targetAmount"`
	CurrentAmount    float64         `json:"currentAmount"`
	BackerCount      int64           `json:"backerCount"`
	DaysLeft         int             `json:"daysLeft"`
	EndDate          time.Time       `json:"endDate"`
	OrganizerName    string          `json:"organizerName"`
	OrganizerBio     string          `json:"organizerBio"`
	IsPublic         bool            `json:"isPublic"`
	Status           string          `json:"status"`
	UserID           int64           `json:"userId"`
	CoverURL         string          `json:"coverUrl"`
	Media            []MediaResponse `json:"media"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// DonationResponse 捐款响应模型
type DonationResponse struct {
	ID          int64     `json:"id"`
	CampaignID  int64     `json:"campaignId"`
	UserID      int64     `json:"userId"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	IsAnonymous bool      `json:"isAnonymous"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PledgeResponse 认捐响应模型
type PledgeResponse struct {
	ID         int64     `json:"id"`
	CampaignID int64     `json:"campaignId"`
	UserID     int64     `json:"userId"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	PledgeDate time.Time `json:"pledgeDate"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UserResponse 用户响应模型
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse 认证响应模型
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// 转换函数

// ToMediaResponse 将媒体数据库模型转换为响应模型，文件路径换成访问地址
func ToMediaResponse(media *model.CampaignMedia, url string) MediaResponse {
	return MediaResponse{
		ID:           media.Id,
		CampaignID:   media.CampaignId,
		URL:          url,
		FileType:     string(media.FileType),
		IsCover:      media.IsCover,
		DisplayOrder: media.DisplayOrder,
		Caption:      media.Caption,
	}
}

// ToDonationResponse 将捐款数据库模型转换为响应模型
func ToDonationResponse(donation *model.Donation) DonationResponse {
	return DonationResponse{
		ID:          donation.Id,
		CampaignID:  donation.CampaignId,
		UserID:      donation.UserId,
		Amount:      donation.Amount,
		Status:      string(donation.Status),
		Message:     donation.Message,
		IsAnonymous: donation.IsAnonymous,
		CreatedAt:   donation.CreatedAt,
	}
}

// ToDonationResponseList 将捐款数据库模型列表转换为响应模型列表
func ToDonationResponseList(donations []model.Donation) []DonationResponse {
	result := make([]DonationResponse, len(donations))
	for i, donation := range donations {
		result[i] = ToDonationResponse(&donation)
	}
	return result
}

// ToPledgeResponse 将认捐数据库模型转换为响应模型
func ToPledgeResponse(pledge *model.Pledge) PledgeResponse {
	return PledgeResponse{
		ID:         pledge.Id,
		CampaignID: pledge.CampaignId,
		UserID:     pledge.UserId,
		Amount:     pledge.Amount,
		Status:     string(pledge.Status),
		Message:    pledge.Message,
		PledgeDate: pledge.PledgeDate,
		CreatedAt:  pledge.CreatedAt,
	}
}

// ToPledgeResponseList 将认捐数据库模型列表转换为响应模型列表
func ToPledgeResponseList(pledges []model.Pledge) []PledgeResponse {
	result := make([]PledgeResponse, len(pledges))
	for i, pledge := range pledges {
		result[i] = ToPledgeResponse(&pledge)
	}
	return result
}

// ToUserResponse 将用户数据库模型转换为响应模型
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.Id,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}
