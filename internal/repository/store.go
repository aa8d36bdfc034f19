package repository

import (
	"errors"
	"time"

	"github.com/kindred/kcf/internal/model"
)

// ErrRecordNotFound 仓储层未找到记录
var ErrRecordNotFound = errors.New("record not found")

// Store 数据提供方入口，按集合划分仓储并提供事务支持。
// 业务逻辑只依赖该接口，生产环境使用 gorm 实现，测试使用内存实现。
type Store interface {
	Campaigns() CampaignRepository
	Media() MediaRepository
	Donations() DonationRepository
	Pledges() PledgeRepository
	Users() UserRepository

	// Transaction 在单个事务中执行 fn，fn 返回错误时整体回滚
	Transaction(fn func(Store) error) error
}

// CampaignRepository 活动仓储
type CampaignRepository interface {
	Create(campaign *model.Campaign) error
	Update(id int64, updates map[string]interface{}) error
	Delete(id int64) error
	FindById(id int64) (*model.Campaign, error)

	// FindActive 公开且进行中的活动，按创建时间倒序，附带媒体
	FindActive() ([]model.Campaign, error)
	FindActiveByCategory(category string) ([]model.Campaign, error)
	// SearchActive 在标题、简介、故事中做大小写无关的子串匹配
	SearchActive(term string) ([]model.Campaign, error)
	// FindByOwner 某用户的全部活动，不限状态和可见性
	FindByOwner(userId int64) ([]model.Campaign, error)
	// FindActiveEnded 已过截止时间但仍为进行中的活动
	FindActiveEnded(before time.Time) ([]model.Campaign, error)

	// AddDonation 累加活动筹款总额并将支持者数加一
	AddDonation(id int64, amount float64) error
}

// MediaRepository 活动媒体仓储
type MediaRepository interface {
	Create(media *model.CampaignMedia) error
	Delete(id int64) error
	DeleteByCampaign(campaignId int64) error
	FindById(id int64) (*model.CampaignMedia, error)
	// FindByCampaign 按展示顺序返回活动的全部媒体
	FindByCampaign(campaignId int64) ([]model.CampaignMedia, error)
	// SetCover 将指定媒体设为封面，同一活动的其他媒体取消封面标记
	SetCover(campaignId, mediaId int64) error
}

// DonationRepository 捐赠仓储
type DonationRepository interface {
	Create(donation *model.Donation) error
	FindByUser(userId int64) ([]model.Donation, error)
	FindByCampaign(campaignId int64) ([]model.Donation, error)
}

// PledgeRepository 认捐仓储
type PledgeRepository interface {
	Create(pledge *model.Pledge) error
	Update(id int64, updates map[string]interface{}) error
	Delete(id int64) error
	FindById(id int64) (*model.Pledge, error)
	FindByUser(userId int64) ([]model.Pledge, error)
	// FindPendingDue 提醒日期已到且尚未发送提醒的待处理认捐
	FindPendingDue(before time.Time) ([]model.Pledge, error)
}

// UserRepository 用户仓储
type UserRepository interface {
	Create(user *model.User) error
	FindById(id int64) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
}
