package repository

import (
	"errors"
	"time"

	"github.com/kindred/kcf/internal/model"
	"gorm.io/gorm"
)

// gormStore Store 的 gorm 实现
type gormStore struct {
	db *gorm.DB
}

// NewStore 基于 gorm 连接创建数据提供方
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Campaigns() CampaignRepository { return &gormCampaignRepo{db: s.db} }
func (s *gormStore) Media() MediaRepository        { return &gormMediaRepo{db: s.db} }
func (s *gormStore) Donations() DonationRepository { return &gormDonationRepo{db: s.db} }
func (s *gormStore) Pledges() PledgeRepository     { return &gormPledgeRepo{db: s.db} }
func (s *gormStore) Users() UserRepository         { return &gormUserRepo{db: s.db} }

func (s *gormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// translateErr 将 gorm 的未找到错误转换为仓储层错误
func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}

// 活动仓储

type gormCampaignRepo struct {
	db *gorm.DB
}

func (r *gormCampaignRepo) Create(campaign *model.Campaign) error {
	return r.db.Create(campaign).Error
}

func (r *gormCampaignRepo) Update(id int64, updates map[string]interface{}) error {
	result := r.db.Model(&model.Campaign{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *gormCampaignRepo) Delete(id int64) error {
	result := r.db.Delete(&model.Campaign{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *gormCampaignRepo) FindById(id int64) (*model.Campaign, error) {
	var campaign model.Campaign
	err := r.db.Preload("Media", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC")
	}).First(&campaign, id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &campaign, nil
}

// activeScope 公开且进行中的活动
func activeScope(db *gorm.DB) *gorm.DB {
	return db.Where("is_public = ? AND status = ?", true, model.CampaignStatusActive)
}

func (r *gormCampaignRepo) findWithMedia(scope func(*gorm.DB) *gorm.DB) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := scope(r.db.Preload("Media", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC")
	})).Order("created_at DESC").Find(&campaigns).Error
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *gormCampaignRepo) FindActive() ([]model.Campaign, error) {
	return r.findWithMedia(activeScope)
}

func (r *gormCampaignRepo) FindActiveByCategory(category string) ([]model.Campaign, error) {
	return r.findWithMedia(func(db *gorm.DB) *gorm.DB {
		return activeScope(db).Where("category = ?", category)
	})
}

func (r *gormCampaignRepo) SearchActive(term string) ([]model.Campaign, error) {
	pattern := "%" + term + "%"
	return r.findWithMedia(func(db *gorm.DB) *gorm.DB {
		return activeScope(db).
			Where("title ILIKE ? OR short_description ILIKE ? OR story ILIKE ?", pattern, pattern, pattern)
	})
}

func (r *gormCampaignRepo) FindByOwner(userId int64) ([]model.Campaign, error) {
	return r.findWithMedia(func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userId)
	})
}

func (r *gormCampaignRepo) FindActiveEnded(before time.Time) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.db.Where("status = ? AND end_date < ?", model.CampaignStatusActive, before).
		Find(&campaigns).Error
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *gormCampaignRepo) AddDonation(id int64, amount float64) error {
	result := r.db.Model(&model.Campaign{}).Where("id = ?", id).Updates(map[string]interface{}{
		"current_amount": gorm.Expr("current_amount + ?", amount),
		"backer_count":   gorm.Expr("backer_count + 1"),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// 媒体仓储

type gormMediaRepo struct {
	db *gorm.DB
}

func (r *gormMediaRepo) Create(media *model.CampaignMedia) error {
	return r.db.Create(media).Error
}

func (r *gormMediaRepo) Delete(id int64) error {
	result := r.db.Delete(&model.CampaignMedia{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *gormMediaRepo) DeleteByCampaign(campaignId int64) error {
	return r.db.Where("campaign_id = ?", campaignId).Delete(&model.CampaignMedia{}).Error
}

func (r *gormMediaRepo) FindById(id int64) (*model.CampaignMedia, error) {
	var media model.CampaignMedia
	if err := r.db.First(&media, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &media, nil
}

func (r *gormMediaRepo) FindByCampaign(campaignId int64) ([]model.CampaignMedia, error) {
	var media []model.CampaignMedia
	err := r.db.Where("campaign_id = ?", campaignId).
		Order("display_order ASC").
		Find(&media).Error
	if err != nil {
		return nil, err
	}
	return media, nil
}

func (r *gormMediaRepo) SetCover(campaignId, mediaId int64) error {
	if err := r.db.Model(&model.CampaignMedia{}).
		Where("campaign_id = ?", campaignId).
		Update("is_cover", false).Error; err != nil {
		return err
	}
	result := r.db.Model(&model.CampaignMedia{}).
		Where("id = ? AND campaign_id = ?", mediaId, campaignId).
		Update("is_cover", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// 捐赠仓储

type gormDonationRepo struct {
	db *gorm.DB
}

func (r *gormDonationRepo) Create(donation *model.Donation) error {
	return r.db.Create(donation).Error
}

func (r *gormDonationRepo) FindByUser(userId int64) ([]model.Donation, error) {
	var donations []model.Donation
	err := r.db.Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *gormDonationRepo) FindByCampaign(campaignId int64) ([]model.Donation, error) {
	var donations []model.Donation
	err := r.db.Where("campaign_id = ?", campaignId).
		Order("created_at DESC").
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

// 认捐仓储

type gormPledgeRepo struct {
	db *gorm.DB
}

func (r *gormPledgeRepo) Create(pledge *model.Pledge) error {
	return r.db.Create(pledge).Error
}

func (r *gormPledgeRepo) Update(id int64, updates map[string]interface{}) error {
	result := r.db.Model(&model.Pledge{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *gormPledgeRepo) Delete(id int64) error {
	result := r.db.Delete(&model.Pledge{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *gormPledgeRepo) FindById(id int64) (*model.Pledge, error) {
	var pledge model.Pledge
	if err := r.db.First(&pledge, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &pledge, nil
}

func (r *gormPledgeRepo) FindByUser(userId int64) ([]model.Pledge, error) {
	var pledges []model.Pledge
	err := r.db.Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&pledges).Error
	if err != nil {
		return nil, err
	}
	return pledges, nil
}

func (r *gormPledgeRepo) FindPendingDue(before time.Time) ([]model.Pledge, error) {
	var pledges []model.Pledge
	err := r.db.Where("status = ? AND reminder_sent = ? AND pledge_date <= ?",
		model.PledgeStatusPending, false, before).
		Find(&pledges).Error
	if err != nil {
		return nil, err
	}
	return pledges, nil
}

// 用户仓储

type gormUserRepo struct {
	db *gorm.DB
}

func (r *gormUserRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *gormUserRepo) FindById(id int64) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (r *gormUserRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}
