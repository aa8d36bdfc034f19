package logic

import (
	"github.com/kindred/kcf/internal/model"
	"github.com/kindred/kcf/internal/repository"
)

// DonationLogic 捐款业务逻辑
type DonationLogic struct {
	store repository.Store
}

// NewDonationLogic 创建捐款业务逻辑
func NewDonationLogic(store repository.Store) *DonationLogic {
	return &DonationLogic{store: store}
}

// CreateDonation 记录捐款并更新活动累计金额和支持人数。
// 捐款写入和累计更新在同一事务内，任一步失败整体回滚。
func (l *DonationLogic) CreateDonation(userId, campaignId int64, amount float64, message string, anonymous bool) (*model.Donation, error) {
	if amount <= 0 {
		return nil, validationErr("amount", "捐款金额必须大于0")
	}

	donation := &model.Donation{
		CampaignId:  campaignId,
		UserId:      userId,
		Amount:      amount,
		Status:      model.DonationStatusCompleted,
		Message:     message,
		IsAnonymous: anonymous,
	}

	err := l.store.Transaction(func(tx repository.Store) error {
		if _, err := tx.Campaigns().FindById(campaignId); err != nil {
			return err
		}
		if err := tx.Donations().Create(donation); err != nil {
			return err
		}
		return tx.Campaigns().AddDonation(campaignId, amount)
	})
	if err != nil {
		return nil, wrapProvider("记录捐款", err)
	}
	return donation, nil
}

// GetUserDonations 某用户的捐款记录
func (l *DonationLogic) GetUserDonations(userId int64) ([]model.Donation, error) {
	donations, err := l.store.Donations().FindByUser(userId)
	if err != nil {
		return nil, wrapProvider("获取捐款记录", err)
	}
	return donations, nil
}

// GetCampaignDonations 某活动收到的捐款记录
func (l *DonationLogic) GetCampaignDonations(campaignId int64) ([]model.Donation, error) {
	donations, err := l.store.Donations().FindByCampaign(campaignId)
	if err != nil {
		return nil, wrapProvider("获取捐款记录", err)
	}
	return donations, nil
}
