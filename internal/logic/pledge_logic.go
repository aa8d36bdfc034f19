package logic

import (
	"time"

	"github.com/kindred/kcf/internal/model"
	"github.com/kindred/kcf/internal/repository"
)

// PledgeLogic 认捐业务逻辑
type PledgeLogic struct {
	store repository.Store
}

// NewPledgeLogic 创建认捐业务逻辑
func NewPledgeLogic(store repository.Store) *PledgeLogic {
	return &PledgeLogic{store: store}
}

// CreatePledge 创建认捐，承诺在指定日期前捐款
func (l *PledgeLogic) CreatePledge(userId, campaignId int64, amount float64, pledgeDate time.Time, message string) (*model.Pledge, error) {
	if amount <= 0 {
		return nil, validationErr("amount", "认捐金额必须大于0")
	}
	if !pledgeDate.After(time.Now()) {
		return nil, validationErr("pledge_date", "认捐日期必须晚于当前时间")
	}
	if _, err := l.store.Campaigns().FindById(campaignId); err != nil {
		return nil, wrapProvider("获取活动", err)
	}

	pledge := &model.Pledge{
		CampaignId: campaignId,
		UserId:     userId,
		Amount:     amount,
		Status:     model.PledgeStatusPending,
		Message:    message,
		PledgeDate: pledgeDate,
	}
	if err := l.store.Pledges().Create(pledge); err != nil {
		return nil, wrapProvider("创建认捐", err)
	}
	return pledge, nil
}

// CancelPledge 取消待兑现的认捐，记录直接删除
func (l *PledgeLogic) CancelPledge(userId, pledgeId int64) error {
	pledge, err := l.ownedPledge(userId, pledgeId)
	if err != nil {
		return err
	}
	if pledge.Status != model.PledgeStatusPending {
		return validationErr("status", "只有待兑现的认捐可以取消")
	}
	if err := l.store.Pledges().Delete(pledgeId); err != nil {
		return wrapProvider("取消认捐", err)
	}
	return nil
}

// ConvertToDonation 兑现认捐：创建捐款、更新活动累计并删除认捐记录。
// 三步在同一事务内，重复兑现时认捐记录已不存在，返回记录不存在错误。
func (l *PledgeLogic) ConvertToDonation(userId, pledgeId int64) (*model.Donation, error) {
	pledge, err := l.ownedPledge(userId, pledgeId)
	if err != nil {
		return nil, err
	}
	if pledge.Status != model.PledgeStatusPending {
		return nil, validationErr("status", "只有待兑现的认捐可以转为捐款")
	}

	donation := &model.Donation{
		CampaignId: pledge.CampaignId,
		UserId:     pledge.UserId,
		Amount:     pledge.Amount,
		Status:     model.DonationStatusCompleted,
		Message:    pledge.Message,
	}

	err = l.store.Transaction(func(tx repository.Store) error {
		if err := tx.Donations().Create(donation); err != nil {
			return err
		}
		if err := tx.Campaigns().AddDonation(pledge.CampaignId, pledge.Amount); err != nil {
			return err
		}
		return tx.Pledges().Delete(pledgeId)
	})
	if err != nil {
		return nil, wrapProvider("兑现认捐", err)
	}
	return donation, nil
}

// GetUserPledges 某用户的认捐记录
func (l *PledgeLogic) GetUserPledges(userId int64) ([]model.Pledge, error) {
	pledges, err := l.store.Pledges().FindByUser(userId)
	if err != nil {
		return nil, wrapProvider("获取认捐记录", err)
	}
	return pledges, nil
}

// ownedPledge 获取认捐并校验归属
func (l *PledgeLogic) ownedPledge(userId, pledgeId int64) (*model.Pledge, error) {
	pledge, err := l.store.Pledges().FindById(pledgeId)
	if err != nil {
		return nil, wrapProvider("获取认捐", err)
	}
	if pledge.UserId != userId {
		return nil, ErrUnauthorized
	}
	return pledge, nil
}
