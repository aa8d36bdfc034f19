package logic

import (
	"testing"
	"time"

	"github.com/kindred/kcf/internal/model"
	"github.com/kindred/kcf/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPledgeFixture(t *testing.T) (*PledgeLogic, *repository.MemoryStore, *model.Campaign) {
	t.Helper()
	store := repository.NewMemoryStore()
	campaignLogic := NewCampaignLogic(store, &fakeStorage{})

	campaign, _, err := campaignLogic.CreateCampaign(1, validInput(), nil)
	require.NoError(t, err)

	return NewPledgeLogic(store), store, campaign
}

func futureDate() time.Time {
	return time.Now().Add(7 * 24 * time.Hour)
}

func TestCreatePledge(t *testing.T) {
	l, _, campaign := newPledgeFixture(t)

	pledge, err := l.CreatePledge(2, campaign.Id, 100, futureDate(), "月底兑现")
	require.NoError(t, err)
	assert.Equal(t, model.PledgeStatusPending, pledge.Status)
	assert.NotZero(t, pledge.Id)
	assert.False(t, pledge.ReminderSent)
}

func TestCreatePledgeValidation(t *testing.T) {
	l, _, campaign := newPledgeFixture(t)

	var validationError *ValidationError
	_, err := l.CreatePledge(2, campaign.Id, 0, futureDate(), "")
	assert.ErrorAs(t, err, &validationError)

	_, err = l.CreatePledge(2, campaign.Id, 100, time.Now().Add(-time.Hour), "")
	assert.ErrorAs(t, err, &validationError)

	_, err = l.CreatePledge(2, 999, 100, futureDate(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelPledge(t *testing.T) {
	l, store, campaign := newPledgeFixture(t)

	pledge, err := l.CreatePledge(2, campaign.Id, 100, futureDate(), "")
	require.NoError(t, err)

	// 非归属者不能取消
	assert.ErrorIs(t, l.CancelPledge(3, pledge.Id), ErrUnauthorized)

	require.NoError(t, l.CancelPledge(2, pledge.Id))

	_, err = store.Pledges().FindById(pledge.Id)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)

	// 重复取消返回记录不存在
	assert.ErrorIs(t, l.CancelPledge(2, pledge.Id), ErrNotFound)
}

func TestConvertPledgeToDonation(t *testing.T) {
	l, store, campaign := newPledgeFixture(t)

	pledge, err := l.CreatePledge(2, campaign.Id, 100, futureDate(), "月底兑现")
	require.NoError(t, err)

	donation, err := l.ConvertToDonation(2, pledge.Id)
	require.NoError(t, err)
	assert.Equal(t, pledge.Amount, donation.Amount)
	assert.Equal(t, pledge.CampaignId, donation.CampaignId)
	assert.Equal(t, model.DonationStatusCompleted, donation.Status)
	assert.Equal(t, "月底兑现", donation.Message)

	// 活动累计更新
	updated, err := store.Campaigns().FindById(campaign.Id)
	require.NoError(t, err)
	assert.Equal(t, float64(100), updated.CurrentAmount)
	assert.Equal(t, int64(1), updated.BackerCount)

	// 认捐记录已删除，重复兑现返回记录不存在
	_, err = l.ConvertToDonation(2, pledge.Id)
	assert.ErrorIs(t, err, ErrNotFound)

	// 捐款只有一笔
	donations, err := store.Donations().FindByCampaign(campaign.Id)
	require.NoError(t, err)
	assert.Len(t, donations, 1)
}

func TestConvertPledgeOwnership(t *testing.T) {
	l, _, campaign := newPledgeFixture(t)

	pledge, err := l.CreatePledge(2, campaign.Id, 100, futureDate(), "")
	require.NoError(t, err)

	_, err = l.ConvertToDonation(3, pledge.Id)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestConvertPledgeFailureLeavesPledgeIntact(t *testing.T) {
	l, store, campaign := newPledgeFixture(t)

	pledge, err := l.CreatePledge(2, campaign.Id, 100, futureDate(), "")
	require.NoError(t, err)

	// 活动被删除后兑现失败，事务整体回滚
	require.NoError(t, store.Campaigns().Delete(campaign.Id))

	_, err = l.ConvertToDonation(2, pledge.Id)
	require.Error(t, err)

	// 认捐未被删除，捐款未落库
	found, err := store.Pledges().FindById(pledge.Id)
	require.NoError(t, err)
	assert.Equal(t, model.PledgeStatusPending, found.Status)

	donations, err := store.Donations().FindByUser(2)
	require.NoError(t, err)
	assert.Empty(t, donations)
}

func TestGetUserPledges(t *testing.T) {
	l, _, campaign := newPledgeFixture(t)

	_, err := l.CreatePledge(2, campaign.Id, 100, futureDate(), "")
	require.NoError(t, err)
	_, err = l.CreatePledge(2, campaign.Id, 50, futureDate(), "")
	require.NoError(t, err)
	_, err = l.CreatePledge(3, campaign.Id, 25, futureDate(), "")
	require.NoError(t, err)

	pledges, err := l.GetUserPledges(2)
	require.NoError(t, err)
	assert.Len(t, pledges, 2)
}
