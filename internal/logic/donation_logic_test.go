package logic

import (
	"testing"

	"github.com/kindred/kcf/internal/model"
	"github.com/kindred/kcf/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDonationFixture(t *testing.T) (*DonationLogic, *repository.MemoryStore, *model.Campaign) {
	t.Helper()
	store := repository.NewMemoryStore()
	campaignLogic := NewCampaignLogic(store, &fakeStorage{})

	campaign, _, err := campaignLogic.CreateCampaign(1, validInput(), nil)
	require.NoError(t, err)

	return NewDonationLogic(store), store, campaign
}

func TestCreateDonationUpdatesTotals(t *testing.T) {
	l, store, campaign := newDonationFixture(t)

	donation, err := l.CreateDonation(2, campaign.Id, 50, "加油", false)
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusCompleted, donation.Status)
	assert.NotZero(t, donation.Id)

	updated, err := store.Campaigns().FindById(campaign.Id)
	require.NoError(t, err)
	assert.Equal(t, float64(50), updated.CurrentAmount)
	assert.Equal(t, int64(1), updated.BackerCount)

	// 再捐一笔继续累加
	_, err = l.CreateDonation(3, campaign.Id, 30, "", true)
	require.NoError(t, err)

	updated, err = store.Campaigns().FindById(campaign.Id)
	require.NoError(t, err)
	assert.Equal(t, float64(80), updated.CurrentAmount)
	assert.Equal(t, int64(2), updated.BackerCount)
}

func TestCreateDonationValidation(t *testing.T) {
	l, store, campaign := newDonationFixture(t)

	var validationError *ValidationError
	_, err := l.CreateDonation(2, campaign.Id, 0, "", false)
	assert.ErrorAs(t, err, &validationError)

	_, err = l.CreateDonation(2, campaign.Id, -10, "", false)
	assert.ErrorAs(t, err, &validationError)

	// 校验失败不影响活动累计
	updated, err := store.Campaigns().FindById(campaign.Id)
	require.NoError(t, err)
	assert.Zero(t, updated.CurrentAmount)
}

func TestCreateDonationCampaignNotFound(t *testing.T) {
	l, store, _ := newDonationFixture(t)

	_, err := l.CreateDonation(2, 999, 50, "", false)
	assert.ErrorIs(t, err, ErrNotFound)

	// 失败的捐款不留记录
	donations, err := store.Donations().FindByUser(2)
	require.NoError(t, err)
	assert.Empty(t, donations)
}

func TestGetDonations(t *testing.T) {
	l, _, campaign := newDonationFixture(t)

	_, err := l.CreateDonation(2, campaign.Id, 50, "第一笔", false)
	require.NoError(t, err)
	_, err = l.CreateDonation(2, campaign.Id, 25, "第二笔", false)
	require.NoError(t, err)
	_, err = l.CreateDonation(3, campaign.Id, 10, "", true)
	require.NoError(t, err)

	byUser, err := l.GetUserDonations(2)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	byCampaign, err := l.GetCampaignDonations(campaign.Id)
	require.NoError(t, err)
	assert.Len(t, byCampaign, 3)
}
