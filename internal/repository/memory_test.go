package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/kindred/kcf/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCampaign(title string) *model.Campaign {
	return &model.Campaign{
		Title:        title,
		Category:     "community",
		TargetAmount: 1000,
		EndDate:      time.Now().Add(24 * time.Hour),
		IsPublic:     true,
		Status:       model.CampaignStatusActive,
		UserId:       1,
	}
}

func TestMemoryStoreTransactionCommit(t *testing.T) {
	store := NewMemoryStore()

	var id int64
	err := store.Transaction(func(tx Store) error {
		campaign := newCampaign("事务内创建的活动")
		if err := tx.Campaigns().Create(campaign); err != nil {
			return err
		}
		id = campaign.Id
		return nil
	})
	require.NoError(t, err)

	found, err := store.Campaigns().FindById(id)
	require.NoError(t, err)
	assert.Equal(t, "事务内创建的活动", found.Title)
}

func TestMemoryStoreTransactionRollback(t *testing.T) {
	store := NewMemoryStore()

	campaign := newCampaign("事务外已有的活动")
	require.NoError(t, store.Campaigns().Create(campaign))

	boom := errors.New("boom")
	err := store.Transaction(func(tx Store) error {
		if err := tx.Campaigns().AddDonation(campaign.Id, 100); err != nil {
			return err
		}
		if err := tx.Campaigns().Create(newCampaign("回滚后消失的活动")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// 事务内的全部修改被丢弃
	found, err := store.Campaigns().FindById(campaign.Id)
	require.NoError(t, err)
	assert.Zero(t, found.CurrentAmount)
	assert.Zero(t, found.BackerCount)

	all, err := store.Campaigns().FindByOwner(1)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryStoreAddDonation(t *testing.T) {
	store := NewMemoryStore()

	campaign := newCampaign("捐款目标活动")
	require.NoError(t, store.Campaigns().Create(campaign))

	require.NoError(t, store.Campaigns().AddDonation(campaign.Id, 50))
	require.NoError(t, store.Campaigns().AddDonation(campaign.Id, 25))

	found, err := store.Campaigns().FindById(campaign.Id)
	require.NoError(t, err)
	assert.Equal(t, float64(75), found.CurrentAmount)
	assert.Equal(t, int64(2), found.BackerCount)

	assert.ErrorIs(t, store.Campaigns().AddDonation(999, 10), ErrRecordNotFound)
}

func TestMemoryStoreSetCover(t *testing.T) {
	store := NewMemoryStore()

	campaign := newCampaign("封面测试活动")
	require.NoError(t, store.Campaigns().Create(campaign))

	first := &model.CampaignMedia{CampaignId: campaign.Id, FilePath: "a.jpg", IsCover: true, DisplayOrder: 0}
	second := &model.CampaignMedia{CampaignId: campaign.Id, FilePath: "b.jpg", DisplayOrder: 1}
	require.NoError(t, store.Media().Create(first))
	require.NoError(t, store.Media().Create(second))

	require.NoError(t, store.Media().SetCover(campaign.Id, second.Id))

	media, err := store.Media().FindByCampaign(campaign.Id)
	require.NoError(t, err)
	require.Len(t, media, 2)
	assert.False(t, media[0].IsCover)
	assert.True(t, media[1].IsCover)
}

func TestMemoryStoreListingFilters(t *testing.T) {
	store := NewMemoryStore()

	public := newCampaign("公开的活动")
	require.NoError(t, store.Campaigns().Create(public))

	private := newCampaign("私有的活动")
	private.IsPublic = false
	require.NoError(t, store.Campaigns().Create(private))

	draft := newCampaign("草稿活动")
	draft.Status = model.CampaignStatusDraft
	require.NoError(t, store.Campaigns().Create(draft))

	active, err := store.Campaigns().FindActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "公开的活动", active[0].Title)

	// 搜索同样只覆盖公开且进行中的活动
	found, err := store.Campaigns().SearchActive("活动")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestMemoryStoreFindActiveEnded(t *testing.T) {
	store := NewMemoryStore()

	ended := newCampaign("已过期的活动")
	ended.EndDate = time.Now().Add(-time.Hour)
	require.NoError(t, store.Campaigns().Create(ended))

	running := newCampaign("进行中的活动")
	require.NoError(t, store.Campaigns().Create(running))

	due, err := store.Campaigns().FindActiveEnded(time.Now())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "已过期的活动", due[0].Title)
}
