package logic

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kindred/kcf/internal/model"
	"github.com/kindred/kcf/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage 内存文件存储，记录保存和删除的路径
type fakeStorage struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	failAll bool
}

func (s *fakeStorage) Save(subPath, filename string, r io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return "", errors.New("storage unavailable")
	}
	path := subPath + "/" + filename
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *fakeStorage) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, path)
	return nil
}

func (s *fakeStorage) PublicURL(path string) string {
	return "/uploads/" + path
}

func validInput() CreateCampaignInput {
	return CreateCampaignInput{
		Title:            "社区图书馆翻新计划",
		ShortDescription: strings.Repeat("为老旧图书馆更换书架和照明设备", 2),
		Story:            strings.Repeat("这座图书馆建于上世纪八十年代，囿于经费始终未能翻新。", 5),
		Category:         "community",
		TargetAmount:     10000,
		EndDate:          time.Now().Add(30 * 24 * time.Hour),
		OrganizerName:    "张伟",
		IsPublic:         true,
	}
}

func newCampaignLogic() (*CampaignLogic, *repository.MemoryStore, *fakeStorage) {
	store := repository.NewMemoryStore()
	st := &fakeStorage{}
	return NewCampaignLogic(store, st), store, st
}

func mediaFiles(n int) []MediaFile {
	files := make([]MediaFile, n)
	for i := range files {
		files[i] = MediaFile{
			Filename: fmt.Sprintf("photo%d.jpg", i),
			FileType: model.MediaTypeImage,
			Reader:   strings.NewReader("fake image data"),
		}
	}
	return files
}

func TestCreateCampaignValidation(t *testing.T) {
	l, store, _ := newCampaignLogic()

	cases := []struct {
		name   string
		field  string
		mutate func(*CreateCampaignInput)
	}{
		{"标题过短", "title", func(in *CreateCampaignInput) { in.Title = "短" }},
		{"标题过长", "title", func(in *CreateCampaignInput) { in.Title = strings.Repeat("长", 101) }},
		{"简介过短", "short_description", func(in *CreateCampaignInput) { in.ShortDescription = "太短" }},
		{"故事过短", "story", func(in *CreateCampaignInput) { in.Story = "不足一百字" }},
		{"目标金额为零", "target_amount", func(in *CreateCampaignInput) { in.TargetAmount = 0 }},
		{"目标金额为负", "target_amount", func(in *CreateCampaignInput) { in.TargetAmount = -5 }},
		{"截止日期已过", "end_date", func(in *CreateCampaignInput) { in.EndDate = time.Now().Add(-time.Hour) }},
		{"发起人为空", "organizer_name", func(in *CreateCampaignInput) { in.OrganizerName = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			_, _, err := l.CreateCampaign(1, input, nil)
			var validationError *ValidationError
			require.ErrorAs(t, err, &validationError)
			assert.Equal(t, tc.field, validationError.Field)
		})
	}

	// 校验失败时不落库
	campaigns, err := store.Campaigns().FindByOwner(1)
	require.NoError(t, err)
	assert.Empty(t, campaigns)
}

func TestCreateCampaignDefaults(t *testing.T) {
	l, _, _ := newCampaignLogic()

	campaign, uploaded, err := l.CreateCampaign(1, validInput(), nil)
	require.NoError(t, err)
	assert.Zero(t, uploaded)
	assert.Equal(t, model.CampaignStatusActive, campaign.Status)
	assert.Zero(t, campaign.CurrentAmount)
	assert.Zero(t, campaign.BackerCount)
	assert.Equal(t, int64(1), campaign.UserId)
	assert.NotZero(t, campaign.Id)
}

func TestCreateCampaignWithMedia(t *testing.T) {
	l, store, st := newCampaignLogic()

	campaign, uploaded, err := l.CreateCampaign(1, validInput(), mediaFiles(3))
	require.NoError(t, err)
	assert.Equal(t, 3, uploaded)
	assert.Len(t, st.saved, 3)

	media, err := store.Media().FindByCampaign(campaign.Id)
	require.NoError(t, err)
	require.Len(t, media, 3)

	// 第一个文件为封面，按上传顺序排列
	assert.True(t, media[0].IsCover)
	assert.False(t, media[1].IsCover)
	assert.Equal(t, 0, media[0].DisplayOrder)
	assert.Equal(t, 1, media[1].DisplayOrder)
	assert.Equal(t, 2, media[2].DisplayOrder)
}

func TestCreateCampaignMediaFailureDoesNotRollBack(t *testing.T) {
	l, store, st := newCampaignLogic()
	st.failAll = true

	campaign, uploaded, err := l.CreateCampaign(1, validInput(), mediaFiles(2))
	require.NoError(t, err)
	assert.Zero(t, uploaded)

	// 活动仍然创建成功，只是没有媒体
	found, err := store.Campaigns().FindById(campaign.Id)
	require.NoError(t, err)
	assert.Empty(t, found.Media)
}

func TestCoverURL(t *testing.T) {
	l, _, _ := newCampaignLogic()

	// 无媒体时返回占位图
	assert.Equal(t, DefaultCoverURL, l.CoverURL(nil))

	// 有封面标记时优先
	media := []model.CampaignMedia{
		{FilePath: "a.jpg", DisplayOrder: 0},
		{FilePath: "b.jpg", DisplayOrder: 1, IsCover: true},
	}
	assert.Equal(t, "/uploads/b.jpg", l.CoverURL(media))

	// 无封面标记时取展示顺序最靠前的
	media = []model.CampaignMedia{
		{FilePath: "c.jpg", DisplayOrder: 2},
		{FilePath: "d.jpg", DisplayOrder: 1},
	}
	assert.Equal(t, "/uploads/d.jpg", l.CoverURL(media))
}

func TestUpdateCampaignOwnership(t *testing.T) {
	l, _, _ := newCampaignLogic()

	campaign, _, err := l.CreateCampaign(1, validInput(), nil)
	require.NoError(t, err)

	err = l.UpdateCampaign(2, campaign.Id, map[string]interface{}{"title": "别人改的标题好长呀"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = l.UpdateCampaign(1, campaign.Id, map[string]interface{}{"title": "归属者改的新标题"})
	assert.NoError(t, err)

	updated, err := l.GetCampaign(campaign.Id)
	require.NoError(t, err)
	assert.Equal(t, "归属者改的新标题", updated.Title)
}

func TestUpdateCampaignValidation(t *testing.T) {
	l, _, _ := newCampaignLogic()

	campaign, _, err := l.CreateCampaign(1, validInput(), nil)
	require.NoError(t, err)

	err = l.UpdateCampaign(1, campaign.Id, map[string]interface{}{"title": "短"})
	var validationError *ValidationError
	assert.ErrorAs(t, err, &validationError)

	err = l.UpdateCampaign(1, campaign.Id, map[string]interface{}{"target_amount": float64(-1)})
	assert.ErrorAs(t, err, &validationError)

	err = l.UpdateCampaign(1, campaign.Id, map[string]interface{}{})
	assert.ErrorAs(t, err, &validationError)
}

func TestUpdateCampaignNotFound(t *testing.T) {
	l, _, _ := newCampaignLogic()

	err := l.UpdateCampaign(1, 999, map[string]interface{}{"title": "改一个不存在的活动"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCampaignCascade(t *testing.T) {
	l, store, st := newCampaignLogic()

	campaign, _, err := l.CreateCampaign(1, validInput(), mediaFiles(2))
	require.NoError(t, err)

	require.NoError(t, l.DeleteCampaign(1, campaign.Id))

	_, err = store.Campaigns().FindById(campaign.Id)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)

	media, err := store.Media().FindByCampaign(campaign.Id)
	require.NoError(t, err)
	assert.Empty(t, media)

	// 存储文件一并清理
	assert.ElementsMatch(t, st.saved, st.deleted)
}

func TestDeleteCampaignOwnership(t *testing.T) {
	l, _, _ := newCampaignLogic()

	campaign, _, err := l.CreateCampaign(1, validInput(), nil)
	require.NoError(t, err)

	assert.ErrorIs(t, l.DeleteCampaign(2, campaign.Id), ErrUnauthorized)
}

func TestSetCampaignStatus(t *testing.T) {
	l, _, _ := newCampaignLogic()

	campaign, _, err := l.CreateCampaign(1, validInput(), nil)
	require.NoError(t, err)

	require.NoError(t, l.SetCampaignStatus(1, campaign.Id, model.CampaignStatusDraft))

	updated, err := l.GetCampaign(campaign.Id)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusDraft, updated.Status)

	// 列表不包含草稿
	listed, err := l.ListActive()
	require.NoError(t, err)
	assert.Empty(t, listed)

	// 不允许直接设置为已结束
	var validationError *ValidationError
	err = l.SetCampaignStatus(1, campaign.Id, model.CampaignStatusCompleted)
	assert.ErrorAs(t, err, &validationError)
}

func TestAddMediaBecomesCoverWhenNone(t *testing.T) {
	l, _, _ := newCampaignLogic()

	campaign, _, err := l.CreateCampaign(1, validInput(), nil)
	require.NoError(t, err)

	first, err := l.AddMedia(1, campaign.Id, MediaFile{
		Filename: "first.jpg",
		FileType: model.MediaTypeImage,
		Reader:   strings.NewReader("data"),
	})
	require.NoError(t, err)
	assert.True(t, first.IsCover)
	assert.Equal(t, 0, first.DisplayOrder)

	second, err := l.AddMedia(1, campaign.Id, MediaFile{
		Filename: "second.jpg",
		FileType: model.MediaTypeImage,
		Reader:   strings.NewReader("data"),
	})
	require.NoError(t, err)
	assert.False(t, second.IsCover)
	assert.Equal(t, 1, second.DisplayOrder)
}

func TestSetCoverMedia(t *testing.T) {
	l, store, _ := newCampaignLogic()

	campaign, _, err := l.CreateCampaign(1, validInput(), mediaFiles(2))
	require.NoError(t, err)

	media, err := store.Media().FindByCampaign(campaign.Id)
	require.NoError(t, err)
	require.Len(t, media, 2)

	require.NoError(t, l.SetCoverMedia(1, media[1].Id))

	media, err = store.Media().FindByCampaign(campaign.Id)
	require.NoError(t, err)
	assert.False(t, media[0].IsCover)
	assert.True(t, media[1].IsCover)

	// 非归属者不能换封面
	assert.ErrorIs(t, l.SetCoverMedia(2, media[0].Id), ErrUnauthorized)
}

func TestRemoveMedia(t *testing.T) {
	l, store, st := newCampaignLogic()

	campaign, _, err := l.CreateCampaign(1, validInput(), mediaFiles(1))
	require.NoError(t, err)

	media, err := store.Media().FindByCampaign(campaign.Id)
	require.NoError(t, err)
	require.Len(t, media, 1)

	assert.ErrorIs(t, l.RemoveMedia(2, media[0].Id), ErrUnauthorized)

	require.NoError(t, l.RemoveMedia(1, media[0].Id))
	assert.Contains(t, st.deleted, media[0].FilePath)

	_, err = store.Media().FindById(media[0].Id)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestListByCategoryAndSearch(t *testing.T) {
	l, _, _ := newCampaignLogic()

	first := validInput()
	first.Title = "社区图书馆翻新计划"
	first.Category = "community"
	_, _, err := l.CreateCampaign(1, first, nil)
	require.NoError(t, err)

	second := validInput()
	second.Title = "流浪猫救助站扩建"
	second.Category = "animals"
	_, _, err = l.CreateCampaign(1, second, nil)
	require.NoError(t, err)

	byCategory, err := l.ListByCategory("animals")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "流浪猫救助站扩建", byCategory[0].Title)

	found, err := l.Search("图书馆")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "社区图书馆翻新计划", found[0].Title)

	// 摘要带封面占位图
	assert.Equal(t, DefaultCoverURL, found[0].CoverURL)
}

func TestListHidesPrivateCampaigns(t *testing.T) {
	l, _, _ := newCampaignLogic()

	private := validInput()
	private.IsPublic = false
	_, _, err := l.CreateCampaign(1, private, nil)
	require.NoError(t, err)

	listed, err := l.ListActive()
	require.NoError(t, err)
	assert.Empty(t, listed)

	// 归属者自己的列表包含私有活动
	mine, err := l.ListByOwner(1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
