package logic

import (
	"fmt"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/kindred/kcf/internal/logger"
	"github.com/kindred/kcf/internal/model"
	"github.com/kindred/kcf/internal/repository"
	"github.com/kindred/kcf/internal/storage"
	"github.com/panjf2000/ants/v2"
)

// DefaultCoverURL 无媒体文件时的封面占位图
const DefaultCoverURL = "https://images.unsplash.com/photo-1466692476868-aef1dfb1e735?w=800&q=80"

// 并发上传媒体文件的协程数
const mediaUploadWorkers = 4

// CampaignLogic 活动业务逻辑
type CampaignLogic struct {
	store   repository.Store
	storage storage.Storage
}

// NewCampaignLogic 创建活动业务逻辑
func NewCampaignLogic(store repository.Store, st storage.Storage) *CampaignLogic {
	return &CampaignLogic{store: store, storage: st}
}

// CreateCampaignInput 创建活动参数
type CreateCampaignInput struct {
	Title            string
	ShortDescription string
	Story            string
	Category         string
	TargetAmount     float64
	EndDate          time.Time
	OrganizerName    string
	OrganizerBio     string
	IsPublic         bool
}

// MediaFile 待上传的媒体文件
type MediaFile struct {
	Filename string
	FileType model.MediaType
	Caption  string
	Reader   io.Reader
}

// CreateCampaign 创建活动并上传媒体文件。
// 校验在任何持久化之前完成；媒体上传按文件独立进行，单个文件失败
// 只记录日志并跳过，不回滚已创建的活动。返回成功上传的文件数。
func (l *CampaignLogic) CreateCampaign(userId int64, in CreateCampaignInput, files []MediaFile) (*model.Campaign, int, error) {
	if err := validateCampaignInput(in); err != nil {
		return nil, 0, err
	}

	campaign := &model.Campaign{
		Title:            in.Title,
		ShortDescription: in.ShortDescription,
		Story:            in.Story,
		Category:         in.Category,
		TargetAmount:     in.TargetAmount,
		CurrentAmount:    0,
		BackerCount:      0,
		EndDate:          in.EndDate,
		OrganizerName:    in.OrganizerName,
		OrganizerBio:     in.OrganizerBio,
		IsPublic:         in.IsPublic,
		Status:           model.CampaignStatusActive,
		UserId:           userId,
	}

	if err := l.store.Campaigns().Create(campaign); err != nil {
		return nil, 0, wrapProvider("创建活动", err)
	}

	uploaded := 0
	if len(files) > 0 {
		uploaded = l.uploadMedia(campaign.Id, files)
	}
	return campaign, uploaded, nil
}

// uploadMedia 并发上传媒体文件，序号0的文件作为封面
func (l *CampaignLogic) uploadMedia(campaignId int64, files []MediaFile) int {
	pool, err := ants.NewPool(mediaUploadWorkers)
	if err != nil {
		logger.Error("Failed to create upload pool: %v", err)
		return 0
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		uploaded int
	)

	for i, f := range files {
		ordinal, file := i, f
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()

			subPath := fmt.Sprintf("campaigns/%d", campaignId)
			path, err := l.storage.Save(subPath, file.Filename, file.Reader)
			if err != nil {
				logger.Error("Failed to upload media %s for campaign %d: %v", file.Filename, campaignId, err)
				return
			}

			media := &model.CampaignMedia{
				CampaignId:   campaignId,
				FilePath:     path,
				FileType:     file.FileType,
				IsCover:      ordinal == 0,
				DisplayOrder: ordinal,
				Caption:      file.Caption,
			}
			if err := l.store.Media().Create(media); err != nil {
				logger.Error("Failed to record media %s for campaign %d: %v", path, campaignId, err)
				_ = l.storage.Delete(path)
				return
			}

			mu.Lock()
			uploaded++
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit upload task: %v", err)
		}
	}

	wg.Wait()
	return uploaded
}

// ListActive 公开且进行中的活动，按创建时间倒序
func (l *CampaignLogic) ListActive() ([]CampaignSummary, error) {
	campaigns, err := l.store.Campaigns().FindActive()
	if err != nil {
		return nil, wrapProvider("获取活动列表", err)
	}
	return l.toSummaries(campaigns), nil
}

// ListByCategory 指定类别下公开且进行中的活动
func (l *CampaignLogic) ListByCategory(category string) ([]CampaignSummary, error) {
	campaigns, err := l.store.Campaigns().FindActiveByCategory(category)
	if err != nil {
		return nil, wrapProvider("获取活动列表", err)
	}
	return l.toSummaries(campaigns), nil
}

// Search 在标题、简介、故事中做大小写无关的关键词匹配
func (l *CampaignLogic) Search(term string) ([]CampaignSummary, error) {
	campaigns, err := l.store.Campaigns().SearchActive(term)
	if err != nil {
		return nil, wrapProvider("搜索活动", err)
	}
	return l.toSummaries(campaigns), nil
}

// ListByOwner 某用户的全部活动，不限状态和可见性
func (l *CampaignLogic) ListByOwner(userId int64) ([]CampaignSummary, error) {
	campaigns, err := l.store.Campaigns().FindByOwner(userId)
	if err != nil {
		return nil, wrapProvider("获取活动列表", err)
	}
	return l.toSummaries(campaigns), nil
}

// GetCampaign 获取活动详情，附带媒体列表
func (l *CampaignLogic) GetCampaign(id int64) (*model.Campaign, error) {
	campaign, err := l.store.Campaigns().FindById(id)
	if err != nil {
		return nil, wrapProvider("获取活动详情", err)
	}
	return campaign, nil
}

// UpdateCampaign 更新活动字段，仅限活动归属者
func (l *CampaignLogic) UpdateCampaign(userId, id int64, updates map[string]interface{}) error {
	if _, err := l.ownedCampaign(userId, id); err != nil {
		return err
	}
	if err := validateCampaignUpdates(updates); err != nil {
		return err
	}
	if len(updates) == 0 {
		return validationErr("updates", "没有要更新的字段")
	}
	if err := l.store.Campaigns().Update(id, updates); err != nil {
		return wrapProvider("更新活动", err)
	}
	return nil
}

// DeleteCampaign 删除活动并级联删除媒体记录和存储文件
func (l *CampaignLogic) DeleteCampaign(userId, id int64) error {
	if _, err := l.ownedCampaign(userId, id); err != nil {
		return err
	}

	media, err := l.store.Media().FindByCampaign(id)
	if err != nil {
		return wrapProvider("获取活动媒体", err)
	}

	err = l.store.Transaction(func(tx repository.Store) error {
		if err := tx.Media().DeleteByCampaign(id); err != nil {
			return err
		}
		return tx.Campaigns().Delete(id)
	})
	if err != nil {
		return wrapProvider("删除活动", err)
	}

	// 数据库记录已删除，文件清理失败只记录日志
	for _, m := range media {
		if err := l.storage.Delete(m.FilePath); err != nil {
			logger.Warn("Failed to delete media file %s: %v", m.FilePath, err)
		}
	}
	return nil
}

// SetCampaignStatus 在进行中与草稿之间切换，不影响筹款数据
func (l *CampaignLogic) SetCampaignStatus(userId, id int64, status model.CampaignStatus) error {
	if status != model.CampaignStatusActive && status != model.CampaignStatusDraft {
		return validationErr("status", "状态只能为 active 或 draft")
	}
	if _, err := l.ownedCampaign(userId, id); err != nil {
		return err
	}
	if err := l.store.Campaigns().Update(id, map[string]interface{}{"status": status}); err != nil {
		return wrapProvider("更新活动状态", err)
	}
	return nil
}

// AddMedia 为已有活动追加媒体文件，排在现有媒体之后；
// 活动尚无封面时新文件自动成为封面
func (l *CampaignLogic) AddMedia(userId, campaignId int64, file MediaFile) (*model.CampaignMedia, error) {
	if _, err := l.ownedCampaign(userId, campaignId); err != nil {
		return nil, err
	}

	existing, err := l.store.Media().FindByCampaign(campaignId)
	if err != nil {
		return nil, wrapProvider("获取活动媒体", err)
	}

	subPath := fmt.Sprintf("campaigns/%d", campaignId)
	path, err := l.storage.Save(subPath, file.Filename, file.Reader)
	if err != nil {
		return nil, wrapProvider("上传媒体文件", err)
	}

	hasCover := false
	order := 0
	for _, m := range existing {
		if m.IsCover {
			hasCover = true
		}
		if m.DisplayOrder >= order {
			order = m.DisplayOrder + 1
		}
	}

	media := &model.CampaignMedia{
		CampaignId:   campaignId,
		FilePath:     path,
		FileType:     file.FileType,
		IsCover:      !hasCover,
		DisplayOrder: order,
		Caption:      file.Caption,
	}
	if err := l.store.Media().Create(media); err != nil {
		_ = l.storage.Delete(path)
		return nil, wrapProvider("记录媒体文件", err)
	}
	return media, nil
}

// RemoveMedia 删除单个媒体文件
func (l *CampaignLogic) RemoveMedia(userId, mediaId int64) error {
	media, err := l.store.Media().FindById(mediaId)
	if err != nil {
		return wrapProvider("获取媒体文件", err)
	}
	if _, err := l.ownedCampaign(userId, media.CampaignId); err != nil {
		return err
	}

	if err := l.store.Media().Delete(mediaId); err != nil {
		return wrapProvider("删除媒体记录", err)
	}
	if err := l.storage.Delete(media.FilePath); err != nil {
		logger.Warn("Failed to delete media file %s: %v", media.FilePath, err)
	}
	return nil
}

// SetCoverMedia 将指定媒体设为活动封面
func (l *CampaignLogic) SetCoverMedia(userId, mediaId int64) error {
	media, err := l.store.Media().FindById(mediaId)
	if err != nil {
		return wrapProvider("获取媒体文件", err)
	}
	if _, err := l.ownedCampaign(userId, media.CampaignId); err != nil {
		return err
	}

	if err := l.store.Media().SetCover(media.CampaignId, mediaId); err != nil {
		return wrapProvider("设置封面", err)
	}
	return nil
}

// CoverURL 封面图地址：封面标记优先，其次展示顺序最靠前的媒体，最后占位图
func (l *CampaignLogic) CoverURL(media []model.CampaignMedia) string {
	for _, m := range media {
		if m.IsCover {
			return l.storage.PublicURL(m.FilePath)
		}
	}
	if len(media) > 0 {
		best := media[0]
		for _, m := range media[1:] {
			if m.DisplayOrder < best.DisplayOrder {
				best = m
			}
		}
		return l.storage.PublicURL(best.FilePath)
	}
	return DefaultCoverURL
}

// MediaURL 媒体文件的访问地址
func (l *CampaignLogic) MediaURL(path string) string {
	return l.storage.PublicURL(path)
}

// ownedCampaign 获取活动并校验归属
func (l *CampaignLogic) ownedCampaign(userId, id int64) (*model.Campaign, error) {
	campaign, err := l.store.Campaigns().FindById(id)
	if err != nil {
		return nil, wrapProvider("获取活动", err)
	}
	if campaign.UserId != userId {
		return nil, ErrUnauthorized
	}
	return campaign, nil
}

func (l *CampaignLogic) toSummaries(campaigns []model.Campaign) []CampaignSummary {
	now := time.Now()
	result := make([]CampaignSummary, len(campaigns))
	for i, c := range campaigns {
		result[i] = CampaignSummary{
			Id:               c.Id,
			Title:            c.Title,
			ShortDescription: c.ShortDescription,
			Category:         c.Category,
			TargetAmount:     c.TargetAmount,
			CurrentAmount:    c.CurrentAmount,
			BackerCount:      c.BackerCount,
			DaysLeft:         DaysLeft(c.EndDate, now),
			CoverURL:         l.CoverURL(c.Media),
			OrganizerName:    c.OrganizerName,
			Status:           c.Status,
			IsPublic:         c.IsPublic,
			UserId:           c.UserId,
			CreatedAt:        c.CreatedAt,
			EndDate:          c.EndDate,
		}
	}
	return result
}

// validateCampaignInput 创建活动校验
func validateCampaignInput(in CreateCampaignInput) error {
	if utf8.RuneCountInString(in.Title) < 5 {
		return validationErr("title", "标题不能少于5个字符")
	}
	if utf8.RuneCountInString(in.Title) > 100 {
		return validationErr("title", "标题不能超过100个字符")
	}
	if n := utf8.RuneCountInString(in.ShortDescription); n < 20 || n > 200 {
		return validationErr("short_description", "简介长度须在20到200个字符之间")
	}
	if utf8.RuneCountInString(in.Story) < 100 {
		return validationErr("story", "故事不能少于100个字符")
	}
	if in.TargetAmount <= 0 {
		return validationErr("target_amount", "目标金额必须大于0")
	}
	if !in.EndDate.After(time.Now()) {
		return validationErr("end_date", "截止日期必须晚于当前时间")
	}
	if utf8.RuneCountInString(in.OrganizerName) < 2 {
		return validationErr("organizer_name", "发起人姓名不能为空")
	}
	return nil
}

// validateCampaignUpdates 更新活动时对出现的字段执行与创建一致的校验
func validateCampaignUpdates(updates map[string]interface{}) error {
	if v, ok := updates["title"]; ok {
		if n := utf8.RuneCountInString(v.(string)); n < 5 || n > 100 {
			return validationErr("title", "标题长度须在5到100个字符之间")
		}
	}
	if v, ok := updates["short_description"]; ok {
		if n := utf8.RuneCountInString(v.(string)); n < 20 || n > 200 {
			return validationErr("short_description", "简介长度须在20到200个字符之间")
		}
	}
	if v, ok := updates["story"]; ok {
		if utf8.RuneCountInString(v.(string)) < 100 {
			return validationErr("story", "故事不能少于100个字符")
		}
	}
	if v, ok := updates["target_amount"]; ok {
		if v.(float64) <= 0 {
			return validationErr("target_amount", "目标金额必须大于0")
		}
	}
	if v, ok := updates["end_date"]; ok {
		if !v.(time.Time).After(time.Now()) {
			return validationErr("end_date", "截止日期必须晚于当前时间")
		}
	}
	return nil
}
