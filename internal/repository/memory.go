package repository

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kindred/kcf/internal/model"
)

// MemoryStore Store 的内存实现，用于测试和本地演示。
// 事务通过快照实现：fn 在数据副本上执行，出错时副本被丢弃。
type MemoryStore struct {
	mu   sync.Mutex
	data *memoryData
}

type memoryData struct {
	campaigns map[int64]model.Campaign
	media     map[int64]model.CampaignMedia
	donations map[int64]model.Donation
	pledges   map[int64]model.Pledge
	users     map[int64]model.User
	nextId    int64
}

// NewMemoryStore 创建空的内存数据提供方
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: &memoryData{
			campaigns: make(map[int64]model.Campaign),
			media:     make(map[int64]model.CampaignMedia),
			donations: make(map[int64]model.Donation),
			pledges:   make(map[int64]model.Pledge),
			users:     make(map[int64]model.User),
			nextId:    1,
		},
	}
}

func (d *memoryData) clone() *memoryData {
	c := &memoryData{
		campaigns: make(map[int64]model.Campaign, len(d.campaigns)),
		media:     make(map[int64]model.CampaignMedia, len(d.media)),
		donations: make(map[int64]model.Donation, len(d.donations)),
		pledges:   make(map[int64]model.Pledge, len(d.pledges)),
		users:     make(map[int64]model.User, len(d.users)),
		nextId:    d.nextId,
	}
	for k, v := range d.campaigns {
		v.Media = nil
		c.campaigns[k] = v
	}
	for k, v := range d.media {
		c.media[k] = v
	}
	for k, v := range d.donations {
		c.donations[k] = v
	}
	for k, v := range d.pledges {
		c.pledges[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

func (d *memoryData) allocId() int64 {
	id := d.nextId
	d.nextId++
	return id
}

func (s *MemoryStore) Campaigns() CampaignRepository { return &memCampaignRepo{s: s} }
func (s *MemoryStore) Media() MediaRepository        { return &memMediaRepo{s: s} }
func (s *MemoryStore) Donations() DonationRepository { return &memDonationRepo{s: s} }
func (s *MemoryStore) Pledges() PledgeRepository     { return &memPledgeRepo{s: s} }
func (s *MemoryStore) Users() UserRepository         { return &memUserRepo{s: s} }

func (s *MemoryStore) Transaction(fn func(Store) error) error {
	s.mu.Lock()
	tx := &MemoryStore{data: s.data.clone()}
	s.mu.Unlock()

	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = tx.data
	s.mu.Unlock()
	return nil
}

// 活动仓储

type memCampaignRepo struct {
	s *MemoryStore
}

func (r *memCampaignRepo) Create(campaign *model.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	campaign.Id = r.s.data.allocId()
	now := time.Now()
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = now
	}
	campaign.UpdatedAt = now

	stored := *campaign
	stored.Media = nil
	r.s.data.campaigns[campaign.Id] = stored
	return nil
}

func (r *memCampaignRepo) Update(id int64, updates map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.data.campaigns[id]
	if !ok {
		return ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "title":
			c.Title = value.(string)
		case "short_description":
			c.ShortDescription = value.(string)
		case "story":
			c.Story = value.(string)
		case "category":
			c.Category = value.(string)
		case "target_amount":
			c.TargetAmount = value.(float64)
		case "end_date":
			c.EndDate = value.(time.Time)
		case "organizer_name":
			c.OrganizerName = value.(string)
		case "organizer_bio":
			c.OrganizerBio = value.(string)
		case "is_public":
			c.IsPublic = value.(bool)
		case "status":
			c.Status = value.(model.CampaignStatus)
		}
	}
	c.UpdatedAt = time.Now()
	r.s.data.campaigns[id] = c
	return nil
}

func (r *memCampaignRepo) Delete(id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.campaigns[id]; !ok {
		return ErrRecordNotFound
	}
	delete(r.s.data.campaigns, id)
	return nil
}

func (r *memCampaignRepo) FindById(id int64) (*model.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.data.campaigns[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	c.Media = r.s.data.mediaOf(id)
	return &c, nil
}

func (r *memCampaignRepo) collect(match func(model.Campaign) bool) []model.Campaign {
	var result []model.Campaign
	for _, c := range r.s.data.campaigns {
		if match(c) {
			c.Media = r.s.data.mediaOf(c.Id)
			result = append(result, c)
		}
	}
	// 创建时间倒序，时间相同按 id 倒序
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Id > result[j].Id
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func isListable(c model.Campaign) bool {
	return c.IsPublic && c.Status == model.CampaignStatusActive
}

func (r *memCampaignRepo) FindActive() ([]model.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(isListable), nil
}

func (r *memCampaignRepo) FindActiveByCategory(category string) ([]model.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(c model.Campaign) bool {
		return isListable(c) && c.Category == category
	}), nil
}

func (r *memCampaignRepo) SearchActive(term string) ([]model.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lower := strings.ToLower(term)
	return r.collect(func(c model.Campaign) bool {
		return isListable(c) &&
			(strings.Contains(strings.ToLower(c.Title), lower) ||
				strings.Contains(strings.ToLower(c.ShortDescription), lower) ||
				strings.Contains(strings.ToLower(c.Story), lower))
	}), nil
}

func (r *memCampaignRepo) FindByOwner(userId int64) ([]model.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(c model.Campaign) bool {
		return c.UserId == userId
	}), nil
}

func (r *memCampaignRepo) FindActiveEnded(before time.Time) ([]model.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(c model.Campaign) bool {
		return c.Status == model.CampaignStatusActive && c.EndDate.Before(before)
	}), nil
}

func (r *memCampaignRepo) AddDonation(id int64, amount float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.data.campaigns[id]
	if !ok {
		return ErrRecordNotFound
	}
	c.CurrentAmount += amount
	c.BackerCount++
	c.UpdatedAt = time.Now()
	r.s.data.campaigns[id] = c
	return nil
}

// mediaOf 按展示顺序返回活动媒体，调用方需持有锁
func (d *memoryData) mediaOf(campaignId int64) []model.CampaignMedia {
	var result []model.CampaignMedia
	for _, m := range d.media {
		if m.CampaignId == campaignId {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DisplayOrder == result[j].DisplayOrder {
			return result[i].Id < result[j].Id
		}
		return result[i].DisplayOrder < result[j].DisplayOrder
	})
	return result
}

// 媒体仓储

type memMediaRepo struct {
	s *MemoryStore
}

func (r *memMediaRepo) Create(media *model.CampaignMedia) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	media.Id = r.s.data.allocId()
	if media.CreatedAt.IsZero() {
		media.CreatedAt = time.Now()
	}
	r.s.data.media[media.Id] = *media
	return nil
}

func (r *memMediaRepo) Delete(id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.media[id]; !ok {
		return ErrRecordNotFound
	}
	delete(r.s.data.media, id)
	return nil
}

func (r *memMediaRepo) DeleteByCampaign(campaignId int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, m := range r.s.data.media {
		if m.CampaignId == campaignId {
			delete(r.s.data.media, id)
		}
	}
	return nil
}

func (r *memMediaRepo) FindById(id int64) (*model.CampaignMedia, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.data.media[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &m, nil
}

func (r *memMediaRepo) FindByCampaign(campaignId int64) ([]model.CampaignMedia, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.data.mediaOf(campaignId), nil
}

func (r *memMediaRepo) SetCover(campaignId, mediaId int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	target, ok := r.s.data.media[mediaId]
	if !ok || target.CampaignId != campaignId {
		return ErrRecordNotFound
	}
	for id, m := range r.s.data.media {
		if m.CampaignId == campaignId {
			m.IsCover = id == mediaId
			r.s.data.media[id] = m
		}
	}
	return nil
}

// 捐赠仓储

type memDonationRepo struct {
	s *MemoryStore
}

func (r *memDonationRepo) Create(donation *model.Donation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	donation.Id = r.s.data.allocId()
	if donation.CreatedAt.IsZero() {
		donation.CreatedAt = time.Now()
	}
	r.s.data.donations[donation.Id] = *donation
	return nil
}

func (r *memDonationRepo) collect(match func(model.Donation) bool) []model.Donation {
	var result []model.Donation
	for _, d := range r.s.data.donations {
		if match(d) {
			result = append(result, d)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Id > result[j].Id
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (r *memDonationRepo) FindByUser(userId int64) ([]model.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(d model.Donation) bool { return d.UserId == userId }), nil
}

func (r *memDonationRepo) FindByCampaign(campaignId int64) ([]model.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(d model.Donation) bool { return d.CampaignId == campaignId }), nil
}

// 认捐仓储

type memPledgeRepo struct {
	s *MemoryStore
}

func (r *memPledgeRepo) Create(pledge *model.Pledge) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pledge.Id = r.s.data.allocId()
	if pledge.CreatedAt.IsZero() {
		pledge.CreatedAt = time.Now()
	}
	r.s.data.pledges[pledge.Id] = *pledge
	return nil
}

func (r *memPledgeRepo) Update(id int64, updates map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.data.pledges[id]
	if !ok {
		return ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "status":
			p.Status = value.(model.PledgeStatus)
		case "reminder_sent":
			p.ReminderSent = value.(bool)
		}
	}
	r.s.data.pledges[id] = p
	return nil
}

func (r *memPledgeRepo) Delete(id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.pledges[id]; !ok {
		return ErrRecordNotFound
	}
	delete(r.s.data.pledges, id)
	return nil
}

func (r *memPledgeRepo) FindById(id int64) (*model.Pledge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.data.pledges[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &p, nil
}

func (r *memPledgeRepo) FindByUser(userId int64) ([]model.Pledge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []model.Pledge
	for _, p := range r.s.data.pledges {
		if p.UserId == userId {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Id > result[j].Id
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memPledgeRepo) FindPendingDue(before time.Time) ([]model.Pledge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []model.Pledge
	for _, p := range r.s.data.pledges {
		if p.Status == model.PledgeStatusPending && !p.ReminderSent && !p.PledgeDate.After(before) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Id < result[j].Id })
	return result, nil
}

// 用户仓储

type memUserRepo struct {
	s *MemoryStore
}

func (r *memUserRepo) Create(user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.Id = r.s.data.allocId()
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.s.data.users[user.Id] = *user
	return nil
}

func (r *memUserRepo) FindById(id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &u, nil
}

func (r *memUserRepo) FindByEmail(email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrRecordNotFound
}
