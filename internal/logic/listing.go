package logic

import (
	"sort"
	"strings"
	"time"

	"github.com/kindred/kcf/internal/model"
)

// SortKey 列表排序方式
type SortKey string

const (
	SortNewest        SortKey = "newest"          // 最新优先（输入已按创建时间倒序）
	SortOldest        SortKey = "oldest"          // 最早优先
	SortMostFunded    SortKey = "most-funded"     // 筹款额最高优先
	SortClosestToGoal SortKey = "closest-to-goal" // 完成度最高优先
)

// CategoryAll 类别过滤的"全部"哨兵值
const CategoryAll = "all"

// CampaignSummary 列表展示用的活动摘要
type CampaignSummary struct {
	Id               int64                `json:"id"`
	Title            string               `json:"title"`
	ShortDescription string               `json:"short_description"`
	Category         string               `json:"category"`
	TargetAmount     float64              `json:"target_amount"`
	CurrentAmount    float64              `json:"current_amount"`
	BackerCount      int64                `json:"backer_count"`
	DaysLeft         int                  `json:"days_left"`
	CoverURL         string               `json:"cover_url"`
	OrganizerName    string               `json:"organizer_name"`
	Status           model.CampaignStatus `json:"status"`
	IsPublic         bool                 `json:"is_public"`
	UserId           int64                `json:"user_id"`
	CreatedAt        time.Time            `json:"created_at"`
	EndDate          time.Time            `json:"end_date"`
}

// ListingOptions 列表过滤与排序选项
type ListingOptions struct {
	Search     string   // 空表示不按关键词过滤
	Categories []string // 空集合或包含 "all" 表示全部类别
	SortBy     SortKey
}

// ApplyListing 对活动摘要序列做搜索过滤、类别过滤和排序。
// 纯函数：输入不被修改，相同输入产生相同输出，排序稳定。
func ApplyListing(items []CampaignSummary, opts ListingOptions) []CampaignSummary {
	result := make([]CampaignSummary, 0, len(items))

	search := strings.ToLower(strings.TrimSpace(opts.Search))
	categories := categorySet(opts.Categories)

	for _, item := range items {
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Title), search) &&
			!strings.Contains(strings.ToLower(item.ShortDescription), search) {
			continue
		}
		if categories != nil {
			if _, ok := categories[item.Category]; !ok {
				continue
			}
		}
		result = append(result, item)
	}

	switch opts.SortBy {
	case SortOldest:
		reverse(result)
	case SortMostFunded:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CurrentAmount > result[j].CurrentAmount
		})
	case SortClosestToGoal:
		sort.SliceStable(result, func(i, j int) bool {
			return fundingRatio(result[i]) > fundingRatio(result[j])
		})
	default:
		// newest: 输入即为创建时间倒序
	}

	return result
}

// categorySet 返回生效的类别集合，nil 表示不过滤
func categorySet(categories []string) map[string]struct{} {
	if len(categories) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if c == CategoryAll {
			return nil
		}
		set[c] = struct{}{}
	}
	return set
}

// fundingRatio 筹款完成度，目标金额非正时记为0避免除零
func fundingRatio(item CampaignSummary) float64 {
	if item.TargetAmount <= 0 {
		return 0
	}
	return item.CurrentAmount / item.TargetAmount
}

func reverse(items []CampaignSummary) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

// DaysLeft 距截止日期的剩余天数，不足一天按一天计，已截止返回0
func DaysLeft(endDate, now time.Time) int {
	if !endDate.After(now) {
		return 0
	}
	days := int(endDate.Sub(now).Hours() / 24)
	if endDate.Sub(now)%(24*time.Hour) > 0 {
		days++
	}
	return days
}
