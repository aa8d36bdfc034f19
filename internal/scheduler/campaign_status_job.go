package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/kindred/kcf/internal/config"
	"github.com/kindred/kcf/internal/model"
	"github.com/kindred/kcf/internal/repository"
)

// CampaignStatusJob 活动状态更新任务，将已过截止日期的活动标记为已结束
type CampaignStatusJob struct {
	store  repository.Store
	config *config.Config
}

// NewCampaignStatusJob 创建活动状态更新任务
func NewCampaignStatusJob(store repository.Store, cfg *config.Config) *CampaignStatusJob {
	return &CampaignStatusJob{
		store:  store,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *CampaignStatusJob) GetName() string {
	return "campaign_status_updater"
}

// GetSchedule 获取调度配置
func (j *CampaignStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *CampaignStatusJob) Execute() {
	log.Println("Starting campaign status update task")

	campaigns, err := j.store.Campaigns().FindActiveEnded(time.Now())
	if err != nil {
		log.Printf("Failed to fetch ended campaigns: %v", err)
		return
	}

	updatedCount := 0
	for _, campaign := range campaigns {
		err := j.store.Campaigns().Update(campaign.Id, map[string]interface{}{
			"status": model.CampaignStatusCompleted,
		})
		if err != nil {
			log.Printf("Failed to update campaign %d status: %v", campaign.Id, err)
			continue
		}

		log.Printf("Campaign %d ended, marked as completed", campaign.Id)
		updatedCount++
	}

	log.Printf("Campaign status update completed. Updated %d campaigns", updatedCount)
}
