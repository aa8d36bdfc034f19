package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/kindred/kcf/internal/config"
	"github.com/kindred/kcf/internal/notify"
	"github.com/kindred/kcf/internal/repository"
)

// 认捐日期临近多久时发送提醒
const reminderWindow = 3 * 24 * time.Hour

// PledgeReminderJob 认捐到期提醒任务
type PledgeReminderJob struct {
	store  repository.Store
	mailer *notify.Mailer
	config *config.Config
}

// NewPledgeReminderJob 创建认捐到期提醒任务
func NewPledgeReminderJob(store repository.Store, mailer *notify.Mailer, cfg *config.Config) *PledgeReminderJob {
	return &PledgeReminderJob{
		store:  store,
		mailer: mailer,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *PledgeReminderJob) GetName() string {
	return "pledge_reminder"
}

// GetSchedule 获取调度配置
func (j *PledgeReminderJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *PledgeReminderJob) Execute() {
	log.Println("Starting pledge reminder task")

	pledges, err := j.store.Pledges().FindPendingDue(time.Now().Add(reminderWindow))
	if err != nil {
		log.Printf("Failed to fetch due pledges: %v", err)
		return
	}

	sentCount := 0
	for _, pledge := range pledges {
		user, err := j.store.Users().FindById(pledge.UserId)
		if err != nil {
			log.Printf("Failed to fetch user %d for pledge %d: %v", pledge.UserId, pledge.Id, err)
			continue
		}
		campaign, err := j.store.Campaigns().FindById(pledge.CampaignId)
		if err != nil {
			log.Printf("Failed to fetch campaign %d for pledge %d: %v", pledge.CampaignId, pledge.Id, err)
			continue
		}

		if err := j.mailer.SendPledgeReminder(user, campaign, &pledge); err != nil {
			log.Printf("Failed to send reminder for pledge %d: %v", pledge.Id, err)
			continue
		}

		// 发送记录落库，避免重复提醒
		err = j.store.Pledges().Update(pledge.Id, map[string]interface{}{
			"reminder_sent": true,
		})
		if err != nil {
			log.Printf("Failed to mark pledge %d reminded: %v", pledge.Id, err)
			continue
		}
		sentCount++
	}

	log.Printf("Pledge reminder task completed. Sent %d reminders", sentCount)
}
