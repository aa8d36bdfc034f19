package scheduler

import (
	"log"

	"github.com/go-co-op/gocron/v2"
	"github.com/kindred/kcf/internal/config"
	"github.com/kindred/kcf/internal/notify"
	"github.com/kindred/kcf/internal/repository"
)

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	store     repository.Store
	mailer    *notify.Mailer
	config    *config.Config
}

// NewManager 创建新的任务管理器
func NewManager(store repository.Store, mailer *notify.Mailer, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler: s,
		store:     store,
		mailer:    mailer,
		config:    cfg,
	}
}

// Start 启动任务管理器
func Start(store repository.Store, mailer *notify.Mailer, cfg *config.Config) *Manager {
	manager := NewManager(store, mailer, cfg)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	log.Println("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	m.registerJob(NewCampaignStatusJob(m.store, m.config))
	m.registerJob(NewPledgeReminderJob(m.store, m.mailer, m.config))
}

// Job 定时任务
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

func (m *Manager) registerJob(job Job) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		log.Printf("Failed to shutdown scheduler: %v", err)
	}
	log.Println("Task manager stopped")
}
