package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/kindred/kcf/internal/config"
	"github.com/kindred/kcf/internal/logger"
	"github.com/kindred/kcf/internal/notify"
	"github.com/kindred/kcf/internal/repository"
	"github.com/kindred/kcf/internal/router"
	"github.com/kindred/kcf/internal/scheduler"
	"github.com/kindred/kcf/internal/storage"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	initLogger(cfg)

	// 初始化数据库
	db, err := repository.Init(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	store := repository.NewStore(db)

	// 初始化文件存储
	st, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(store, st, cfg)

	// 启动定时任务
	mailer := notify.NewMailer(cfg.SMTP)
	manager := scheduler.Start(store, mailer, cfg)
	defer manager.Stop()

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func initLogger(cfg *config.Config) {
	level := logger.ParseLogLevel(cfg.Log.Level)

	var (
		l   *logger.Logger
		err error
	)
	if cfg.Log.Output == "file" {
		l, err = logger.NewWithFileRotation(level, cfg.Log.File)
	} else {
		l, err = logger.New(level)
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.SetDefaultLogger(l)
}
