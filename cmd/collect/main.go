package main

import (
	"log"

	"github.com/LJTian/OpsBoard/internal/config"
	"github.com/LJTian/OpsBoard/internal/dashboard"
	"github.com/LJTian/OpsBoard/internal/processor"
	"github.com/LJTian/OpsBoard/internal/scheduler"
	"github.com/LJTian/OpsBoard/internal/storage"
)

// 一个仅执行一次归档任务的命令行入口：适合手动触发
func main() {
	cfg := config.Load()
	if !cfg.ArchiveEnabled() {
		log.Fatalf("POSTGRES_DSN is required for collect")
	}

	board, err := dashboard.New(cfg)
	if err != nil {
		log.Fatalf("init dashboard failed: %v", err)
	}

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	// 确保各个数据源存在（与 cmd/api 保持一致）
	for _, c := range board.Columns {
		if _, err := store.EnsureSource(c.Fetcher.Name(), c.Title, ""); err != nil {
			log.Fatalf("ensure source %s failed: %v", c.Fetcher.Name(), err)
		}
	}

	s, err := scheduler.New(cfg.CronSpec, board.Fetchers(), processor.NewSimpleProcessor(), store)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}

	// 只执行一轮归档后退出
	s.RunOnce()
}
