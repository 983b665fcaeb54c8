package main

import (
	"log"

	"github.com/LJTian/OpsBoard/internal/api"
	"github.com/LJTian/OpsBoard/internal/config"
	"github.com/LJTian/OpsBoard/internal/dashboard"
	"github.com/LJTian/OpsBoard/internal/processor"
	"github.com/LJTian/OpsBoard/internal/scheduler"
	"github.com/LJTian/OpsBoard/internal/storage"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	board, err := dashboard.New(cfg)
	if err != nil {
		log.Fatalf("init dashboard failed: %v", err)
	}

	// 归档是可选的：页面始终实时拉取，不读取归档
	var archive api.Archive
	if cfg.ArchiveEnabled() {
		store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("init store failed: %v", err)
		}
		ensureSources(store, board)

		s, err := scheduler.New(cfg.CronSpec, board.Fetchers(), processor.NewSimpleProcessor(), store)
		if err != nil {
			log.Fatalf("init scheduler failed: %v", err)
		}
		s.Start()
		archive = store
	} else {
		log.Println("archive disabled: POSTGRES_DSN not set")
	}

	r := gin.Default()
	apiServer := api.NewServer(board, archive)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting dashboard server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}

// ensureSources 确保每个栏目在归档中有对应的数据源记录
func ensureSources(store *storage.Store, board *dashboard.Board) {
	for _, c := range board.Columns {
		if _, err := store.EnsureSource(c.Fetcher.Name(), c.Title, ""); err != nil {
			log.Fatalf("ensure source %s failed: %v", c.Fetcher.Name(), err)
		}
	}
}
