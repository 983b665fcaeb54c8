package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/LJTian/OpsBoard/internal/collector"
	"github.com/LJTian/OpsBoard/internal/config"
	"github.com/LJTian/OpsBoard/internal/processor"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 2 * time.Minute

// Saver 归档写入，通常是 *storage.Store
type Saver interface {
	SaveBatch(items []processor.ProcessedRecord) error
}

type Scheduler struct {
	cron      *cron.Cron
	fetchers  []collector.Fetcher
	processor *processor.SimpleProcessor
	store     Saver
}

func New(spec string, fetchers []collector.Fetcher, p *processor.SimpleProcessor, store Saver) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:      c,
		fetchers:  fetchers,
		processor: p,
		store:     store,
	}

	_, err := c.AddFunc(spec, s.runOnce)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// 延迟执行首轮归档，避免与首次打开页面的实时拉取同时访问数据源
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() {
		go s.runOnce()
	})
}

// Stop 停止定时任务，等待正在执行的任务结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce 对外暴露的单次执行入口，方便手动触发归档
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	log.Println("start archive job...")

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, f := range s.fetchers {
		fetcher := f
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fetcher.Name()
			log.Printf("fetch from %s...", name)
			records, err := fetcher.Fetch(ctx)
			if err != nil {
				log.Printf("fetch %s error: %v", name, err)
				return
			}
			processed := s.processor.Process(name, records, config.Now())
			if len(processed) == 0 {
				log.Printf("fetch %s got 0 items", name)
				return
			}
			if err := s.store.SaveBatch(processed); err != nil {
				log.Printf("save %s batch error: %v", name, err)
				return
			}
			log.Printf("%s done, fetched=%d saved=%d items", name, len(records), len(processed))
		}()
	}

	wg.Wait()
	log.Println("archive job done (all sources)")
}
