package collector

import (
	"context"
	"time"
)

// MaxRecords 每个信息流栏目最多展示的条数
const MaxRecords = 5

// FeedRecord 各数据源归一化后的统一展示结构
type FeedRecord struct {
	Title  string `json:"title"`
	Byline string `json:"byline"`
	// URL 总是绝对地址，且不为空
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

// RawAnchor 从 HTML 中抽取的原始链接，归一化后即丢弃
type RawAnchor struct {
	Text string
	Href string
}

// Fetcher 抽象每一个信息流数据源
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]FeedRecord, error)
}

// capRecords 截断到前 MaxRecords 条，保持数据源的自然顺序
func capRecords(records []FeedRecord) []FeedRecord {
	if len(records) > MaxRecords {
		return records[:MaxRecords]
	}
	return records
}
