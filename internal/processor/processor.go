package processor

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/LJTian/OpsBoard/internal/collector"
)

// ProcessedRecord 是写入归档前的统一结构
type ProcessedRecord struct {
	ID          string
	Source      string
	Title       string
	Byline      string
	URL         string
	Rank        int
	PublishedAt time.Time
	FetchedAt   time.Time
}

// SimpleProcessor 做最基础的清洗、去重与 ID 生成
type SimpleProcessor struct{}

func NewSimpleProcessor() *SimpleProcessor {
	return &SimpleProcessor{}
}

// Process 按原顺序编号；同一批次中 URL 重复的只保留第一条
func (p *SimpleProcessor) Process(source string, records []collector.FeedRecord, fetchedAt time.Time) []ProcessedRecord {
	out := make([]ProcessedRecord, 0, len(records))
	seen := make(map[string]struct{})

	for _, r := range records {
		if strings.TrimSpace(r.URL) == "" {
			continue
		}
		id := hashURL(r.URL)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		published := r.PublishedAt
		if published.IsZero() {
			published = fetchedAt
		}

		out = append(out, ProcessedRecord{
			ID:          id,
			Source:      source,
			Title:       truncateRunes(strings.TrimSpace(r.Title), maxTitleRunes),
			Byline:      truncateRunes(strings.TrimSpace(r.Byline), maxBylineRunes),
			URL:         r.URL,
			Rank:        len(out) + 1,
			PublishedAt: published,
			FetchedAt:   fetchedAt,
		})
	}

	return out
}

const (
	maxTitleRunes  = 500
	maxBylineRunes = 200
)

func hashURL(url string) string {
	h := sha1.New()
	h.Write([]byte(url))
	return hex.EncodeToString(h.Sum(nil))
}

// truncateRunes 按 rune 截断，超出时追加省略号
func truncateRunes(s string, limit int) string {
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit]) + "…"
}
