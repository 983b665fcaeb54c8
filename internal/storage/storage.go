package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/LJTian/OpsBoard/internal/processor"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const listCacheTTL = 5 * time.Minute

// Source 描述一个信息流数据源，例如 newsapi / reddit / brookings
type Source struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Code    string `gorm:"size:64;uniqueIndex" json:"code"`
	Name    string `gorm:"size:128" json:"name"`
	BaseURL string `gorm:"size:256" json:"baseUrl"`
	Status  string `gorm:"size:32;index" json:"status"` // active / disabled

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FeedItem 归档的一条信息流记录
type FeedItem struct {
	ID          string            `gorm:"primaryKey;size:40" json:"id"`
	Title       string            `gorm:"size:512" json:"title"`
	Byline      string            `gorm:"size:256" json:"byline"`
	URL         string            `gorm:"size:1024;uniqueIndex" json:"url"`
	Source      string            `gorm:"size:64;index" json:"source"`
	Rank        int               `json:"rank"`
	PublishedAt time.Time         `gorm:"index" json:"publishedAt"`
	FetchedAt   time.Time         `gorm:"index" json:"fetchedAt"`
	FetchedDate string            `gorm:"size:10;index" json:"fetchedDate"` // YYYY-MM-DD (UTC)
	ExtraData   datatypes.JSONMap `gorm:"type:jsonb" json:"extraData"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Source{}, &FeedItem{}); err != nil {
		return nil, err
	}

	s := &Store{DB: db}
	if redisAddr == "" {
		return s, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping failed: %v", err)
	}
	s.Redis = rdb

	return s, nil
}

// EnsureSource 确保某个数据源存在
func (s *Store) EnsureSource(code, name, baseURL string) (*Source, error) {
	src := &Source{}
	if err := s.DB.Where("code = ?", code).First(src).Error; err == nil {
		return src, nil
	}

	src = &Source{
		Code:    code,
		Name:    name,
		BaseURL: baseURL,
		Status:  "active",
	}
	if err := s.DB.Create(src).Error; err != nil {
		return nil, err
	}
	return src, nil
}

// toValidUTF8 将字符串规范为合法 UTF-8，避免 PostgreSQL invalid byte sequence 错误
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// truncateRunesDB 按 rune 数截断字符串，确保不会超过数据库字段长度
func truncateRunesDB(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

// toFeedItem 转换为数据库模型，字段长度再做一次保护
func toFeedItem(it processor.ProcessedRecord) *FeedItem {
	fetched := it.FetchedAt.UTC()
	return &FeedItem{
		ID:          it.ID,
		Title:       truncateRunesDB(toValidUTF8(it.Title), 512),
		Byline:      truncateRunesDB(toValidUTF8(it.Byline), 256),
		URL:         it.URL,
		Source:      it.Source,
		Rank:        it.Rank,
		PublishedAt: it.PublishedAt,
		FetchedAt:   fetched,
		FetchedDate: fetched.Format("2006-01-02"),
		ExtraData: datatypes.JSONMap{
			"rank":   it.Rank,
			"byline": it.Byline,
		},
	}
}

// SaveBatch 保存一批记录，以 URL 作为幂等键；已存在时刷新标题、排名与采集时间
func (s *Store) SaveBatch(items []processor.ProcessedRecord) error {
	for _, it := range items {
		n := toFeedItem(it)

		if err := s.DB.Where("url = ?", it.URL).FirstOrCreate(n).Error; err != nil {
			return err
		}
		_ = s.DB.Model(n).Updates(map[string]any{
			"title":        n.Title,
			"byline":       n.Byline,
			"rank":         n.Rank,
			"fetched_at":   n.FetchedAt,
			"fetched_date": n.FetchedDate,
			"extra_data":   n.ExtraData,
		}).Error
	}

	// 不做按 key 通配删除，依赖短 TTL 的缓存自然过期
	return nil
}

func listCacheKey(source string, limit int, date string) string {
	return fmt.Sprintf("feed:list:%s:%d:%s", source, limit, date)
}

// ListRecords 按数据源与可选日期返回归档记录，最近一次采集在前，同一批内按排名
// date: 可选，格式 2006-01-02
func (s *Store) ListRecords(source string, limit int, date string) ([]FeedItem, error) {
	if limit <= 0 || limit > 1000 {
		limit = 20
	}

	ctx := context.Background()
	cacheKey := listCacheKey(source, limit, date)

	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []FeedItem
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var list []FeedItem
	db := s.DB.Model(&FeedItem{})
	if source != "" {
		db = db.Where("source = ?", source)
	}
	if date != "" {
		db = db.Where("fetched_date = ?", date)
	}
	if err := db.Order("fetched_at DESC").Order("rank ASC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}

	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}

	return list, nil
}

// ListFetchDates 返回有归档数据的日期列表（倒序）；结果缓存 5 分钟
func (s *Store) ListFetchDates(source string, limit int) ([]string, error) {
	if limit <= 0 || limit > 365 {
		limit = 31
	}
	ctx := context.Background()
	cacheKey := fmt.Sprintf("feed:dates:%s:%d", source, limit)
	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []string
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var dates []string
	db := s.DB.Model(&FeedItem{}).Distinct("fetched_date")
	if source != "" {
		db = db.Where("source = ?", source)
	}
	if err := db.Order("fetched_date DESC").Limit(limit).Pluck("fetched_date", &dates).Error; err != nil {
		return nil, err
	}

	if s.Redis != nil && len(dates) > 0 {
		if bs, err := json.Marshal(dates); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}
	return dates, nil
}
