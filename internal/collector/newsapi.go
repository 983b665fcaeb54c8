package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultNewsAPIURL = "https://newsapi.org/v2/everything"
	newsAPISortBy     = "popularity"
)

// NewsAPIFetcher 通过新闻搜索接口（NewsAPI 格式）按关键词拉取热门文章
type NewsAPIFetcher struct {
	Getter    Getter
	Endpoint  string
	APIKey    string
	Keywords  []string
	UserAgent string
}

func (n *NewsAPIFetcher) Name() string {
	return "newsapi"
}

// 对应 /v2/everything 的响应结构，字段均可能缺失
type newsAPIResp struct {
	Status   string           `json:"status"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Source *struct {
		Name *string `json:"name"`
	} `json:"source"`
	PublishedAt *string `json:"publishedAt"`
	URL         *string `json:"url"`
}

func (n *NewsAPIFetcher) Fetch(ctx context.Context) ([]FeedRecord, error) {
	log.Println("fetch news search...")

	endpoint := n.Endpoint
	if endpoint == "" {
		endpoint = DefaultNewsAPIURL
	}
	q := url.Values{}
	q.Set("q", KeywordQuery(n.Keywords))
	q.Set("sortBy", newsAPISortBy)
	q.Set("apiKey", n.APIKey)

	res, err := n.Getter.Get(ctx, endpoint, q, userAgentHeader(n.UserAgent))
	if err != nil {
		return nil, withSource(err, n.Name())
	}
	if !res.OK() {
		return nil, &SourceStatusError{Source: n.Name(), StatusCode: res.StatusCode}
	}

	records, err := NormalizeNewsAPI(res.Body)
	if err != nil {
		return nil, fmt.Errorf("newsapi: decode response: %w", err)
	}
	if len(records) == 0 {
		return nil, &EmptyResultError{Source: n.Name()}
	}
	return records, nil
}

// NormalizeNewsAPI 把 NewsAPI 响应映射为 FeedRecord，保持 popularity 排序并截断到 5 条。
// author 为空时用 source.name 兜底。
func NormalizeNewsAPI(body []byte) ([]FeedRecord, error) {
	var payload newsAPIResp
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	records := make([]FeedRecord, 0, MaxRecords)
	for _, a := range payload.Articles {
		if len(records) == MaxRecords {
			break
		}
		link := strings.TrimSpace(deref(a.URL))
		if link == "" {
			continue
		}

		byline := strings.TrimSpace(deref(a.Author))
		if byline == "" && a.Source != nil {
			byline = strings.TrimSpace(deref(a.Source.Name))
		}

		records = append(records, FeedRecord{
			Title:       strings.TrimSpace(deref(a.Title)),
			Byline:      byline,
			URL:         link,
			PublishedAt: parseTime(deref(a.PublishedAt)),
		})
	}
	return capRecords(records), nil
}

// KeywordQuery 拼成 "a" OR "b" 形式的搜索表达式
func KeywordQuery(keywords []string) string {
	parts := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		parts = append(parts, `"`+k+`"`)
	}
	return strings.Join(parts, " OR ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
