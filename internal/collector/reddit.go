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
	DefaultRedditSearchURL = "https://www.reddit.com/search.json"
	redditBaseURL          = "https://www.reddit.com"
	redditSort             = "new"
	redditDeletedAuthor    = "[deleted]"
)

// RedditFetcher 通过 Reddit 搜索接口按关键词拉取最新帖子
type RedditFetcher struct {
	Getter    Getter
	Endpoint  string
	Keywords  []string
	UserAgent string
}

func (r *RedditFetcher) Name() string {
	return "reddit"
}

// 对应 search.json 的 Listing 结构
type redditListing struct {
	Data *struct {
		Children []struct {
			Data *redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title      *string  `json:"title"`
	Author     *string  `json:"author"`
	Subreddit  *string  `json:"subreddit"`
	Permalink  *string  `json:"permalink"`
	CreatedUTC *float64 `json:"created_utc"`
}

func (r *RedditFetcher) Fetch(ctx context.Context) ([]FeedRecord, error) {
	log.Println("fetch reddit search...")

	endpoint := r.Endpoint
	if endpoint == "" {
		endpoint = DefaultRedditSearchURL
	}
	q := url.Values{}
	q.Set("q", KeywordQuery(r.Keywords))
	q.Set("sort", redditSort)

	res, err := r.Getter.Get(ctx, endpoint, q, userAgentHeader(r.UserAgent))
	if err != nil {
		return nil, withSource(err, r.Name())
	}
	if !res.OK() {
		return nil, &SourceStatusError{Source: r.Name(), StatusCode: res.StatusCode}
	}

	records, err := NormalizeReddit(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reddit: decode response: %w", err)
	}
	if len(records) == 0 {
		return nil, &EmptyResultError{Source: r.Name()}
	}
	return records, nil
}

// NormalizeReddit 把搜索结果映射为 FeedRecord，保持 new 排序并截断到 5 条。
// 没有 permalink 的帖子无法生成链接，直接跳过。
func NormalizeReddit(body []byte) ([]FeedRecord, error) {
	var listing redditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, err
	}
	if listing.Data == nil {
		return []FeedRecord{}, nil
	}

	records := make([]FeedRecord, 0, MaxRecords)
	for _, child := range listing.Data.Children {
		if len(records) == MaxRecords {
			break
		}
		p := child.Data
		if p == nil {
			continue
		}
		permalink := strings.TrimSpace(deref(p.Permalink))
		if permalink == "" {
			continue
		}

		var published time.Time
		if p.CreatedUTC != nil {
			published = time.Unix(int64(*p.CreatedUTC), 0).UTC()
		}

		records = append(records, FeedRecord{
			Title:       strings.TrimSpace(deref(p.Title)),
			Byline:      redditByline(deref(p.Author), deref(p.Subreddit)),
			URL:         redditPermalinkURL(permalink),
			PublishedAt: published,
		})
	}
	return capRecords(records), nil
}

func redditByline(author, subreddit string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		author = redditDeletedAuthor
	}
	subreddit = strings.TrimSpace(subreddit)
	if subreddit == "" {
		return "posted by " + author
	}
	return "posted by " + author + " in " + subreddit
}

// redditPermalinkURL 拼接站点前缀，permalink 缺少前导斜杠时补上，避免出现 // 或缺失分隔
func redditPermalinkURL(permalink string) string {
	return redditBaseURL + "/" + strings.TrimLeft(permalink, "/")
}
