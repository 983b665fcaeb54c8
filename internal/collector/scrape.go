package collector

import (
	"context"
	"fmt"
	"log"
)

const (
	DefaultScrapeURL       = "https://www.brookings.edu/topic/artificial-intelligence/"
	DefaultScrapeBaseURL   = "https://www.brookings.edu"
	DefaultScrapeLinkClass = "overlay-link"
)

// ScrapeFetcher 抓取博客列表页，按 class 找出文章链接。
// 选择器与当前页面结构强绑定，页面改版时会得到 EmptyResultError，不做备用选择器猜测。
type ScrapeFetcher struct {
	Getter    Getter
	PageURL   string
	BaseURL   string
	LinkClass string
	UserAgent string
}

func (s *ScrapeFetcher) Name() string {
	return "brookings"
}

func (s *ScrapeFetcher) Fetch(ctx context.Context) ([]FeedRecord, error) {
	log.Println("fetch brookings blog...")

	pageURL := s.PageURL
	if pageURL == "" {
		pageURL = DefaultScrapeURL
	}

	res, err := s.Getter.Get(ctx, pageURL, nil, userAgentHeader(s.UserAgent))
	if err != nil {
		return nil, withSource(err, s.Name())
	}
	if !res.OK() {
		return nil, &SourceStatusError{Source: s.Name(), StatusCode: res.StatusCode}
	}

	anchors, err := ExtractLinks(string(res.Body), s.linkClass())
	if err != nil {
		return nil, fmt.Errorf("brookings: parse html: %w", err)
	}

	records := NormalizeAnchors(anchors, s.baseURL())
	if len(records) == 0 {
		log.Printf("fetch brookings got 0 items")
		return nil, &EmptyResultError{Source: s.Name()}
	}
	return records, nil
}

func (s *ScrapeFetcher) linkClass() string {
	if s.LinkClass == "" {
		return DefaultScrapeLinkClass
	}
	return s.LinkClass
}

func (s *ScrapeFetcher) baseURL() string {
	if s.BaseURL == "" {
		return DefaultScrapeBaseURL
	}
	return s.BaseURL
}

// NormalizeAnchors 取前 5 个链接，标题为链接文本，没有署名，相对地址补全域名
func NormalizeAnchors(anchors []RawAnchor, baseDomain string) []FeedRecord {
	records := make([]FeedRecord, 0, MaxRecords)
	for _, a := range anchors {
		if len(records) == MaxRecords {
			break
		}
		if a.Href == "" {
			continue
		}
		records = append(records, FeedRecord{
			Title: a.Text,
			URL:   NormalizeURL(a.Href, baseDomain),
		})
	}
	return capRecords(records)
}
