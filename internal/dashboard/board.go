package dashboard

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/LJTian/OpsBoard/internal/collector"
	"github.com/LJTian/OpsBoard/internal/config"
	"github.com/LJTian/OpsBoard/internal/dataset"
	"golang.org/x/sync/errgroup"
)

const PageTitle = "TFS Operations Dashboard"

// Variant 页面变体，只在底部一行的内容上不同
type Variant string

const (
	// VariantFeeds 底部一行：新闻搜索、Reddit 讨论、Brookings 博客
	VariantFeeds Variant = "feeds"
	// VariantBriefing 底部一行：AI 治理演示 + Brookings 博客
	VariantBriefing Variant = "briefing"
)

// ParseVariant 未知取值返回错误
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantFeeds, VariantBriefing:
		return Variant(s), nil
	case "":
		return VariantFeeds, nil
	}
	return "", fmt.Errorf("unknown dashboard variant %q", s)
}

// Page 一次完整渲染的结果
type Page struct {
	Title         string              `json:"title"`
	Variant       Variant             `json:"variant"`
	Dataset       dataset.Series      `json:"dataset"`
	Panels        []Panel             `json:"panels"`
	Presentations []PresentationPanel `json:"presentations"`
	RenderedAt    time.Time           `json:"renderedAt"`
}

// Board 持有栏目与演示文件配置，本身无状态，每次 Render 都重新拉取
type Board struct {
	Variant       Variant
	Columns       []Column
	Presentations []Presentation
	AssetDir      string
	// Parallel 为 true 时各栏目并发拉取，结果仍按栏目顺序排列
	Parallel bool
}

// Render 执行一次渲染：每个栏目独立拉取，错误只落在各自栏目上
func (b *Board) Render(ctx context.Context) *Page {
	page := &Page{
		Title:         PageTitle,
		Variant:       b.Variant,
		Dataset:       dataset.BuildSeries(dataset.Rows()),
		Panels:        b.renderColumns(ctx),
		Presentations: make([]PresentationPanel, 0, len(b.Presentations)),
		RenderedAt:    config.Now(),
	}
	for _, p := range b.Presentations {
		page.Presentations = append(page.Presentations, p.render(b.AssetDir))
	}
	return page
}

// Panel 只渲染单个栏目
func (b *Board) Panel(ctx context.Context, key string) (Panel, bool) {
	for _, c := range b.Columns {
		if c.Key == key {
			return c.render(ctx), true
		}
	}
	return Panel{}, false
}

// Presentation 按 key 查找演示文件并定位到磁盘路径
func (b *Board) Presentation(key string) (Presentation, string, error) {
	for _, p := range b.Presentations {
		if p.Key == key {
			path, err := LocateAsset(b.AssetDir, p.File)
			return p, path, err
		}
	}
	return Presentation{}, "", fmt.Errorf("unknown presentation %q", key)
}

// Fetchers 返回所有栏目的数据源，供归档任务使用
func (b *Board) Fetchers() []collector.Fetcher {
	out := make([]collector.Fetcher, 0, len(b.Columns))
	for _, c := range b.Columns {
		out = append(out, c.Fetcher)
	}
	return out
}

func (b *Board) renderColumns(ctx context.Context) []Panel {
	panels := make([]Panel, len(b.Columns))
	if !b.Parallel {
		for i, c := range b.Columns {
			panels[i] = c.render(ctx)
		}
		return panels
	}

	// 各栏目互不影响：render 不返回错误，一个栏目失败不会取消其它栏目
	var g errgroup.Group
	for i, c := range b.Columns {
		i, c := i, c
		g.Go(func() error {
			panels[i] = c.render(ctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("render columns: %v", err)
	}
	return panels
}

// New 按配置组装页面
func New(cfg *config.Config) (*Board, error) {
	variant, err := ParseVariant(cfg.Variant)
	if err != nil {
		return nil, err
	}

	b := &Board{
		Variant:  variant,
		AssetDir: cfg.AssetDir,
		Parallel: cfg.Parallel,
	}

	scrape := BrookingsColumn(cfg)
	switch variant {
	case VariantBriefing:
		b.Columns = []Column{scrape}
		b.Presentations = []Presentation{AIGovernancePresentation, FinancialAnalysisPresentation}
	default:
		b.Columns = []Column{NewsColumn(cfg), RedditColumn(cfg), scrape}
		b.Presentations = []Presentation{FinancialAnalysisPresentation}
	}
	return b, nil
}

func NewsColumn(cfg *config.Config) Column {
	return Column{
		Key:          "news",
		Title:        "AI Policy in the News",
		ErrorLabel:   "News API",
		DisplayName:  "News API",
		EmptyMessage: "No matching news articles found.",
		Fetcher: &collector.NewsAPIFetcher{
			Getter:    collector.NewHTTPGetter(),
			Endpoint:  cfg.NewsAPIURL,
			APIKey:    cfg.NewsAPIKey,
			Keywords:  cfg.Keywords,
			UserAgent: cfg.UserAgent,
		},
	}
}

func RedditColumn(cfg *config.Config) Column {
	return Column{
		Key:          "discussion",
		Title:        "Reddit Discussions",
		ErrorLabel:   "Reddit",
		DisplayName:  "Reddit",
		EmptyMessage: "No matching discussions found.",
		Fetcher: &collector.RedditFetcher{
			Getter:    collector.NewHTTPGetter(),
			Endpoint:  cfg.RedditSearchURL,
			Keywords:  cfg.Keywords,
			UserAgent: cfg.UserAgent,
		},
	}
}

func BrookingsColumn(cfg *config.Config) Column {
	return Column{
		Key:         "brookings",
		Title:       "Brookings AI Blog",
		ErrorLabel:  "Brookings Scraper",
		DisplayName: "Brookings",
		Fetcher: &collector.ScrapeFetcher{
			Getter:    &collector.CollyGetter{UserAgent: cfg.UserAgent},
			PageURL:   cfg.ScrapeURL,
			BaseURL:   cfg.ScrapeBaseURL,
			LinkClass: cfg.ScrapeLinkClass,
			UserAgent: cfg.UserAgent,
		},
	}
}
