package collector

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gocolly/colly/v2"
)

// CollyGetter 基于 colly 的实现，用于抓取 HTML 页面。
// 开启 ParseHTTPErrorResponse，使 404 等状态码也能交回调用方判断。
type CollyGetter struct {
	UserAgent string
}

func (g *CollyGetter) Get(ctx context.Context, rawURL string, query url.Values, header http.Header) (*FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Err: err}
	}

	target, err := withQuery(rawURL, query)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	opts := []colly.CollectorOption{
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(maxResponseBytes),
	}
	if g.UserAgent != "" {
		opts = append(opts, colly.UserAgent(g.UserAgent))
	}
	c := colly.NewCollector(opts...)

	var result *FetchResult
	c.OnResponse(func(r *colly.Response) {
		result = &FetchResult{StatusCode: r.StatusCode, Body: r.Body}
	})

	if err := c.Request(http.MethodGet, target, nil, nil, header.Clone()); err != nil {
		// 带状态码的响应已在 OnResponse 中记录，只有拿不到响应才算传输错误
		if result == nil {
			return nil, &TransportError{Err: err}
		}
	}
	if result == nil {
		return nil, &TransportError{Err: errNoResponse}
	}
	return result, nil
}
