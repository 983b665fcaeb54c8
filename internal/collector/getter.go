package collector

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const maxResponseBytes = 2 << 20 // 2MB

// FetchResult 一次 GET 请求的原始结果
type FetchResult struct {
	StatusCode int
	Body       []byte
}

// OK 仅 200 视为成功，与各数据源约定一致
func (r *FetchResult) OK() bool {
	return r != nil && r.StatusCode == http.StatusOK
}

// Getter 发起一次带查询参数与请求头的 GET 请求。
// 传输层失败统一返回 *TransportError；非 200 状态不算错误，由调用方判断。
type Getter interface {
	Get(ctx context.Context, rawURL string, query url.Values, header http.Header) (*FetchResult, error)
}

// HTTPGetter 基于 net/http 的实现，用于 JSON 接口。不做重试与缓存。
type HTTPGetter struct {
	Client *http.Client
}

// NewHTTPGetter 使用默认传输层超时
func NewHTTPGetter() *HTTPGetter {
	return &HTTPGetter{Client: http.DefaultClient}
}

func (g *HTTPGetter) Get(ctx context.Context, rawURL string, query url.Values, header http.Header) (*FetchResult, error) {
	target, err := withQuery(rawURL, query)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return &FetchResult{StatusCode: resp.StatusCode, Body: body}, nil
}

// withQuery 把查询参数合并进 URL，保留 URL 中已有的参数
func withQuery(rawURL string, query url.Values) (string, error) {
	if len(query) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// userAgentHeader 各数据源都只需要自定义 User-Agent
func userAgentHeader(ua string) http.Header {
	h := http.Header{}
	if ua = strings.TrimSpace(ua); ua != "" {
		h.Set("User-Agent", ua)
	}
	return h
}
