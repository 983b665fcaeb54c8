package collector

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks 找出 class 包含 className 的所有 <a>，按文档顺序返回文本与 href。
// 没有 href（或 href 为空）的链接直接跳过；空文档或无匹配返回空切片。
func ExtractLinks(html, className string) ([]RawAnchor, error) {
	anchors := []RawAnchor{}
	className = strings.TrimSpace(className)
	if strings.TrimSpace(html) == "" || className == "" {
		return anchors, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if !s.HasClass(className) {
			return
		}
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		anchors = append(anchors, RawAnchor{
			Text: strings.TrimSpace(s.Text()),
			Href: strings.TrimSpace(href),
		})
	})
	return anchors, nil
}

// NormalizeURL 以 http 开头的原样返回，否则拼接到 baseDomain 之后。
// 不做其它合法性校验，相对路径原样拼接。
func NormalizeURL(rawURL, baseDomain string) string {
	if strings.HasPrefix(rawURL, "http") {
		return rawURL
	}
	return baseDomain + rawURL
}
