package dashboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/LJTian/OpsBoard/internal/dataset"
	"github.com/mattn/go-runewidth"
)

const minTextWidth = 20

// WriteText 以纯文本输出一次渲染结果，标题按显示宽度截断
func WriteText(w io.Writer, page *Page, width int) error {
	if width < minTextWidth {
		width = minTextWidth
	}
	tw := &textWriter{w: w}

	tw.printf("%s\n%s\n\n", page.Title, strings.Repeat("=", runewidth.StringWidth(page.Title)))
	writeDatasetText(tw, page.Dataset)

	for _, p := range page.Panels {
		tw.printf("\n## %s\n", p.Title)
		for _, n := range p.Notices {
			tw.printf("[%s] %s\n", n.Level, n.Message)
		}
		for i, r := range p.Records {
			title := runewidth.Truncate(r.Title, width-4, "…")
			tw.printf("%d. %s\n", i+1, title)
			if r.Byline != "" {
				tw.printf("   %s\n", runewidth.Truncate(r.Byline, width-3, "…"))
			}
			tw.printf("   %s\n", r.URL)
		}
	}

	for _, p := range page.Presentations {
		tw.printf("\n## %s\n", p.Title)
		if p.Available {
			tw.printf("   %s\n", p.File)
		}
		for _, n := range p.Notices {
			tw.printf("[%s] %s\n", n.Level, n.Message)
		}
	}
	return tw.err
}

// WriteDatasetText 只输出固定数据表
func WriteDatasetText(w io.Writer, s dataset.Series) error {
	tw := &textWriter{w: w}
	writeDatasetText(tw, s)
	return tw.err
}

func writeDatasetText(tw *textWriter, s dataset.Series) {
	tw.printf("%s\n", s.Title)
	tw.printf("%-6s %-22s %12s %10s\n", "Year", "Location", "Participants", "Countries")
	for _, r := range s.Rows {
		countries := "no data"
		if r.HasCountries() {
			countries = fmt.Sprint(*r.Countries)
		}
		tw.printf("%-6d %s %12d %10s\n", r.Year, runewidth.FillRight(r.Location, 22), r.Participants, countries)
	}
	tw.printf("%s\n", s.Caption)
}

// textWriter 记住第一个写入错误，后续写入直接跳过
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}
