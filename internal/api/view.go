package api

import (
	"embed"
	"html/template"
	"strconv"
	"time"

	"github.com/LJTian/OpsBoard/internal/dashboard"
	"github.com/LJTian/OpsBoard/internal/dataset"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
}

// bar 柱状图的一根柱子，Percent 为相对最大值的高度
type bar struct {
	Label   string
	Value   string
	Percent int
	Missing bool
}

type pageView struct {
	*dashboard.Page
	ParticipantBars []bar
	CountryBars     []bar
	BottomRow       []dashboard.PresentationPanel
	AnalysisRow     []dashboard.PresentationPanel
}

func newPageView(page *dashboard.Page) pageView {
	v := pageView{
		Page:            page,
		ParticipantBars: bars(page.Dataset.Participants),
		CountryBars:     bars(page.Dataset.Countries),
	}
	for _, p := range page.Presentations {
		if p.Row == dashboard.RowBottom {
			v.BottomRow = append(v.BottomRow, p)
		} else {
			v.AnalysisRow = append(v.AnalysisRow, p)
		}
	}
	return v
}

func bars(points []dataset.Point) []bar {
	top := 0
	for _, p := range points {
		if p.Value > top {
			top = p.Value
		}
	}
	out := make([]bar, 0, len(points))
	for _, p := range points {
		b := bar{Label: strconv.Itoa(p.Year), Value: strconv.Itoa(p.Value), Missing: p.Missing}
		if p.Missing {
			b.Value = "n/a"
		}
		if top > 0 {
			b.Percent = p.Value * 100 / top
		}
		out = append(out, b)
	}
	return out
}
