package dashboard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	RowBottom   = "bottom"
	RowAnalysis = "analysis"
)

// Presentation 预先生成的 HTML 演示文件
type Presentation struct {
	Key       string
	Title     string
	File      string
	Height    int
	Scrolling bool
	Row       string
}

// PresentationPanel 一次渲染中演示文件的状态
type PresentationPanel struct {
	Key       string   `json:"key"`
	Title     string   `json:"title"`
	File      string   `json:"file"`
	Height    int      `json:"height"`
	Scrolling bool     `json:"scrolling"`
	Row       string   `json:"row"`
	Available bool     `json:"available"`
	Notices   []Notice `json:"notices,omitempty"`
}

var (
	AIGovernancePresentation = Presentation{
		Key:    "ai-governance",
		Title:  "The Politics of AI",
		File:   "ai_governance_presentation_v2.html",
		Height: 750,
		Row:    RowBottom,
	}
	FinancialAnalysisPresentation = Presentation{
		Key:       "financial-analysis",
		Title:     "Operations Analysis: Financial Efficiency (2019-2023)",
		File:      "tfs_financial_analysis_export.html",
		Height:    4500,
		Scrolling: true,
		Row:       RowAnalysis,
	}
)

// MissingAssetError 本地演示文件不存在
type MissingAssetError struct {
	Name string
	Path string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("asset %s not found at %s", e.Name, e.Path)
}

// LocateAsset 返回 dir 下文件的路径；不存在时返回 *MissingAssetError
func LocateAsset(dir, file string) (string, error) {
	path := filepath.Join(dir, filepath.Base(file))
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &MissingAssetError{Name: file, Path: path}
		}
		return "", err
	}
	if info.IsDir() {
		return "", &MissingAssetError{Name: file, Path: path}
	}
	return path, nil
}

func (p Presentation) render(dir string) PresentationPanel {
	panel := PresentationPanel{
		Key:       p.Key,
		Title:     p.Title,
		File:      p.File,
		Height:    p.Height,
		Scrolling: p.Scrolling,
		Row:       p.Row,
	}
	if _, err := LocateAsset(dir, p.File); err != nil {
		panel.Notices = AssetNotices(p.File, err)
		return panel
	}
	panel.Available = true
	return panel
}

// AssetNotices 缺失文件给出错误加提示，其它错误只给错误
func AssetNotices(file string, err error) []Notice {
	var missing *MissingAssetError
	if errors.As(err, &missing) {
		return []Notice{
			{Level: LevelError, Message: fmt.Sprintf("Could not find the presentation file (%s).", file)},
			{Level: LevelWarning, Message: fmt.Sprintf("Please make sure '%s' is in the asset directory.", file)},
		}
	}
	return []Notice{{Level: LevelError, Message: fmt.Sprintf("An error occurred: %v", err)}}
}
