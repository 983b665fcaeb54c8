package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/LJTian/OpsBoard/internal/collector"
)

const (
	LevelError   = "error"
	LevelWarning = "warning"

	defaultEmptyMessage = "Could not find articles. (Structure might have changed)"
)

// Notice 栏目内展示给用户的提示，只影响所在栏目
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Column 页面上的一个信息流栏目
type Column struct {
	Key   string
	Title string
	// ErrorLabel 用于 "<label> Error: <code>"
	ErrorLabel string
	// DisplayName 用于 "Failed to connect to <name>: ..."
	DisplayName  string
	EmptyMessage string
	Fetcher      collector.Fetcher
}

// Panel 一次渲染中某个栏目的结果
type Panel struct {
	Key     string                 `json:"key"`
	Title   string                 `json:"title"`
	Records []collector.FeedRecord `json:"records"`
	Notices []Notice               `json:"notices,omitempty"`
}

// render 拉取并归一化，任何错误都转为本栏目的提示，不向外传播
func (c Column) render(ctx context.Context) Panel {
	p := Panel{Key: c.Key, Title: c.Title, Records: []collector.FeedRecord{}}

	records, err := c.Fetcher.Fetch(ctx)
	if err != nil {
		log.Printf("fetch %s error: %v", c.Fetcher.Name(), err)
		p.Notices = c.noticesFor(err)
		return p
	}
	if len(records) > collector.MaxRecords {
		records = records[:collector.MaxRecords]
	}
	p.Records = records
	return p
}

func (c Column) noticesFor(err error) []Notice {
	var (
		transportErr *collector.TransportError
		statusErr    *collector.SourceStatusError
		emptyErr     *collector.EmptyResultError
	)
	switch {
	case errors.As(err, &transportErr):
		return []Notice{{Level: LevelError, Message: fmt.Sprintf("Failed to connect to %s: %v", c.displayName(), transportErr.Err)}}
	case errors.As(err, &statusErr):
		return []Notice{{Level: LevelError, Message: fmt.Sprintf("%s Error: %d", c.errorLabel(), statusErr.StatusCode)}}
	case errors.As(err, &emptyErr):
		msg := c.EmptyMessage
		if msg == "" {
			msg = defaultEmptyMessage
		}
		return []Notice{{Level: LevelWarning, Message: msg}}
	default:
		return []Notice{{Level: LevelError, Message: fmt.Sprintf("An error occurred: %v", err)}}
	}
}

func (c Column) displayName() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Title
}

func (c Column) errorLabel() string {
	if c.ErrorLabel != "" {
		return c.ErrorLabel
	}
	return c.displayName()
}
