package collector

import (
	"errors"
	"fmt"
)

// TransportError 连接失败、DNS 失败或超时
type TransportError struct {
	Source string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("transport: %v", e.Err)
	}
	return fmt.Sprintf("%s: transport: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SourceStatusError 数据源返回了非 200 状态码
type SourceStatusError struct {
	Source     string
	StatusCode int
}

func (e *SourceStatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Source, e.StatusCode)
}

// EmptyResultError 响应正常但解析不到任何条目（例如页面结构调整）
type EmptyResultError struct {
	Source string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s: no items found", e.Source)
}

var errNoResponse = errors.New("no response received")

// withSource 给传输错误补上数据源名称
func withSource(err error, source string) error {
	var te *TransportError
	if errors.As(err, &te) {
		return &TransportError{Source: source, Err: te.Err}
	}
	return fmt.Errorf("%s: %w", source, err)
}
