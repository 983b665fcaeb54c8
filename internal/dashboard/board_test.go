package dashboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LJTian/OpsBoard/internal/collector"
	"github.com/LJTian/OpsBoard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	name    string
	records []collector.FeedRecord
	err     error
	delay   time.Duration
	calls   atomic.Int32
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch(ctx context.Context) ([]collector.FeedRecord, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.records, s.err
}

func records(n int) []collector.FeedRecord {
	out := make([]collector.FeedRecord, n)
	for i := range out {
		out[i] = collector.FeedRecord{Title: fmt.Sprintf("r%d", i), URL: fmt.Sprintf("https://example.com/%d", i)}
	}
	return out
}

func TestColumnNotices(t *testing.T) {
	col := Column{Key: "brookings", Title: "Brookings AI Blog", ErrorLabel: "Brookings Scraper", DisplayName: "Brookings"}

	tests := []struct {
		name  string
		err   error
		level string
		msg   string
	}{
		{
			name:  "status",
			err:   &collector.SourceStatusError{Source: "brookings", StatusCode: 404},
			level: LevelError,
			msg:   "Brookings Scraper Error: 404",
		},
		{
			name:  "transport",
			err:   &collector.TransportError{Source: "brookings", Err: errors.New("dial tcp: no such host")},
			level: LevelError,
			msg:   "Failed to connect to Brookings: dial tcp: no such host",
		},
		{
			name:  "empty",
			err:   &collector.EmptyResultError{Source: "brookings"},
			level: LevelWarning,
			msg:   "Could not find articles. (Structure might have changed)",
		},
		{
			name:  "other",
			err:   fmt.Errorf("brookings: parse html: %w", errors.New("boom")),
			level: LevelError,
			msg:   "An error occurred: brookings: parse html: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col.Fetcher = &stubFetcher{name: "brookings", err: tt.err}
			p := col.render(context.Background())
			assert.Empty(t, p.Records)
			assert.NotNil(t, p.Records)
			require.Len(t, p.Notices, 1)
			assert.Equal(t, tt.level, p.Notices[0].Level)
			assert.Equal(t, tt.msg, p.Notices[0].Message)
		})
	}
}

func TestColumnCapsRecords(t *testing.T) {
	col := Column{Key: "x", Title: "X", Fetcher: &stubFetcher{name: "x", records: records(9)}}
	p := col.render(context.Background())
	assert.Len(t, p.Records, collector.MaxRecords)
	assert.Empty(t, p.Notices)
}

func TestRenderIsolatesColumnErrors(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		t.Run(fmt.Sprintf("parallel=%v", parallel), func(t *testing.T) {
			b := &Board{
				Variant:  VariantFeeds,
				AssetDir: t.TempDir(),
				Parallel: parallel,
				Columns: []Column{
					{Key: "news", Title: "News", Fetcher: &stubFetcher{name: "newsapi", records: records(5), delay: 20 * time.Millisecond}},
					{Key: "discussion", Title: "Reddit", Fetcher: &stubFetcher{name: "reddit", err: &collector.TransportError{Err: errors.New("timeout")}}},
					{Key: "brookings", Title: "Brookings", Fetcher: &stubFetcher{name: "brookings", records: records(3)}},
				},
			}

			page := b.Render(context.Background())
			require.Len(t, page.Panels, 3)
			assert.Equal(t, []string{"news", "discussion", "brookings"},
				[]string{page.Panels[0].Key, page.Panels[1].Key, page.Panels[2].Key})
			assert.Len(t, page.Panels[0].Records, 5)
			assert.Empty(t, page.Panels[1].Records)
			require.Len(t, page.Panels[1].Notices, 1)
			assert.Equal(t, "Failed to connect to Reddit: timeout", page.Panels[1].Notices[0].Message)
			assert.Len(t, page.Panels[2].Records, 3)
			assert.Equal(t, PageTitle, page.Title)
			assert.Len(t, page.Dataset.Rows, 6)
		})
	}
}

func TestRenderFetchesEveryTime(t *testing.T) {
	f := &stubFetcher{name: "brookings", records: records(1)}
	b := &Board{Columns: []Column{{Key: "brookings", Fetcher: f}}}

	b.Render(context.Background())
	b.Render(context.Background())
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestPanelByKey(t *testing.T) {
	b := &Board{Columns: []Column{{Key: "brookings", Title: "Brookings", Fetcher: &stubFetcher{name: "brookings", records: records(2)}}}}

	p, ok := b.Panel(context.Background(), "brookings")
	require.True(t, ok)
	assert.Len(t, p.Records, 2)

	_, ok = b.Panel(context.Background(), "missing")
	assert.False(t, ok)
}

func TestPresentationsMissingAndPresent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FinancialAnalysisPresentation.File), []byte("<html></html>"), 0o644))

	b := &Board{
		AssetDir:      dir,
		Presentations: []Presentation{AIGovernancePresentation, FinancialAnalysisPresentation},
	}
	page := b.Render(context.Background())
	require.Len(t, page.Presentations, 2)

	missing := page.Presentations[0]
	assert.False(t, missing.Available)
	require.Len(t, missing.Notices, 2)
	assert.Equal(t, "Could not find the presentation file (ai_governance_presentation_v2.html).", missing.Notices[0].Message)
	assert.Equal(t, LevelWarning, missing.Notices[1].Level)

	present := page.Presentations[1]
	assert.True(t, present.Available)
	assert.Empty(t, present.Notices)

	_, path, err := b.Presentation(FinancialAnalysisPresentation.Key)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FinancialAnalysisPresentation.File), path)

	_, _, err = b.Presentation(AIGovernancePresentation.Key)
	var missingErr *MissingAssetError
	assert.True(t, errors.As(err, &missingErr))
}

func TestLocateAssetRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	_, err := LocateAsset(dir, "../../etc/passwd")
	var missingErr *MissingAssetError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, filepath.Join(dir, "passwd"), missingErr.Path)
}

func TestNewVariants(t *testing.T) {
	cfg := &config.Config{Variant: "feeds", AssetDir: "."}
	b, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, VariantFeeds, b.Variant)
	require.Len(t, b.Columns, 3)
	assert.Equal(t, "brookings", b.Columns[2].Key)
	assert.Len(t, b.Presentations, 1)
	assert.Len(t, b.Fetchers(), 3)

	cfg.Variant = "briefing"
	b, err = New(cfg)
	require.NoError(t, err)
	require.Len(t, b.Columns, 1)
	assert.Equal(t, "brookings", b.Columns[0].Key)
	assert.Equal(t, AIGovernancePresentation.Key, b.Presentations[0].Key)

	cfg.Variant = "bogus"
	_, err = New(cfg)
	assert.Error(t, err)
}
