package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blogIndexHTML(n int) string {
	var b strings.Builder
	b.WriteString("<html><body><main>")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<article><a class="overlay-link" href="/articles/post-%d/">Post %d</a></article>`, i, i)
	}
	b.WriteString("</main></body></html>")
	return b.String()
}

func TestScrapeFetcherTakesFirstFiveInDocumentOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OpsBoard-Test/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(blogIndexHTML(8)))
	}))
	defer srv.Close()

	f := &ScrapeFetcher{
		Getter:    &CollyGetter{},
		PageURL:   srv.URL,
		BaseURL:   "https://www.brookings.edu",
		UserAgent: "OpsBoard-Test/1.0",
	}
	records, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, MaxRecords)

	for i, r := range records {
		assert.Equal(t, fmt.Sprintf("Post %d", i+1), r.Title)
		assert.Equal(t, fmt.Sprintf("https://www.brookings.edu/articles/post-%d/", i+1), r.URL)
		assert.Empty(t, r.Byline)
	}
}

func TestScrapeFetcherNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := &ScrapeFetcher{Getter: &CollyGetter{}, PageURL: srv.URL}
	records, err := f.Fetch(context.Background())
	assert.Empty(t, records)

	var statusErr *SourceStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestScrapeFetcherStructureChanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><a class="card-link" href="/a/">A</a></body></html>`))
	}))
	defer srv.Close()

	f := &ScrapeFetcher{Getter: &CollyGetter{}, PageURL: srv.URL}
	_, err := f.Fetch(context.Background())

	var emptyErr *EmptyResultError
	require.True(t, errors.As(err, &emptyErr))
	assert.Equal(t, "brookings", emptyErr.Source)
}

func TestScrapeFetcherWithHTTPGetter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(blogIndexHTML(2)))
	}))
	defer srv.Close()

	f := &ScrapeFetcher{Getter: NewHTTPGetter(), PageURL: srv.URL, BaseURL: srv.URL}
	records, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, srv.URL+"/articles/post-1/", records[0].URL)
}

func TestCollyGetterTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL
	srv.Close()

	_, err := (&CollyGetter{}).Get(context.Background(), target, nil, nil)
	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestNormalizeAnchorsLengthLaw(t *testing.T) {
	for _, n := range []int{0, 1, 5, 6, 40} {
		anchors := make([]RawAnchor, n)
		for i := range anchors {
			anchors[i] = RawAnchor{Text: fmt.Sprintf("a%d", i), Href: fmt.Sprintf("/p/%d", i)}
		}
		records := NormalizeAnchors(anchors, "https://example.org")
		assert.LessOrEqual(t, len(records), MaxRecords)
		for _, r := range records {
			assert.True(t, strings.HasPrefix(r.URL, "https://example.org/p/"))
		}
	}
}
