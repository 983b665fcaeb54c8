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

func newsArticlesJSON(n int) string {
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, fmt.Sprintf(
			`{"title":"Article %d","author":"Author %d","source":{"name":"Wire"},"publishedAt":"2024-05-0%dT10:00:00Z","url":"https://news.example.com/%d"}`,
			i, i, i%9+1, i))
	}
	return `{"status":"ok","articles":[` + strings.Join(parts, ",") + `]}`
}

func TestNormalizeNewsAPITruncatesInSourceOrder(t *testing.T) {
	records, err := NormalizeNewsAPI([]byte(newsArticlesJSON(8)))
	require.NoError(t, err)
	require.Len(t, records, MaxRecords)

	for i, r := range records {
		assert.Equal(t, fmt.Sprintf("Article %d", i+1), r.Title)
		assert.Equal(t, fmt.Sprintf("https://news.example.com/%d", i+1), r.URL)
		assert.NotEmpty(t, r.URL)
	}
	assert.False(t, records[0].PublishedAt.IsZero())
}

func TestNormalizeNewsAPIBylineFallback(t *testing.T) {
	body := `{"articles":[
		{"title":"Null author","author":null,"source":{"name":"Reuters"},"url":"https://a.example.com/1"},
		{"title":"Empty author","author":"","source":{"name":"AP"},"url":"https://a.example.com/2"},
		{"title":"No author field","source":{"name":"BBC"},"url":"https://a.example.com/3"},
		{"title":"Nothing","url":"https://a.example.com/4"},
		{"title":"Has author","author":"Jane Doe","source":{"name":"Reuters"},"url":"https://a.example.com/5"}
	]}`
	records, err := NormalizeNewsAPI([]byte(body))
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, "Reuters", records[0].Byline)
	assert.Equal(t, "AP", records[1].Byline)
	assert.Equal(t, "BBC", records[2].Byline)
	assert.Equal(t, "", records[3].Byline)
	assert.Equal(t, "Jane Doe", records[4].Byline)
}

func TestNormalizeNewsAPISkipsArticlesWithoutURL(t *testing.T) {
	body := `{"articles":[
		{"title":"No url"},
		{"title":"Blank url","url":"  "},
		{"title":"Kept","url":"https://a.example.com/kept"}
	]}`
	records, err := NormalizeNewsAPI([]byte(body))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Kept", records[0].Title)
}

func TestNormalizeNewsAPIEmptyAndInvalid(t *testing.T) {
	records, err := NormalizeNewsAPI([]byte(`{"status":"ok","articles":[]}`))
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = NormalizeNewsAPI([]byte(`not json`))
	assert.Error(t, err)
}

func TestKeywordQuery(t *testing.T) {
	assert.Equal(t, `"AI governance" OR "AI policy"`, KeywordQuery([]string{"AI governance", " ", "AI policy "}))
	assert.Equal(t, "", KeywordQuery(nil))
}

func TestNewsAPIFetcherSendsQueryAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `"AI governance" OR "AI safety"`, r.URL.Query().Get("q"))
		assert.Equal(t, "popularity", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "secret", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "OpsBoard-Test/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(newsArticlesJSON(7)))
	}))
	defer srv.Close()

	f := &NewsAPIFetcher{
		Getter:    NewHTTPGetter(),
		Endpoint:  srv.URL,
		APIKey:    "secret",
		Keywords:  []string{"AI governance", "AI safety"},
		UserAgent: "OpsBoard-Test/1.0",
	}
	records, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, MaxRecords)
}

func TestNewsAPIFetcherStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid"}`))
	}))
	defer srv.Close()

	f := &NewsAPIFetcher{Getter: NewHTTPGetter(), Endpoint: srv.URL}
	records, err := f.Fetch(context.Background())
	assert.Empty(t, records)

	var statusErr *SourceStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "newsapi", statusErr.Source)
}

func TestNewsAPIFetcherTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	f := &NewsAPIFetcher{Getter: NewHTTPGetter(), Endpoint: endpoint}
	_, err := f.Fetch(context.Background())

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "newsapi", transportErr.Source)
	assert.Error(t, transportErr.Unwrap())
}

func TestNewsAPIFetcherEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":0,"articles":[]}`))
	}))
	defer srv.Close()

	f := &NewsAPIFetcher{Getter: NewHTTPGetter(), Endpoint: srv.URL}
	_, err := f.Fetch(context.Background())

	var emptyErr *EmptyResultError
	assert.True(t, errors.As(err, &emptyErr))
}
