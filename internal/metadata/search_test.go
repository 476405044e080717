package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EtsTest-AndroidApps/QReader/internal/sources"
)

const searchPage = `<html><body>
<ul class="result">
  <li>
    <a href="/book/lord-of-mysteries_11022733006234505" title="Lord of Mysteries" data-bid="11022733006234505">Lord of Mysteries</a>
    <span class="author">Cuttlefish That Loves Diving</span>
  </li>
  <li>
    <a href="//www.example.com/book/lord-of-mysteries-2_23813623005800605" title="Lord of Mysteries 2" data-bid="23813623005800605">Lord of Mysteries 2</a>
  </li>
  <li>
    <a href="/book/lord-of-mysteries_11022733006234505" title="Lord of Mysteries" data-bid="11022733006234505">duplicate cover link</a>
  </li>
  <li><a href="/tag/mystery">no book id</a></li>
</ul>
</body></html>`

func TestWebNovelSearch_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Lord of Mysteries", r.URL.Query().Get("keywords"))
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(searchPage))
	}))
	defer server.Close()

	search, err := NewWebNovelSearch(sources.ClientConfig{BaseURL: server.URL, Timeout: 2 * time.Second}, 0)
	require.NoError(t, err)

	results, err := search.Search(context.Background(), "Lord of Mysteries")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "11022733006234505", results[0].ID)
	assert.Equal(t, "Lord of Mysteries", results[0].Name)
	assert.Equal(t, server.URL+"/book/lord-of-mysteries_11022733006234505", results[0].Link)
	assert.Equal(t, "Cuttlefish That Loves Diving", results[0].Author)

	assert.Equal(t, "http://www.example.com/book/lord-of-mysteries-2_23813623005800605", results[1].Link)
}

func TestWebNovelSearch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	search, err := NewWebNovelSearch(sources.ClientConfig{BaseURL: server.URL}, 0)
	require.NoError(t, err)

	_, err = search.Search(context.Background(), "anything")
	assert.Error(t, err)
}

func TestWebNovelSearch_RequiresKeywords(t *testing.T) {
	search, err := NewWebNovelSearch(sources.ClientConfig{BaseURL: "http://localhost"}, 0)
	require.NoError(t, err)

	_, err = search.Search(context.Background(), "  ")
	assert.Error(t, err)
}

func TestBestMatch(t *testing.T) {
	results := []SearchResult{
		{ID: "1", Name: "Lord of Mysteries 2"},
		{ID: "2", Name: "lord of mysteries"},
	}

	match, ok := BestMatch("Lord of Mysteries", results)
	require.True(t, ok)
	assert.Equal(t, "2", match.ID)

	match, ok = BestMatch("Something Else", results)
	require.True(t, ok)
	assert.Equal(t, "1", match.ID)

	_, ok = BestMatch("Anything", nil)
	assert.False(t, ok)
}

func TestRateLimiter_RespectsContext(t *testing.T) {
	limiter := newRateLimiter(time.Hour)
	require.NoError(t, limiter.wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, limiter.wait(ctx), context.Canceled)
}
