package metadata

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/EtsTest-AndroidApps/QReader/internal/sources"
)

const searchPath = "/search"

// SearchResult is one book listed on the web-novel search page.
type SearchResult struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Link   string `json:"link"`
	Author string `json:"author,omitempty"`
}

// WebNovelSearch scrapes the web-novel provider's search page.
type WebNovelSearch struct {
	http        *resty.Client
	baseURL     *url.URL
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if since := time.Since(r.lastCall); since < r.interval {
		timer := time.NewTimer(r.interval - since)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.lastCall = time.Now()
	return nil
}

// NewWebNovelSearch creates a search client limited to one request per interval.
func NewWebNovelSearch(cfg sources.ClientConfig, interval time.Duration) (*WebNovelSearch, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &WebNovelSearch{
		http:        sources.NewClient(cfg),
		baseURL:     base,
		rateLimiter: newRateLimiter(interval),
	}, nil
}

// Search returns the books matching keywords, in page order.
func (s *WebNovelSearch) Search(ctx context.Context, keywords string) ([]SearchResult, error) {
	if strings.TrimSpace(keywords) == "" {
		return nil, fmt.Errorf("keywords are required")
	}
	if err := s.rateLimiter.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("keywords", keywords).
		Get(searchPath)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("search books: unexpected status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}
	return s.parseResults(doc), nil
}

func (s *WebNovelSearch) parseResults(doc *goquery.Document) []SearchResult {
	var results []SearchResult
	seen := make(map[string]struct{})

	doc.Find("li a[data-bid]").Each(func(i int, sel *goquery.Selection) {
		id := strings.TrimSpace(sel.AttrOr("data-bid", ""))
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}

		name := strings.TrimSpace(sel.AttrOr("title", ""))
		if name == "" {
			name = strings.TrimSpace(sel.Text())
		}
		href := sel.AttrOr("href", "")
		if href == "" {
			return
		}

		seen[id] = struct{}{}
		results = append(results, SearchResult{
			ID:     id,
			Name:   name,
			Link:   s.resolve(href),
			Author: strings.TrimSpace(sel.Closest("li").Find(".author").First().Text()),
		})
	})
	return results
}

func (s *WebNovelSearch) resolve(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return s.baseURL.ResolveReference(ref).String()
}

// BestMatch picks the result whose name equals name, ignoring case, and falls
// back to the first result.
func BestMatch(name string, results []SearchResult) (SearchResult, bool) {
	if len(results) == 0 {
		return SearchResult{}, false
	}
	for _, r := range results {
		if strings.EqualFold(strings.TrimSpace(r.Name), strings.TrimSpace(name)) {
			return r, true
		}
	}
	return results[0], true
}
