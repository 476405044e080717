// Package underground is the client for the underground provider, which lists
// a book's chapters in ranged groups such as "1 - 5".
package underground

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
	"github.com/EtsTest-AndroidApps/QReader/internal/sources"
)

const chaptersPath = "/api/v1/pages/public/{id}/chapters"

// Group is one entry of the provider's chapter listing.
type Group struct {
	Text string `json:"Text"`
	Href string `json:"Href"`
}

type Client struct {
	http *resty.Client
}

// NewClient creates an underground client.
func NewClient(cfg sources.ClientConfig) *Client {
	return &Client{http: sources.NewClient(cfg)}
}

// GetChapters fetches the raw chapter listing of a book.
func (c *Client) GetChapters(ctx context.Context, undergroundID string) ([]Group, error) {
	var groups []Group
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", undergroundID).
		ForceContentType("application/json").
		SetResult(&groups).
		Get(chaptersPath)
	if err != nil {
		return nil, fmt.Errorf("underground: fetch chapters for %s: %w: %w", undergroundID, sources.ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("underground: book %s: %w", undergroundID, sources.ErrNotFound)
	case resp.IsError():
		return nil, fmt.Errorf("underground: fetch chapters for %s: %w: status %d", undergroundID, sources.ErrUnavailable, resp.StatusCode())
	}
	return groups, nil
}

// Kind implements sources.Source.
func (c *Client) Kind() entities.GroupSource {
	return entities.GroupSourceUnderground
}

// ListChapters implements sources.Source. ref.ID is the underground id.
func (c *Client) ListChapters(ctx context.Context, ref sources.Ref) ([]sources.Candidate, error) {
	groups, err := c.GetChapters(ctx, ref.ID)
	if err != nil {
		return nil, err
	}

	candidates := make([]sources.Candidate, 0, len(groups))
	for _, g := range groups {
		candidates = append(candidates, sources.Candidate{
			Text: strings.TrimSpace(g.Text),
			Link: g.Href,
		})
	}
	return candidates, nil
}
