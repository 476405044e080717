// Package webnovel is the client for the web-novel provider. Chapters are
// listed one by one and premium chapters are flagged.
package webnovel

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
	"github.com/EtsTest-AndroidApps/QReader/internal/sources"
)

const chapterListPath = "/go/pcm/chapter/get-chapter-list"

// Chapter is a single remote chapter.
type Chapter struct {
	ID      string
	Name    string
	Index   int
	Premium bool
	Link    string
}

type chapterListResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		VolumeItems []struct {
			ChapterItems []struct {
				ChapterID   string `json:"chapterId"`
				ChapterName string `json:"chapterName"`
				Index       int    `json:"index"`
				IsVip       int    `json:"isVip"`
			} `json:"chapterItems"`
		} `json:"volumeItems"`
	} `json:"data"`
}

type Client struct {
	http *resty.Client
}

// NewClient creates a web-novel client.
func NewClient(cfg sources.ClientConfig) *Client {
	return &Client{http: sources.NewClient(cfg)}
}

// GetChapters fetches every chapter of a book, premium ones included.
// A nil slice with a nil error means the provider has no such book.
func (c *Client) GetChapters(ctx context.Context, bookID, bookLink string) ([]Chapter, error) {
	var body chapterListResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("bookId", bookID).
		ForceContentType("application/json").
		SetResult(&body).
		Get(chapterListPath)
	if err != nil {
		return nil, fmt.Errorf("webnovel: fetch chapters for %s: %w: %w", bookID, sources.ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, nil
	case resp.IsError():
		return nil, fmt.Errorf("webnovel: fetch chapters for %s: %w: status %d", bookID, sources.ErrUnavailable, resp.StatusCode())
	case body.Code != 0:
		return nil, nil
	}

	base := strings.TrimRight(bookLink, "/")
	var chapters []Chapter
	for _, volume := range body.Data.VolumeItems {
		for _, item := range volume.ChapterItems {
			chapters = append(chapters, Chapter{
				ID:      item.ChapterID,
				Name:    item.ChapterName,
				Index:   item.Index,
				Premium: item.IsVip != 0,
				Link:    base + "/" + item.ChapterID,
			})
		}
	}
	if chapters == nil {
		chapters = []Chapter{}
	}
	return chapters, nil
}

// Kind implements sources.Source.
func (c *Client) Kind() entities.GroupSource {
	return entities.GroupSourceWebNovel
}

// ListChapters implements sources.Source. Premium chapters are dropped and the
// chapter index becomes the group text.
func (c *Client) ListChapters(ctx context.Context, ref sources.Ref) ([]sources.Candidate, error) {
	chapters, err := c.GetChapters(ctx, ref.ID, ref.Link)
	if err != nil || chapters == nil {
		return nil, err
	}

	candidates := make([]sources.Candidate, 0, len(chapters))
	for _, ch := range chapters {
		if ch.Premium {
			continue
		}
		candidates = append(candidates, sources.Candidate{
			Text: strconv.Itoa(ch.Index),
			Link: ch.Link,
		})
	}
	return candidates, nil
}
