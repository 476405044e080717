package groups

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/EtsTest-AndroidApps/QReader/internal/database"
	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
	"github.com/EtsTest-AndroidApps/QReader/internal/live"
	"github.com/EtsTest-AndroidApps/QReader/internal/sources"
)

// strategy fetches a book's remote listing and merges it into the store.
type strategy interface {
	sync(ctx context.Context, book *entities.Book, cached []entities.Group, refresh bool) error
}

// GetGroups returns a live view of the book's groups in reading order.
//
// When refresh is set, or nothing is cached, the remote listing is fetched
// and merged first. Books with an underground affiliation are fetched from
// the underground provider, optionally supplemented by web-novel chapters;
// all other books are fetched from the web-novel provider alone.
func (r *Repository) GetGroups(ctx context.Context, book *entities.Book, refresh bool) (*live.Query[[]entities.Group], error) {
	q := r.db.Queries(ctx)

	cached, err := q.Books.Chapters(book.ID)
	if err != nil {
		return nil, fmt.Errorf("load cached groups: %w", err)
	}

	if refresh || len(cached) == 0 {
		strat, err := r.strategyFor(q, book)
		if err != nil {
			return nil, err
		}
		if err := strat.sync(ctx, book, cached, refresh); err != nil {
			return nil, err
		}
	}

	return r.chapters(book.ID), nil
}

func (r *Repository) strategyFor(q *database.Queries, book *entities.Book) (strategy, error) {
	ug, err := q.Books.GetUndergroundByID(book.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &webNovelStrategy{r: r}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get underground book: %w", err)
	}
	return &undergroundStrategy{r: r, undergroundID: ug.UndergroundID}, nil
}

type webNovelStrategy struct {
	r *Repository
}

func (s *webNovelStrategy) sync(ctx context.Context, book *entities.Book, cached []entities.Group, refresh bool) error {
	wn, err := s.r.db.Queries(ctx).Books.GetWebNovelByID(book.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNoWebNovelRecord, book.ID)
	}
	if err != nil {
		return fmt.Errorf("get web-novel book: %w", err)
	}

	groups, err := s.r.fetchWebNovel(ctx, book, sources.Ref{ID: wn.WebNovelID, Link: wn.Link})
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(groups) == 0 {
		return nil
	}

	return s.r.db.Transaction(ctx, func(q *database.Queries) error {
		return insertAll(q, groups)
	})
}

type undergroundStrategy struct {
	r             *Repository
	undergroundID string
}

// groupUpdate renames a cached group to its remote counterpart.
type groupUpdate struct {
	old    entities.Group
	remote entities.Group
}

func (s *undergroundStrategy) sync(ctx context.Context, book *entities.Book, cached []entities.Group, refresh bool) error {
	var (
		listing       []sources.Candidate
		supplementary []entities.Group
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		candidates, err := s.r.underground.ListChapters(gctx, sources.Ref{ID: s.undergroundID})
		if err != nil {
			return fmt.Errorf("list underground chapters for %s: %w", book.ID, err)
		}
		listing = candidates
		return nil
	})
	if s.r.needsWebNovel(cached) {
		g.Go(func() error {
			supplementary = s.r.supplementaryWebNovel(gctx, book, refresh)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	remote, err := toGroups(book, s.r.underground.Kind(), listing)
	if err != nil {
		return err
	}
	updates, err := diff(cached, remote)
	if err != nil {
		return err
	}
	if len(updates) == 0 && len(remote) == 0 && len(supplementary) == 0 {
		return nil
	}

	return s.r.db.Transaction(ctx, func(q *database.Queries) error {
		for _, u := range updates {
			// Contents reference the old link and must go before it changes.
			if _, err := q.Contents.DeleteByGroupLink(u.old.Link); err != nil {
				return fmt.Errorf("delete contents of %s: %w", u.old.Link, err)
			}
			if _, err := q.Groups.Update(u.old.Link, u.remote.Text, u.remote.Link, u.remote.FirstChapter); err != nil {
				return fmt.Errorf("update group %s: %w", u.old.Link, err)
			}
		}
		if err := insertAll(q, remote); err != nil {
			return err
		}
		return insertAll(q, supplementary)
	})
}

// needsWebNovel reports whether an underground refresh should also pull
// web-novel chapters.
func (r *Repository) needsWebNovel(cached []entities.Group) bool {
	if r.webNovel == nil || r.metadata == nil {
		return false
	}
	if (r.prefs != nil && r.prefs.CheckForWebNovel()) || len(cached) == 0 {
		return true
	}
	for _, g := range cached {
		if g.Source == entities.GroupSourceWebNovel {
			return false
		}
	}
	return true
}

// supplementaryWebNovel resolves the book on the web-novel provider and
// returns its free chapters. Failures are logged and yield no groups.
func (r *Repository) supplementaryWebNovel(ctx context.Context, book *entities.Book, refresh bool) []entities.Group {
	groups, err := func() ([]entities.Group, error) {
		view, err := r.metadata.GetBook(ctx, book, refresh)
		if err != nil {
			return nil, err
		}
		wn, err := live.First(ctx, view)
		if err != nil || wn == nil {
			return nil, err
		}
		return r.fetchWebNovel(ctx, book, sources.Ref{ID: wn.WebNovelID, Link: wn.Link})
	}()
	if err != nil {
		log.Printf("[sync] Web-novel lookup for book %s failed, continuing without it: %v", book.ID, err)
		return nil
	}
	return groups
}

func (r *Repository) fetchWebNovel(ctx context.Context, book *entities.Book, ref sources.Ref) ([]entities.Group, error) {
	candidates, err := r.webNovel.ListChapters(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("list web-novel chapters for %s: %w", book.ID, err)
	}
	return toGroups(book, r.webNovel.Kind(), candidates)
}

// diff returns the cached groups whose range changed remotely. Groups of
// any provenance are matched by first chapter; on duplicate remote keys the
// last listed group wins.
func diff(cached, remote []entities.Group) ([]groupUpdate, error) {
	byFirst := make(map[int]entities.Group, len(remote))
	for _, g := range remote {
		byFirst[g.FirstChapter] = g
	}

	var updates []groupUpdate
	matched := make(map[int]string)
	for _, g := range cached {
		first, last, err := ParseRange(g.Text)
		if err != nil {
			return nil, err
		}
		rg, ok := byFirst[first]
		if !ok {
			continue
		}
		if prev, dup := matched[first]; dup {
			log.Printf("[sync] Groups %s and %s both start at chapter %d, only matching %s", prev, g.Link, first, prev)
			continue
		}
		matched[first] = g.Link

		_, remoteLast, err := ParseRange(rg.Text)
		if err != nil {
			return nil, err
		}
		if remoteLast != last {
			updates = append(updates, groupUpdate{old: g, remote: rg})
		}
	}
	return updates, nil
}

func toGroups(book *entities.Book, kind entities.GroupSource, candidates []sources.Candidate) ([]entities.Group, error) {
	groups := make([]entities.Group, 0, len(candidates))
	for _, c := range candidates {
		first, err := FirstChapter(c.Text)
		if err != nil {
			return nil, err
		}
		groups = append(groups, entities.Group{
			BookID:       book.ID,
			Text:         c.Text,
			Link:         c.Link,
			LastRead:     0,
			Source:       kind,
			FirstChapter: first,
		})
	}
	return groups, nil
}

func insertAll(q *database.Queries, groups []entities.Group) error {
	for i := range groups {
		if _, err := q.Groups.Insert(&groups[i]); err != nil {
			return fmt.Errorf("insert group %s: %w", groups[i].Link, err)
		}
	}
	return nil
}
