// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Remote Providers
//
//   - sources.Source: Chapter listing of a book on one provider (internal/sources/sources.go)
//   - metadata.SearchProvider: Web-novel catalogue search (internal/metadata/lookup.go)
//   - groups.MetadataResolver: Web-novel identity of a book (internal/groups/repository.go)
//
// ## Group Engine
//
//   - groups.Preferences: Library preferences read during a refresh (internal/groups/repository.go)
//   - library.GroupRefresher: Refresh of a single book (internal/library/indexer.go)
//   - http.GroupSyncer, http.GroupReader: Engine and facade as seen by controllers (internal/http/stores.go)
//
// ## Background Work
//
//   - library.ProgressReporter: Index progress reporting (internal/library/indexer.go)
//   - tasks.LibraryIndexer, scheduler.Indexer: Full library index runs
//   - http.TaskEnqueuer: Task queue submission (internal/http/stores.go)
//
// # Adding a New Provider
//
//  1. Create a sub-package under internal/sources/ with a client built on
//     sources.NewClient, so it shares the retry policy:
//
//     type Client struct {
//         http *resty.Client
//     }
//
//     func (c *Client) Kind() entities.GroupSource
//     func (c *Client) ListChapters(ctx context.Context, ref sources.Ref) ([]sources.Candidate, error)
//
//  2. Return a nil slice with a nil error when the provider has no listing,
//     and wrap transport failures with sources.ErrUnavailable.
//
//  3. Add a compile-time check to checks.go:
//
//     var _ sources.Source = (*Client)(nil)
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Add it to database.Queries so it joins transactions.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
