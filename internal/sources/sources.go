// Package sources defines the capability shared by the remote chapter
// providers and the HTTP client setup they have in common.
//
// Each provider lives in its own sub-package and implements Source:
//
//	sources/
//	├── underground/     # Range-grouped listings ("1 - 5")
//	└── webnovel/        # Per-chapter listings with premium flags
package sources

import (
	"context"
	"errors"

	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
)

var (
	// ErrNotFound is returned when a provider does not know the requested book.
	ErrNotFound = errors.New("source: not found")

	// ErrUnavailable wraps transport failures and unexpected responses.
	ErrUnavailable = errors.New("source: unavailable")
)

// Candidate is a normalized chapter group as listed by a provider. Its
// provenance is the Kind of the Source that listed it.
type Candidate struct {
	Text string
	Link string
}

// Ref identifies a book on a provider. Link is only used by providers whose
// chapter links are derived from the book page.
type Ref struct {
	ID   string
	Link string
}

// Source lists the chapter groups of a book on one provider.
//
// A nil slice with a nil error means the provider has no listing for the
// book. That is a valid result, not a failure.
type Source interface {
	// Kind is recorded as the provenance of every group the source lists.
	Kind() entities.GroupSource
	ListChapters(ctx context.Context, ref Ref) ([]Candidate, error)
}
