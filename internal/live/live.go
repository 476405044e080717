// Package live provides continuously updating query results.
//
// A Hub fans out table-change notifications. A Query couples a fetch function
// with the tables it reads; every subscriber receives a fresh snapshot when it
// subscribes and again after each committed write to one of those tables.
//
// # Usage
//
//	hub := live.NewHub()
//	q := live.NewQuery(hub, func(ctx context.Context) ([]entities.Group, error) {
//		return books.Chapters(bookID)
//	}, "chapter_groups")
//
//	for res := range q.Subscribe(ctx) {
//		...
//	}
//
// Writes made inside a transaction are collected in a Batch carried on the
// context and published once the transaction commits.
package live

import (
	"context"
	"errors"
	"sync"
)

// ErrEmpty is returned by a fetch function to signal that the view currently
// has no value. Subscribers skip the snapshot instead of receiving an error.
var ErrEmpty = errors.New("live: no value")

// Hub routes table-change notifications to subscribers.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan struct{})}
}

// Publish notifies every subscriber watching any of the given tables.
// Notifications coalesce: a subscriber that has not yet consumed a pending
// notification is not signalled twice.
func (h *Hub) Publish(tables ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seen := make(map[int]struct{})
	for _, table := range tables {
		for id, ch := range h.subs[table] {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}

// watch registers a notification channel for the given tables and returns a
// function that removes it.
func (h *Hub) watch(tables []string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	for _, table := range tables {
		if h.subs[table] == nil {
			h.subs[table] = make(map[int]chan struct{})
		}
		h.subs[table][id] = ch
	}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for _, table := range tables {
			delete(h.subs[table], id)
			if len(h.subs[table]) == 0 {
				delete(h.subs, table)
			}
		}
	}
}

// Subscribers returns the number of active subscriptions on a table.
func (h *Hub) Subscribers(table string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[table])
}

// Result is one snapshot delivered to a subscriber.
type Result[T any] struct {
	Value T
	Err   error
}

// Query is a re-evaluable query bound to the tables it reads.
type Query[T any] struct {
	hub    *Hub
	tables []string
	fetch  func(ctx context.Context) (T, error)
}

// NewQuery creates a live query.
func NewQuery[T any](hub *Hub, fetch func(ctx context.Context) (T, error), tables ...string) *Query[T] {
	return &Query[T]{hub: hub, tables: tables, fetch: fetch}
}

// Get evaluates the query once.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	return q.fetch(ctx)
}

// Subscribe streams snapshots until ctx is cancelled, at which point the
// channel is closed. The first snapshot is delivered immediately. Snapshots
// for which the fetch returned ErrEmpty are skipped.
func (q *Query[T]) Subscribe(ctx context.Context) <-chan Result[T] {
	out := make(chan Result[T])
	notify, stop := q.hub.watch(q.tables)

	go func() {
		defer close(out)
		defer stop()

		for {
			value, err := q.fetch(ctx)
			if ctx.Err() != nil {
				return
			}
			if !errors.Is(err, ErrEmpty) {
				select {
				case out <- Result[T]{Value: value, Err: err}:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-notify:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// First waits for the first non-empty snapshot of q.
func First[T any](ctx context.Context, q *Query[T]) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	res, ok := <-q.Subscribe(ctx)
	if !ok {
		var zero T
		return zero, ctx.Err()
	}
	return res.Value, res.Err
}

type batchKey struct{}

// Batch collects the tables written inside a transaction.
type Batch struct {
	mu     sync.Mutex
	tables map[string]struct{}
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{tables: make(map[string]struct{})}
}

// Add records a written table.
func (b *Batch) Add(table string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tables[table] = struct{}{}
}

// Tables returns the recorded tables.
func (b *Batch) Tables() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	tables := make([]string, 0, len(b.tables))
	for t := range b.tables {
		tables = append(tables, t)
	}
	return tables
}

// WithBatch returns a context carrying b.
func WithBatch(ctx context.Context, b *Batch) context.Context {
	return context.WithValue(ctx, batchKey{}, b)
}

// BatchFromContext returns the batch carried by ctx, if any.
func BatchFromContext(ctx context.Context) *Batch {
	if ctx == nil {
		return nil
	}
	b, _ := ctx.Value(batchKey{}).(*Batch)
	return b
}
