// Package memory provides an in-process storage.Store with LRU eviction.
// Records are lost when the process exits.
package memory

import (
	"container/list"
	"context"
	"sort"
	"sync"

	"github.com/rhuss/vendorchat/pkg/debug"
	"github.com/rhuss/vendorchat/pkg/storage"
)

type entry struct {
	rec  *storage.CompletionRecord
	elem *list.Element
}

// Store keeps records in a map with an LRU list for eviction.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	lru     *list.List // front = most recently used
	maxSize int        // 0 = unbounded
}

var _ storage.Store = (*Store)(nil)

// New creates a store holding at most maxSize records. maxSize 0 disables
// eviction.
func New(maxSize int) *Store {
	return &Store{
		entries: make(map[string]*entry),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

// Save stores rec under the context tenant.
func (s *Store) Save(ctx context.Context, rec *storage.CompletionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[rec.ID]; exists {
		return storage.ErrConflict
	}
	if s.maxSize > 0 && len(s.entries) >= s.maxSize {
		s.evictOldest()
	}

	stored := *rec
	stored.TenantID = storage.TenantFrom(ctx)
	s.entries[rec.ID] = &entry{rec: &stored, elem: s.lru.PushFront(rec.ID)}
	return nil
}

// Get returns a copy of the record and marks it recently used.
func (s *Store) Get(ctx context.Context, id string) (*storage.CompletionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || !storage.Visible(ctx, e.rec.TenantID) {
		return nil, storage.ErrNotFound
	}
	s.lru.MoveToFront(e.elem)

	out := *e.rec
	return &out, nil
}

// List returns visible records newest first.
func (s *Store) List(ctx context.Context, opts storage.ListOptions) ([]*storage.CompletionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*storage.CompletionRecord, 0)
	for _, e := range s.entries {
		if !storage.Visible(ctx, e.rec.TenantID) {
			continue
		}
		if opts.Provider != "" && e.rec.Provider != opts.Provider {
			continue
		}
		rec := *e.rec
		out = append(out, &rec)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	if limit := opts.EffectiveLimit(); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || !storage.Visible(ctx, e.rec.TenantID) {
		return storage.ErrNotFound
	}
	s.lru.Remove(e.elem)
	delete(s.entries, id)
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// HealthCheck always succeeds.
func (s *Store) HealthCheck(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

// evictOldest drops the least recently used record. Caller holds s.mu.
func (s *Store) evictOldest() {
	back := s.lru.Back()
	if back == nil {
		return
	}
	id := back.Value.(string)
	s.lru.Remove(back)
	delete(s.entries, id)
	debug.Log(debug.Storage, "evicted completion record", "id", id)
}
