package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rhuss/vendorchat/pkg/api"
	"github.com/rhuss/vendorchat/pkg/storage"
)

func record(id, provider string, at time.Time) *storage.CompletionRecord {
	return &storage.CompletionRecord{
		ID:       id,
		Provider: provider,
		Model:    provider + "-model",
		Request: &api.ChatRequest{
			Messages: []api.ChatMessage{{Role: api.RoleUser, Content: "hi"}},
		},
		Response: &api.ChatResponse{
			ID:        "vendor-" + id,
			Role:      api.RoleAssistant,
			Content:   "hello",
			ToolCalls: []api.ToolCall{},
			Usage:     map[string]any{},
		},
		CreatedAt: at,
	}
}

func TestSaveAndGet(t *testing.T) {
	s := New(0)
	ctx := context.Background()
	now := time.Now()

	if err := s.Save(ctx, record("cmpl_1", "deepseek", now)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(ctx, "cmpl_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Provider != "deepseek" || got.Response.Content != "hello" || !got.CreatedAt.Equal(now) {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestSave_Conflict(t *testing.T) {
	s := New(0)
	ctx := context.Background()
	s.Save(ctx, record("dup", "qwen", time.Now()))

	if err := s.Save(ctx, record("dup", "qwen", time.Now())); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	if _, err := New(0).Get(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTenantIsolation(t *testing.T) {
	s := New(0)
	acme := storage.WithTenant(context.Background(), "acme")
	globex := storage.WithTenant(context.Background(), "globex")

	if err := s.Save(acme, record("r1", "doubao", time.Now())); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := s.Get(globex, "r1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("other tenant must not see the record, got %v", err)
	}
	if err := s.Delete(globex, "r1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("other tenant must not delete the record, got %v", err)
	}
	got, err := s.Get(acme, "r1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TenantID != "acme" {
		t.Errorf("tenant = %q, want acme", got.TenantID)
	}
	if list, _ := s.List(globex, storage.ListOptions{}); len(list) != 0 {
		t.Errorf("other tenant listed %d records", len(list))
	}
}

func TestLRUEviction(t *testing.T) {
	s := New(2)
	ctx := context.Background()
	now := time.Now()

	s.Save(ctx, record("a", "qwen", now))
	s.Save(ctx, record("b", "qwen", now))
	// Touch a so b becomes the eviction candidate.
	if _, err := s.Get(ctx, "a"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	s.Save(ctx, record("c", "qwen", now))

	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if _, err := s.Get(ctx, "b"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected b evicted, got %v", err)
	}
	for _, id := range []string{"a", "c"} {
		if _, err := s.Get(ctx, id); err != nil {
			t.Errorf("%s should survive: %v", id, err)
		}
	}
}

func TestList(t *testing.T) {
	s := New(0)
	ctx := context.Background()
	base := time.Now()

	s.Save(ctx, record("old", "deepseek", base.Add(-2*time.Minute)))
	s.Save(ctx, record("mid", "qwen", base.Add(-time.Minute)))
	s.Save(ctx, record("new", "deepseek", base))

	all, err := s.List(ctx, storage.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != "new" || all[2].ID != "old" {
		t.Errorf("unexpected order: %v", ids(all))
	}

	ds, _ := s.List(ctx, storage.ListOptions{Provider: "deepseek"})
	if len(ds) != 2 || ds[0].ID != "new" || ds[1].ID != "old" {
		t.Errorf("provider filter: %v", ids(ds))
	}

	limited, _ := s.List(ctx, storage.ListOptions{Limit: 1})
	if len(limited) != 1 || limited[0].ID != "new" {
		t.Errorf("limit: %v", ids(limited))
	}
}

func TestDelete(t *testing.T) {
	s := New(0)
	ctx := context.Background()
	s.Save(ctx, record("x", "qwen", time.Now()))

	if err := s.Delete(ctx, "x"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "x"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "x"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := New(0)
	ctx := context.Background()
	s.Save(ctx, record("x", "qwen", time.Now()))

	got, _ := s.Get(ctx, "x")
	got.Provider = "mutated"

	again, _ := s.Get(ctx, "x")
	if again.Provider != "qwen" {
		t.Error("mutating a returned record must not change the store")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New(50)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("r%d", i)
			s.Save(ctx, record(id, "deepseek", time.Now()))
			s.Get(ctx, id)
			s.List(ctx, storage.ListOptions{})
		}(i)
	}
	wg.Wait()

	if s.Len() != 20 {
		t.Errorf("Len = %d, want 20", s.Len())
	}
}

func ids(recs []*storage.CompletionRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
