package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to open cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestLocalStoreInsertAndList(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(newTestCache(t), "local-user")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	item, err := s.Insert(ctx, InsertParams{URL: "https://example.com/x", Title: "X"})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if item.ID == "" {
		t.Error("expected a generated id")
	}
	if item.CreatedAt == 0 {
		t.Error("expected a creation timestamp")
	}
	if item.IsRead || item.IsDeleted {
		t.Error("new links must start unread and untrashed")
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != item.ID {
		t.Fatalf("list = %v, want the inserted item", got)
	}
}

func TestLocalStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	s, _ := NewLocalStore(cache, "local-user")
	item, err := s.Insert(ctx, InsertParams{URL: "https://example.com/x", Title: "X"})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	reopened, err := NewLocalStore(cache, "local-user")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, _ := reopened.List(ctx)
	if len(got) != 1 || got[0].ID != item.ID || got[0].Title != "X" {
		t.Fatalf("reopened store lost data: %v", got)
	}
}

func TestLocalStoreIsNamespacedByAccount(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	a, _ := NewLocalStore(cache, "account-a")
	b, _ := NewLocalStore(cache, "account-b")

	if _, err := a.Insert(ctx, InsertParams{URL: "https://a.example"}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, _ := b.List(ctx)
	if len(got) != 0 {
		t.Fatalf("account-b sees account-a's links: %v", got)
	}
}

func TestLocalStoreUpdate(t *testing.T) {
	ctx := context.Background()
	s, _ := NewLocalStore(newTestCache(t), "local-user")
	item, _ := s.Insert(ctx, InsertParams{URL: "https://example.com/x", Title: "Old"})

	title := "New"
	read := true
	if err := s.Update(ctx, item.ID, UpdateParams{Title: &title, IsRead: &read}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, _ := s.List(ctx)
	if got[0].Title != "New" || !got[0].IsRead {
		t.Fatalf("update not applied: %+v", got[0])
	}
	if got[0].URL != "https://example.com/x" {
		t.Error("url must be immutable")
	}
}

func TestLocalStoreUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	s, _ := NewLocalStore(newTestCache(t), "local-user")
	s.Insert(ctx, InsertParams{URL: "https://example.com/x"})

	title := "ignored"
	if err := s.Update(ctx, "nope", UpdateParams{Title: &title}); err != nil {
		t.Fatalf("update on unknown id errored: %v", err)
	}
	if err := s.SoftDelete(ctx, "nope"); err != nil {
		t.Fatalf("soft delete on unknown id errored: %v", err)
	}
	if err := s.HardDelete(ctx, "nope"); err != nil {
		t.Fatalf("hard delete on unknown id errored: %v", err)
	}

	got, _ := s.List(ctx)
	if len(got) != 1 {
		t.Fatalf("collection changed by no-op mutations: %v", got)
	}
}

func TestLocalStoreSoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	s, _ := NewLocalStore(newTestCache(t), "local-user")
	item, _ := s.Insert(ctx, InsertParams{URL: "https://example.com/x", Title: "X"})

	if err := s.SoftDelete(ctx, item.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	got, _ := s.List(ctx)
	if !got[0].IsDeleted {
		t.Fatal("soft delete did not mark item")
	}

	if err := s.Restore(ctx, item.ID); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	got, _ = s.List(ctx)
	if got[0].IsDeleted {
		t.Fatal("restore did not clear flag")
	}
	if got[0].Title != "X" || got[0].URL != item.URL || got[0].CreatedAt != item.CreatedAt {
		t.Fatalf("restore changed unrelated fields: %+v", got[0])
	}
}

func TestLocalStoreHardDelete(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)
	s, _ := NewLocalStore(cache, "local-user")
	item, _ := s.Insert(ctx, InsertParams{URL: "https://example.com/x"})

	if err := s.HardDelete(ctx, item.ID); err != nil {
		t.Fatalf("hard delete failed: %v", err)
	}
	got, _ := s.List(ctx)
	if len(got) != 0 {
		t.Fatalf("item still listed after hard delete: %v", got)
	}

	// No tombstone in durable storage either.
	reopened, _ := NewLocalStore(cache, "local-user")
	got, _ = reopened.List(ctx)
	if len(got) != 0 {
		t.Fatalf("item survived in cache after hard delete: %v", got)
	}
}

func TestLocalStoreHardDeleteAllTrashed(t *testing.T) {
	ctx := context.Background()
	s, _ := NewLocalStore(newTestCache(t), "local-user")

	keep, _ := s.Insert(ctx, InsertParams{URL: "https://example.com/keep"})
	trashA, _ := s.Insert(ctx, InsertParams{URL: "https://example.com/a"})
	trashB, _ := s.Insert(ctx, InsertParams{URL: "https://example.com/b"})
	s.SoftDelete(ctx, trashA.ID)
	s.SoftDelete(ctx, trashB.ID)

	if err := s.HardDeleteAllTrashed(ctx); err != nil {
		t.Fatalf("empty trash failed: %v", err)
	}

	got, _ := s.List(ctx)
	if len(got) != 1 || got[0].ID != keep.ID {
		t.Fatalf("empty trash removed the wrong items: %v", got)
	}
}

func TestCacheOverwritesWholesale(t *testing.T) {
	cache := newTestCache(t)

	if err := cache.Put("rl-links-x", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := cache.Put("rl-links-x", []byte(`[]`)); err != nil {
		t.Fatalf("second put failed: %v", err)
	}

	raw, ok, err := cache.Get("rl-links-x")
	if err != nil || !ok {
		t.Fatalf("get failed: %v, ok=%v", err, ok)
	}
	if string(raw) != `[]` {
		t.Fatalf("value not overwritten: %s", raw)
	}
}
