package manager

import (
	"context"
	"errors"
	"testing"
	"time"

	"mccwk.com/rl/internal/enrich"
	"mccwk.com/rl/internal/links"
	"mccwk.com/rl/internal/store"
)

// fakeStore is an in-memory store.Store that can be forced to fail.
type fakeStore struct {
	items   []links.LinkItem
	failAll error
	nextID  int
}

func (f *fakeStore) List(_ context.Context) ([]links.LinkItem, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	out := make([]links.LinkItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeStore) Insert(_ context.Context, p store.InsertParams) (links.LinkItem, error) {
	if f.failAll != nil {
		return links.LinkItem{}, f.failAll
	}
	f.nextID++
	item := links.LinkItem{
		ID:          string(rune('a' + f.nextID - 1)),
		URL:         p.URL,
		Title:       p.Title,
		Description: p.Description,
		Summary:     p.Summary,
		CreatedAt:   time.Now().UnixMilli(),
	}
	f.items = append([]links.LinkItem{item}, f.items...)
	return item, nil
}

func (f *fakeStore) Update(_ context.Context, id string, p store.UpdateParams) error {
	if f.failAll != nil {
		return f.failAll
	}
	for i := range f.items {
		if f.items[i].ID == id {
			if p.Title != nil {
				f.items[i].Title = *p.Title
			}
			if p.IsRead != nil {
				f.items[i].IsRead = *p.IsRead
			}
		}
	}
	return nil
}

func (f *fakeStore) SoftDelete(_ context.Context, id string) error {
	return f.setDeleted(id, true)
}

func (f *fakeStore) Restore(_ context.Context, id string) error {
	return f.setDeleted(id, false)
}

func (f *fakeStore) setDeleted(id string, deleted bool) error {
	if f.failAll != nil {
		return f.failAll
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsDeleted = deleted
		}
	}
	return nil
}

func (f *fakeStore) HardDelete(_ context.Context, id string) error {
	if f.failAll != nil {
		return f.failAll
	}
	next := f.items[:0:0]
	for _, item := range f.items {
		if item.ID != id {
			next = append(next, item)
		}
	}
	f.items = next
	return nil
}

func (f *fakeStore) HardDeleteAllTrashed(_ context.Context) error {
	if f.failAll != nil {
		return f.failAll
	}
	next := f.items[:0:0]
	for _, item := range f.items {
		if !item.IsDeleted {
			next = append(next, item)
		}
	}
	f.items = next
	return nil
}

func newTestManager(t *testing.T, fs *fakeStore) *Manager {
	t.Helper()
	m := New(fs, enrich.NewResolver("openai", "", ""))
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return m
}

func TestAddNormalizesScheme(t *testing.T) {
	fs := &fakeStore{}
	m := newTestManager(t, fs)

	item, err := m.Add(context.Background(), "example.com/x", "")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if item.URL != "https://example.com/x" {
		t.Fatalf("url = %q, want https:// prefix", item.URL)
	}
	if fs.items[0].URL != "https://example.com/x" {
		t.Fatalf("store holds %q", fs.items[0].URL)
	}
}

func TestAddKeepsExistingScheme(t *testing.T) {
	m := newTestManager(t, &fakeStore{})
	item, err := m.Add(context.Background(), "HTTP://example.com/x", "")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if item.URL != "HTTP://example.com/x" {
		t.Fatalf("scheme rewritten: %q", item.URL)
	}
}

func TestAddRejectsEmptyURL(t *testing.T) {
	fs := &fakeStore{}
	m := newTestManager(t, fs)

	for _, input := range []string{"", "   ", "\t"} {
		if _, err := m.Add(context.Background(), input, ""); !errors.Is(err, ErrEmptyURL) {
			t.Fatalf("Add(%q) error = %v, want ErrEmptyURL", input, err)
		}
	}
	if len(fs.items) != 0 {
		t.Fatal("validation failure caused a side effect")
	}
}

func TestAddUsesEnrichedMetadataAndTitleOverride(t *testing.T) {
	m := newTestManager(t, &fakeStore{})

	item, err := m.Add(context.Background(), "https://example.com/My-Great-Post", "")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if item.Title != "My Great Post" {
		t.Fatalf("enriched title = %q", item.Title)
	}
	if item.Description != "Source: example.com" {
		t.Fatalf("description = %q", item.Description)
	}

	item, err = m.Add(context.Background(), "https://example.com/other", "Custom Title")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if item.Title != "Custom Title" {
		t.Fatalf("user title not honored: %q", item.Title)
	}
}

func TestAddPrependsToMemory(t *testing.T) {
	m := newTestManager(t, &fakeStore{})
	m.Add(context.Background(), "https://example.com/first", "")
	m.Add(context.Background(), "https://example.com/second", "")

	items := m.Links()
	if len(items) != 2 || items[0].URL != "https://example.com/second" {
		t.Fatalf("newest link not first: %v", items)
	}
}

func TestToggleReadTwiceRoundTrips(t *testing.T) {
	m := newTestManager(t, &fakeStore{})
	item, _ := m.Add(context.Background(), "https://example.com/x", "")

	if err := m.ToggleRead(context.Background(), item.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !m.Links()[0].IsRead {
		t.Fatal("first toggle did not mark read")
	}
	if err := m.ToggleRead(context.Background(), item.ID); err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if m.Links()[0].IsRead {
		t.Fatal("second toggle did not restore unread")
	}
}

func TestTrashRestoreRoundTrip(t *testing.T) {
	m := newTestManager(t, &fakeStore{})
	item, _ := m.Add(context.Background(), "https://example.com/x", "Keep Me")

	if err := m.MoveToTrash(context.Background(), item.ID); err != nil {
		t.Fatalf("trash failed: %v", err)
	}
	if got := m.Links()[0]; !got.IsDeleted {
		t.Fatal("item not trashed")
	}

	if err := m.Restore(context.Background(), item.ID); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	got := m.Links()[0]
	if got.IsDeleted {
		t.Fatal("item still trashed after restore")
	}
	if got.Title != "Keep Me" || got.URL != item.URL || got.CreatedAt != item.CreatedAt {
		t.Fatalf("restore changed other fields: %+v", got)
	}
}

func TestPermanentDeleteRemovesEverywhere(t *testing.T) {
	fs := &fakeStore{}
	m := newTestManager(t, fs)
	item, _ := m.Add(context.Background(), "https://example.com/x", "")

	if err := m.PermanentDelete(context.Background(), item.ID); err != nil {
		t.Fatalf("permanent delete failed: %v", err)
	}
	if len(m.Links()) != 0 {
		t.Fatal("item still in memory")
	}
	stored, _ := fs.List(context.Background())
	if len(stored) != 0 {
		t.Fatal("item still in store")
	}
}

func TestEmptyTrashOnlyRemovesTrashed(t *testing.T) {
	fs := &fakeStore{}
	m := newTestManager(t, fs)
	keep, _ := m.Add(context.Background(), "https://example.com/keep", "")
	a, _ := m.Add(context.Background(), "https://example.com/a", "")
	b, _ := m.Add(context.Background(), "https://example.com/b", "")
	m.MoveToTrash(context.Background(), a.ID)
	m.MoveToTrash(context.Background(), b.ID)

	if err := m.EmptyTrash(context.Background()); err != nil {
		t.Fatalf("empty trash failed: %v", err)
	}

	items := m.Links()
	if len(items) != 1 || items[0].ID != keep.ID {
		t.Fatalf("wrong items removed: %v", items)
	}
	stored, _ := fs.List(context.Background())
	if len(stored) != 1 || stored[0].ID != keep.ID {
		t.Fatalf("store out of sync: %v", stored)
	}
}

func TestEmptyTrashNoTrashedIsNoOp(t *testing.T) {
	fs := &fakeStore{failAll: errors.New("must not be called")}
	m := New(fs, enrich.NewResolver("openai", "", ""))

	if err := m.EmptyTrash(context.Background()); err != nil {
		t.Fatalf("empty trash on empty collection errored: %v", err)
	}
}

func TestUnknownIDMutationsAreSilentNoOps(t *testing.T) {
	m := newTestManager(t, &fakeStore{})
	m.Add(context.Background(), "https://example.com/x", "")
	before := m.Links()

	ctx := context.Background()
	if err := m.ToggleRead(ctx, "missing"); err != nil {
		t.Fatalf("toggle errored: %v", err)
	}
	if err := m.EditTitle(ctx, "missing", "t"); err != nil {
		t.Fatalf("edit errored: %v", err)
	}
	if err := m.MoveToTrash(ctx, "missing"); err != nil {
		t.Fatalf("trash errored: %v", err)
	}
	if err := m.PermanentDelete(ctx, "missing"); err != nil {
		t.Fatalf("delete errored: %v", err)
	}

	after := m.Links()
	if len(after) != len(before) || after[0] != before[0] {
		t.Fatalf("collection changed: %v -> %v", before, after)
	}
}

func TestFailedDurableWriteLeavesMemoryUnchanged(t *testing.T) {
	fs := &fakeStore{}
	m := newTestManager(t, fs)
	item, _ := m.Add(context.Background(), "https://example.com/x", "")
	before := m.Links()

	fs.failAll = errors.New("backend down")
	ctx := context.Background()

	if err := m.ToggleRead(ctx, item.ID); err == nil {
		t.Fatal("expected toggle to fail")
	}
	if err := m.MoveToTrash(ctx, item.ID); err == nil {
		t.Fatal("expected trash to fail")
	}
	if err := m.PermanentDelete(ctx, item.ID); err == nil {
		t.Fatal("expected delete to fail")
	}
	if _, err := m.Add(ctx, "https://example.com/y", ""); err == nil {
		t.Fatal("expected add to fail")
	}

	after := m.Links()
	if len(after) != len(before) || after[0] != before[0] {
		t.Fatalf("memory changed on failed writes: %v -> %v", before, after)
	}
}

func TestSetupRequiredPropagates(t *testing.T) {
	fs := &fakeStore{failAll: store.ErrSetupRequired}
	m := New(fs, enrich.NewResolver("openai", "", ""))

	if err := m.Load(context.Background()); !errors.Is(err, store.ErrSetupRequired) {
		t.Fatalf("Load error = %v, want ErrSetupRequired", err)
	}
	if _, err := m.Add(context.Background(), "https://example.com/x", ""); !errors.Is(err, store.ErrSetupRequired) {
		t.Fatalf("Add error = %v, want ErrSetupRequired", err)
	}
}

func TestViewAndCounts(t *testing.T) {
	m := newTestManager(t, &fakeStore{})
	ctx := context.Background()
	m.Add(ctx, "https://example.com/one", "")
	read, _ := m.Add(ctx, "https://example.com/two", "")
	trashed, _ := m.Add(ctx, "https://example.com/three", "")
	m.ToggleRead(ctx, read.ID)
	m.MoveToTrash(ctx, trashed.ID)

	c := m.Counts()
	if c.Total != 2 || c.Unread != 1 || c.Read != 1 || c.Trashed != 1 {
		t.Fatalf("counts = %+v", c)
	}
	if got := m.View(links.FilterTrash, ""); len(got) != 1 || got[0].ID != trashed.ID {
		t.Fatalf("trash view = %v", got)
	}
	if got := m.View(links.FilterAll, ""); len(got) != 2 {
		t.Fatalf("all view = %v", got)
	}
}
