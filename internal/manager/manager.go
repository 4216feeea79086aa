// Package manager owns the authoritative in-memory link collection for the
// signed-in account and keeps the durable store consistent with it. Every
// mutation commits to the store first; memory changes only once the durable
// write has succeeded.
package manager

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"mccwk.com/rl/internal/enrich"
	"mccwk.com/rl/internal/links"
	"mccwk.com/rl/internal/store"
)

// ErrEmptyURL is a validation failure reported before any side effect.
var ErrEmptyURL = errors.New("url must not be empty")

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// MetadataResolver produces the enrichment triple for a URL. Implementations
// never fail outward.
type MetadataResolver interface {
	Resolve(ctx context.Context, url string) enrich.Metadata
}

// Manager applies link mutations for one account.
type Manager struct {
	mu       sync.Mutex
	store    store.Store
	resolver MetadataResolver
	items    []links.LinkItem
}

func New(s store.Store, r MetadataResolver) *Manager {
	return &Manager{store: s, resolver: r}
}

// Load replaces the in-memory collection with the store's current state.
func (m *Manager) Load(ctx context.Context) error {
	items, err := m.store.List(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
	return nil
}

// Links returns a snapshot of the full collection.
func (m *Manager) Links() []links.LinkItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]links.LinkItem, len(m.items))
	copy(out, m.items)
	return out
}

// View projects the display list for a filter and search query.
func (m *Manager) View(filter links.Filter, query string) []links.LinkItem {
	return links.Project(m.Links(), filter, query)
}

// Counts tallies the badge counts over the full collection.
func (m *Manager) Counts() links.Counts {
	return links.Count(m.Links())
}

// NormalizeURL prefixes https:// when the input carries no scheme.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || schemeRe.MatchString(raw) {
		return raw
	}
	return "https://" + raw
}

// Add enriches, persists, and prepends a new link. An optional title
// overrides the enriched one. Empty input is rejected before any side effect.
func (m *Manager) Add(ctx context.Context, rawURL, title string) (links.LinkItem, error) {
	url := NormalizeURL(rawURL)
	if url == "" {
		return links.LinkItem{}, ErrEmptyURL
	}

	md := m.resolver.Resolve(ctx, url)
	if t := strings.TrimSpace(title); t != "" {
		md.Title = t
	}

	item, err := m.store.Insert(ctx, store.InsertParams{
		URL:         url,
		Title:       md.Title,
		Description: md.Description,
		Summary:     md.Summary,
	})
	if err != nil {
		return links.LinkItem{}, err
	}

	m.mu.Lock()
	m.items = append([]links.LinkItem{item}, m.items...)
	m.mu.Unlock()
	return item, nil
}

// EditTitle updates a link's title in store and memory. Unknown ids are
// silent no-ops.
func (m *Manager) EditTitle(ctx context.Context, id, title string) error {
	item, ok := m.find(id)
	if !ok {
		return nil
	}
	if err := m.store.Update(ctx, id, store.UpdateParams{Title: &title}); err != nil {
		return err
	}
	item.Title = title
	m.replace(item)
	return nil
}

// ToggleRead flips a link's read state.
func (m *Manager) ToggleRead(ctx context.Context, id string) error {
	item, ok := m.find(id)
	if !ok {
		return nil
	}
	next := !item.IsRead
	if err := m.store.Update(ctx, id, store.UpdateParams{IsRead: &next}); err != nil {
		return err
	}
	item.IsRead = next
	m.replace(item)
	return nil
}

// MoveToTrash soft-deletes a link.
func (m *Manager) MoveToTrash(ctx context.Context, id string) error {
	return m.setDeleted(ctx, id, true)
}

// Restore brings a link back from the trash.
func (m *Manager) Restore(ctx context.Context, id string) error {
	return m.setDeleted(ctx, id, false)
}

func (m *Manager) setDeleted(ctx context.Context, id string, deleted bool) error {
	item, ok := m.find(id)
	if !ok {
		return nil
	}
	var err error
	if deleted {
		err = m.store.SoftDelete(ctx, id)
	} else {
		err = m.store.Restore(ctx, id)
	}
	if err != nil {
		return err
	}
	item.IsDeleted = deleted
	m.replace(item)
	return nil
}

// PermanentDelete removes a link from store and memory; no tombstone remains.
// Callers confirm with the user before invoking this.
func (m *Manager) PermanentDelete(ctx context.Context, id string) error {
	if _, ok := m.find(id); !ok {
		return nil
	}
	if err := m.store.HardDelete(ctx, id); err != nil {
		return err
	}
	m.mu.Lock()
	next := m.items[:0:0]
	for _, item := range m.items {
		if item.ID != id {
			next = append(next, item)
		}
	}
	m.items = next
	m.mu.Unlock()
	return nil
}

// EmptyTrash permanently removes every trashed link in one operation. A trash
// with no items is a no-op. Callers confirm with the user before invoking
// this.
func (m *Manager) EmptyTrash(ctx context.Context) error {
	if m.Counts().Trashed == 0 {
		return nil
	}
	if err := m.store.HardDeleteAllTrashed(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	next := m.items[:0:0]
	for _, item := range m.items {
		if !item.IsDeleted {
			next = append(next, item)
		}
	}
	m.items = next
	m.mu.Unlock()
	return nil
}

func (m *Manager) find(id string) (links.LinkItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.ID == id {
			return item, true
		}
	}
	return links.LinkItem{}, false
}

func (m *Manager) replace(updated links.LinkItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == updated.ID {
			m.items[i] = updated
			return
		}
	}
}
