package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"mccwk.com/rl/internal/links"
)

// LocalStore keeps an account's collection in process and writes it wholesale
// to the device cache on every mutation. The cache is the only persistence in
// local mode.
type LocalStore struct {
	accountID string
	cache     *Cache
	items     []links.LinkItem
}

// NewLocalStore loads the account's cached collection into memory.
func NewLocalStore(cache *Cache, accountID string) (*LocalStore, error) {
	items, err := cache.LoadLinks(accountID)
	if err != nil {
		return nil, err
	}
	return &LocalStore{accountID: accountID, cache: cache, items: items}, nil
}

func (s *LocalStore) List(_ context.Context) ([]links.LinkItem, error) {
	out := make([]links.LinkItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *LocalStore) Insert(_ context.Context, p InsertParams) (links.LinkItem, error) {
	item := links.LinkItem{
		ID:          newLocalID(),
		URL:         p.URL,
		Title:       p.Title,
		Description: p.Description,
		Summary:     p.Summary,
		CreatedAt:   time.Now().UnixMilli(),
	}
	next := append([]links.LinkItem{item}, s.items...)
	if err := s.commit(next); err != nil {
		return links.LinkItem{}, err
	}
	return item, nil
}

func (s *LocalStore) Update(_ context.Context, id string, p UpdateParams) error {
	return s.mutate(id, func(item *links.LinkItem) {
		if p.Title != nil {
			item.Title = *p.Title
		}
		if p.IsRead != nil {
			item.IsRead = *p.IsRead
		}
	})
}

func (s *LocalStore) SoftDelete(_ context.Context, id string) error {
	return s.mutate(id, func(item *links.LinkItem) { item.IsDeleted = true })
}

func (s *LocalStore) Restore(_ context.Context, id string) error {
	return s.mutate(id, func(item *links.LinkItem) { item.IsDeleted = false })
}

func (s *LocalStore) HardDelete(_ context.Context, id string) error {
	next := make([]links.LinkItem, 0, len(s.items))
	for _, item := range s.items {
		if item.ID != id {
			next = append(next, item)
		}
	}
	if len(next) == len(s.items) {
		return nil
	}
	return s.commit(next)
}

func (s *LocalStore) HardDeleteAllTrashed(_ context.Context) error {
	next := make([]links.LinkItem, 0, len(s.items))
	for _, item := range s.items {
		if !item.IsDeleted {
			next = append(next, item)
		}
	}
	if len(next) == len(s.items) {
		return nil
	}
	return s.commit(next)
}

// mutate applies fn to a copy of the identified item and commits. Unknown ids
// are silent no-ops.
func (s *LocalStore) mutate(id string, fn func(*links.LinkItem)) error {
	idx := -1
	for i := range s.items {
		if s.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	next := make([]links.LinkItem, len(s.items))
	copy(next, s.items)
	fn(&next[idx])
	return s.commit(next)
}

// commit persists the collection to the device cache first; memory is only
// replaced once the write succeeds.
func (s *LocalStore) commit(next []links.LinkItem) error {
	if err := s.cache.StoreLinks(s.accountID, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

func newLocalID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
