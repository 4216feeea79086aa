package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"mccwk.com/rl/internal/links"
)

const cacheKeyPrefix = "rl"

// Cache is the on-device key/value store: a single-file sqlite database
// holding one wholesale-serialized link collection per account.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if needed) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value BLOB NOT NULL)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the value for key and whether it was present.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := c.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Put overwrites the value for key.
func (c *Cache) Put(key string, value []byte) error {
	_, err := c.db.Exec(`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, value)
	return err
}

func linksKey(accountID string) string {
	return cacheKeyPrefix + "-links-" + accountID
}

// LoadLinks reads an account's cached collection. A missing key yields an
// empty collection.
func (c *Cache) LoadLinks(accountID string) ([]links.LinkItem, error) {
	raw, ok, err := c.Get(linksKey(accountID))
	if err != nil {
		return nil, fmt.Errorf("failed to read cached links: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var items []links.LinkItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("corrupt cached links for account %s: %w", accountID, err)
	}
	return items, nil
}

// StoreLinks overwrites an account's cached collection wholesale.
func (c *Cache) StoreLinks(accountID string, items []links.LinkItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.Put(linksKey(accountID), raw)
}
