package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mccwk.com/rl/internal/links"
)

// pgUndefinedTable is the SQLSTATE postgres reports when the links table has
// not been created yet.
const pgUndefinedTable = "42P01"

type linkRow struct {
	ID          string    `gorm:"column:id;primaryKey;default:gen_random_uuid()"`
	UserID      string    `gorm:"column:user_id"`
	URL         string    `gorm:"column:url"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	Summary     string    `gorm:"column:summary"`
	IsRead      bool      `gorm:"column:is_read"`
	IsDeleted   bool      `gorm:"column:is_deleted"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
}

func (linkRow) TableName() string { return "links" }

func (r linkRow) toItem() links.LinkItem {
	return links.LinkItem{
		ID:          r.ID,
		URL:         r.URL,
		Title:       r.Title,
		Description: r.Description,
		Summary:     r.Summary,
		IsRead:      r.IsRead,
		IsDeleted:   r.IsDeleted,
		CreatedAt:   r.CreatedAt.UnixMilli(),
	}
}

// NewPostgres opens the remote database connection.
func NewPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
}

// RemoteStore maps every operation to the per-account row set in postgres and
// mirrors the resulting collection into the device cache after each change.
type RemoteStore struct {
	db        *gorm.DB
	cache     *Cache
	accountID string
}

func NewRemoteStore(db *gorm.DB, cache *Cache, accountID string) *RemoteStore {
	return &RemoteStore{db: db, cache: cache, accountID: accountID}
}

func (s *RemoteStore) List(ctx context.Context) ([]links.LinkItem, error) {
	var rows []linkRow
	err := s.scoped(ctx).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		if translated := translateErr(err); errors.Is(translated, ErrSetupRequired) {
			return nil, translated
		}
		// The device cache is a superset of the last known state; serve it
		// when the backend is unreachable.
		cached, cacheErr := s.cache.LoadLinks(s.accountID)
		if cacheErr == nil && cached != nil {
			slog.Warn("remote list failed, serving device cache", "error", err)
			return cached, nil
		}
		return nil, translateErr(err)
	}

	items := make([]links.LinkItem, len(rows))
	for i, r := range rows {
		items[i] = r.toItem()
	}
	s.mirror(items)
	return items, nil
}

func (s *RemoteStore) Insert(ctx context.Context, p InsertParams) (links.LinkItem, error) {
	row := linkRow{
		UserID:      s.accountID,
		URL:         p.URL,
		Title:       p.Title,
		Description: p.Description,
		Summary:     p.Summary,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return links.LinkItem{}, translateErr(err)
	}
	s.mirrorFromRemote(ctx)
	return row.toItem(), nil
}

func (s *RemoteStore) Update(ctx context.Context, id string, p UpdateParams) error {
	fields := map[string]any{}
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.IsRead != nil {
		fields["is_read"] = *p.IsRead
	}
	if len(fields) == 0 {
		return nil
	}
	return s.updateFields(ctx, id, fields)
}

func (s *RemoteStore) SoftDelete(ctx context.Context, id string) error {
	return s.updateFields(ctx, id, map[string]any{"is_deleted": true})
}

func (s *RemoteStore) Restore(ctx context.Context, id string) error {
	return s.updateFields(ctx, id, map[string]any{"is_deleted": false})
}

func (s *RemoteStore) HardDelete(ctx context.Context, id string) error {
	err := s.scoped(ctx).Where("id = ?", id).Delete(&linkRow{}).Error
	if err != nil {
		return translateErr(err)
	}
	s.mirrorFromRemote(ctx)
	return nil
}

func (s *RemoteStore) HardDeleteAllTrashed(ctx context.Context) error {
	err := s.scoped(ctx).Where("is_deleted = ?", true).Delete(&linkRow{}).Error
	if err != nil {
		return translateErr(err)
	}
	s.mirrorFromRemote(ctx)
	return nil
}

func (s *RemoteStore) scoped(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&linkRow{}).Where("user_id = ?", s.accountID)
}

func (s *RemoteStore) updateFields(ctx context.Context, id string, fields map[string]any) error {
	err := s.scoped(ctx).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		return translateErr(err)
	}
	s.mirrorFromRemote(ctx)
	return nil
}

// mirrorFromRemote refreshes the device cache from the current row set.
// Mirror failures are logged, never surfaced: the cache trails the remote
// store rather than gating it.
func (s *RemoteStore) mirrorFromRemote(ctx context.Context) {
	var rows []linkRow
	if err := s.scoped(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		slog.Warn("failed to refresh device cache", "error", err)
		return
	}
	items := make([]links.LinkItem, len(rows))
	for i, r := range rows {
		items[i] = r.toItem()
	}
	s.mirror(items)
}

func (s *RemoteStore) mirror(items []links.LinkItem) {
	if err := s.cache.StoreLinks(s.accountID, items); err != nil {
		slog.Warn("failed to write device cache", "error", err)
	}
}

// translateErr distinguishes the recoverable "table not found" condition from
// generic backend failures.
func translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return fmt.Errorf("%w (%s)", ErrSetupRequired, pgErr.Message)
	}
	return err
}
