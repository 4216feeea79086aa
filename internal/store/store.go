// Package store persists an account's link collection. Two implementations
// exist behind one interface: a remote postgres row store scoped by account
// id, and a device-local store backed by the on-device cache. The remote
// variant mirrors every change into the same cache so the device always holds
// the latest known state.
package store

import (
	"context"
	"errors"

	"mccwk.com/rl/internal/links"
)

// ErrSetupRequired signals that the remote schema does not exist yet and
// needs one-time initialization (rl setup) before the operation can succeed.
var ErrSetupRequired = errors.New("remote database schema missing: run 'rl setup'")

// InsertParams are the caller-supplied fields of a new link; id and creation
// time are assigned by the store.
type InsertParams struct {
	URL         string
	Title       string
	Description string
	Summary     string
}

// UpdateParams is a partial update; nil fields are left unchanged.
type UpdateParams struct {
	Title  *string
	IsRead *bool
}

// Store is the persistence contract for one account's links. Mutations on an
// unknown id are no-ops, not errors.
type Store interface {
	List(ctx context.Context) ([]links.LinkItem, error)
	Insert(ctx context.Context, p InsertParams) (links.LinkItem, error)
	Update(ctx context.Context, id string, p UpdateParams) error
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	HardDeleteAllTrashed(ctx context.Context) error
}
