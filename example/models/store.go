package models

import "context"

// Store is the persistence boundary for links. Implementations must return
// ErrNotFound from FindByCode when no link carries the code; expiry handling
// lives above the store.
type Store interface {
	// Create persists the link and fills in its ID and generated Code.
	Create(ctx context.Context, link *Link) error

	// FindByCode returns the link carrying code.
	FindByCode(ctx context.Context, code string) (*Link, error)

	// Hit increments the link's hit counter.
	Hit(ctx context.Context, code string) error

	// Save writes back a mutated link.
	Save(ctx context.Context, link *Link) error

	// List returns links filtered by exact code and/or a target keyword.
	// Empty filters match everything.
	List(ctx context.Context, code, term string) ([]Link, error)
}
