package cache

import "context"

// Tier is a persistent backing store shared by the tables of a registry.
// Implementations must be safe for concurrent use.
type Tier interface {
	// Load returns the bytes stored for (table, key); ok is false on a miss.
	Load(ctx context.Context, table, key string) (data []byte, ok bool, err error)
	// Save stores data for (table, key), replacing any earlier value.
	Save(ctx context.Context, table, key string, data []byte) error
	// Clear invalidates every stored entry.
	Clear(ctx context.Context) error
}

// Stamper is implemented by tiers that record which inputs their entries
// were computed from.
type Stamper interface {
	// Stamp records fingerprint. When it differs from the stored one, every
	// entry is invalidated first and changed is true.
	Stamp(ctx context.Context, fingerprint string) (changed bool, err error)
}
