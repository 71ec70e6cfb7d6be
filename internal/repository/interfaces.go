package repository

import (
	"context"

	"github.com/vytor/learnearn/internal/models"
)

// KVStore is a get/set-by-key store holding opaque values.
type KVStore interface {
	// Get returns found=false with a nil error when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// AccountRepository persists the whole username -> account map as one entry.
type AccountRepository interface {
	// LoadAll never fails; unreadable state yields an empty map.
	LoadAll(ctx context.Context) map[string]models.Account
	// SaveAll overwrites the stored map. Failures are logged and swallowed.
	SaveAll(ctx context.Context, accounts map[string]models.Account)
}
