package repository

import (
	"context"
	"encoding/json"

	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/models"
)

// DefaultStorageKey is the entry holding every account.
const DefaultStorageKey = "learnearn_users"

type accountRepository struct {
	store KVStore
	key   string
}

// NewAccountRepository stores accounts as one JSON object under key.
func NewAccountRepository(store KVStore, key string) AccountRepository {
	if key == "" {
		key = DefaultStorageKey
	}
	return &accountRepository{store: store, key: key}
}

func (r *accountRepository) LoadAll(ctx context.Context) map[string]models.Account {
	log := logger.FromContext(ctx).WithPrefix("account_repo").WithField("key", r.key)

	raw, found, err := r.store.Get(ctx, r.key)
	if err != nil {
		log.Error("failed to read accounts: %v", err)
		return map[string]models.Account{}
	}
	if !found || len(raw) == 0 {
		log.Debug("no stored accounts")
		return map[string]models.Account{}
	}

	var accounts map[string]models.Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		log.Error("failed to decode accounts: %v", err)
		return map[string]models.Account{}
	}
	if accounts == nil {
		accounts = map[string]models.Account{}
	}
	log.Debug("loaded %d accounts", len(accounts))
	return accounts
}

func (r *accountRepository) SaveAll(ctx context.Context, accounts map[string]models.Account) {
	log := logger.FromContext(ctx).WithPrefix("account_repo").WithField("key", r.key)

	raw, err := json.Marshal(accounts)
	if err != nil {
		log.Error("failed to encode accounts: %v", err)
		return
	}
	if err := r.store.Set(ctx, r.key, raw); err != nil {
		log.Error("failed to save accounts: %v", err)
		return
	}
	log.Debug("saved %d accounts (%d bytes)", len(accounts), len(raw))
}
