package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/repository"
)

const kvTable = "kv_entries"

type kvStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewKVStore stores entries in the kv_entries table. Close closes db.
func NewKVStore(db *sql.DB) repository.KVStore {
	return &kvStore{db: db, now: time.Now}
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("kv_sqlite")
	log.Debug("getting entry: key=%s", key)

	query, args, err := sqlBuilder.Select("value").From(kvTable).Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build query: %w", err)
	}

	var value []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("entry not found: key=%s", key)
		return nil, false, nil
	}
	if err != nil {
		log.Error("failed to get entry: %v", err)
		return nil, false, err
	}
	return value, true, nil
}

func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	log := logger.FromContext(ctx).WithPrefix("kv_sqlite")
	log.Debug("setting entry: key=%s, bytes=%d", key, len(value))

	query, args, err := sqlBuilder.Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, s.now().UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	return tx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			log.Error("failed to set entry: %v", err)
			return err
		}
		return nil
	})
}

func (s *kvStore) Close() error {
	return s.db.Close()
}
