// Package badger implements repository.KVStore on BadgerDB.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/repository"
)

type kvStore struct {
	db *badgerdb.DB
}

// Open opens (creating if needed) a store under dir. An empty dir gives an
// in-memory store.
func Open(dir string) (repository.KVStore, error) {
	log := logger.Default().WithPrefix("badger")

	var opts badgerdb.Options
	if dir == "" {
		log.Info("opening in-memory badger store")
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		log.Info("opening badger store: %s", dir)
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create badger dir: %w", err)
		}
		opts = badgerdb.DefaultOptions(dir).WithSyncWrites(true)
	}
	opts = opts.WithLogger(badgerLogger{log: log}).WithNumVersionsToKeep(1)

	db, err := badgerdb.Open(opts)
	if err != nil {
		log.Error("failed to open badger: %v", err)
		return nil, err
	}
	return &kvStore{db: db}, nil
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	found := false
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		logger.FromContext(ctx).WithPrefix("kv_badger").Error("failed to get entry %s: %v", key, err)
		return nil, false, fmt.Errorf("badger get %s: %w", key, err)
	}
	return value, found, nil
}

func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	logger.FromContext(ctx).WithPrefix("kv_badger").Debug("setting entry: key=%s, bytes=%d", key, len(value))
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (s *kvStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's internal logging through ours, one level down
// so routine compaction chatter stays out of INFO.
type badgerLogger struct {
	log *logger.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{})   { l.log.Error(format, args...) }
func (l badgerLogger) Warningf(format string, args ...interface{}) { l.log.Warn(format, args...) }
func (l badgerLogger) Infof(format string, args ...interface{})    { l.log.Debug(format, args...) }
func (l badgerLogger) Debugf(format string, args ...interface{})   {}
