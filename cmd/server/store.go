package main

import (
	"fmt"

	"github.com/vytor/learnearn/internal/config"
	"github.com/vytor/learnearn/internal/db"
	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/repository"
	"github.com/vytor/learnearn/internal/repository/badger"
	"github.com/vytor/learnearn/internal/repository/memory"
	"github.com/vytor/learnearn/internal/repository/sqlite"
)

// openStore builds the key-value backend selected by STORE_DRIVER.
func openStore(cfg config.Config, log *logger.Logger) (repository.KVStore, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		log.Debug("db_path=%s", cfg.DBPath)
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return sqlite.NewKVStore(database.DB), nil
	case config.DriverBadger:
		log.Debug("badger_dir=%s", cfg.BadgerDir)
		store, err := badger.Open(cfg.BadgerDir)
		if err != nil {
			return nil, fmt.Errorf("open badger: %w", err)
		}
		return store, nil
	case config.DriverMemory:
		log.Warn("using in-memory store, accounts are lost on exit")
		return memory.NewKVStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
