package config

import (
	"fmt"

	dbm "github.com/tendermint/tm-db"
)

// AppDBName names the database holding accounts and app state.
const AppDBName = "auction"

// DBProvider opens the named database for a config.
type DBProvider func(name string, cfg *Config) (dbm.DB, error)

// DefaultDBProvider opens name with the configured backend under DBDir.
func DefaultDBProvider(name string, cfg *Config) (dbm.DB, error) {
	db, err := dbm.NewDB(name, dbm.BackendType(cfg.DBBackend), cfg.DBDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s db (%s): %w", name, cfg.DBBackend, err)
	}
	return db, nil
}
