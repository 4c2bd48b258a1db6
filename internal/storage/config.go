package storage

import (
	"github.com/kyleking/supplier-api/internal/config"
)

// NewStoreFromConfig opens the database described by the database section.
// The path is used as given; LoadConfig has already expanded it.
func NewStoreFromConfig(cfg *config.DatabaseConfig) (*Store, error) {
	return Open(cfg.Path, Options{
		MaxOpenConns:    cfg.MaxConnections,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: config.Duration(cfg.ConnMaxLifetime),
		QueryTimeout:    config.Duration(cfg.QueryTimeout),
	})
}
