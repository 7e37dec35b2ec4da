package account

import (
	"database/sql"
	"fmt"
)

const (
	PersistenceInMemory = "inmem"
	PersistenceFile     = "file"
	PersistencePostgres = "postgres"
	PersistenceSQLite   = "sqlite"
)

// RepositoryConfig contains configuration for creating account repositories
type RepositoryConfig struct {
	// Pool is required for PostgreSQL repositories
	Pool PgxQuerier
	// SQLite is required for SQLite repositories
	SQLite *sql.DB
	// DataDir is required for file-based repositories
	DataDir string
}

// NewAccountRepository creates a new account repository based on the persistence type
func NewAccountRepository(persistenceType string, config RepositoryConfig) (AccountRepository, error) {
	switch persistenceType {
	case PersistenceInMemory, "memory", "":
		return NewInMemoryAccountRepository(), nil
	case PersistenceFile:
		if config.DataDir == "" {
			return nil, fmt.Errorf("dataDir required for file repository")
		}
		return NewFileAccountRepository(config.DataDir)
	case PersistencePostgres, "postgresql":
		if config.Pool == nil {
			return nil, fmt.Errorf("pool required for postgres repository")
		}
		return NewPostgresAccountRepository(config.Pool), nil
	case PersistenceSQLite:
		if config.SQLite == nil {
			return nil, fmt.Errorf("sqlite database required for sqlite repository")
		}
		return NewSQLiteAccountRepository(config.SQLite), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: inmem, file, postgres, sqlite)", persistenceType)
	}
}
