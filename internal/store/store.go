// Package store provides SQL-backed persistence for generated terrain chunks,
// supporting SQLite and PostgreSQL behind a shared dialect abstraction.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Config holds chunk store connection configuration.
type Config struct {
	// Driver specifies which database to use: "sqlite" or "postgres"
	Driver string `yaml:"driver"`

	// Path is the SQLite database file path.
	Path string `yaml:"path"`

	// DSN is the PostgreSQL connection string.
	DSN string `yaml:"dsn"`
}

// Store wraps the database connection and provides chunk persistence.
type Store struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens the chunk store described by the config, creating the schema
// if it does not exist.
func Open(cfg Config) (*Store, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	dsn := cfg.DSN
	if _, ok := dialect.(*SQLiteDialect); ok {
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite store requires a path")
		}
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		dsn = cfg.Path
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk store: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize chunk store: %w", err)
		}
	}

	s := &Store{
		db:      db,
		dialect: dialect,
		qb:      NewQueryBuilder(dialect),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the store's database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the chunk schema if it doesn't exist.
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			world_seed BIGINT NOT NULL,
			origin_x INTEGER NOT NULL,
			origin_y INTEGER NOT NULL,
			size INTEGER NOT NULL,
			chunk_seed BIGINT NOT NULL,
			generated_at BIGINT NOT NULL,
			PRIMARY KEY (world_seed, origin_x, origin_y)
		)`,

		`CREATE TABLE IF NOT EXISTS chunk_tiles (
			world_seed BIGINT NOT NULL,
			origin_x INTEGER NOT NULL,
			origin_y INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			tile TEXT NOT NULL,
			PRIMARY KEY (world_seed, origin_x, origin_y, x, y)
		)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
