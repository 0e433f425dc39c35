package database

import (
	"fmt"
	"os"

	"clients_backend/internal/config"
	"clients_backend/pkg/utils"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var schemas = map[string]string{
	DriverPostgres: `
CREATE TABLE IF NOT EXISTS clients (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	last_name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL UNIQUE,
	create_at DATE NOT NULL,
	photo VARCHAR(255)
);`,
	DriverSQLite: `
CREATE TABLE IF NOT EXISTS clients (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	create_at DATE NOT NULL,
	photo TEXT
);`,
}

// Open connects to the database described by cfg and verifies the connection.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var dsn string
	switch cfg.Driver {
	case DriverPostgres:
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
	case DriverSQLite:
		dsn = cfg.Path
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Connect(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// One connection keeps ":memory:" databases shared and serializes writers.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}

	utils.LogInfo("Successfully connected to the database", map[string]interface{}{"driver": cfg.Driver})
	return db, nil
}

// ApplySchema creates the clients table. When schemaPath is set the file
// content is executed instead of the built-in schema for the driver.
func ApplySchema(db *sqlx.DB, schemaPath string) error {
	script, ok := schemas[db.DriverName()]
	if schemaPath != "" {
		content, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
		}
		script, ok = string(content), true
	}
	if !ok {
		return fmt.Errorf("no schema available for driver %q", db.DriverName())
	}

	if _, err := db.Exec(script); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied", map[string]interface{}{"driver": db.DriverName(), "schema_path": schemaPath})
	return nil
}
