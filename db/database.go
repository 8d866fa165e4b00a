package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// DriverFor выбирает драйвер по DSN: postgres:// → lib/pq, иначе sqlite3.
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// InitDB открывает соединение и создаёт таблицы.
func InitDB(dsn string) (*sql.DB, error) {
	driver := DriverFor(dsn)

	database, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// sqlite не любит параллельную запись
		database.SetMaxOpenConns(1)
	}

	if err = database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	if err = CreateSchema(database, driver); err != nil {
		database.Close()
		return nil, err
	}

	slog.Info("database initialized", "driver", driver)
	return database, nil
}

func CreateSchema(database *sql.DB, driver string) error {
	schema := sqliteSchema
	if driver == DriverPostgres {
		schema = postgresSchema
	}
	if _, err := database.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS shifts (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT        NOT NULL,
	start_time  TEXT        NOT NULL,
	end_time    TEXT        NOT NULL,
	description TEXT        NOT NULL DEFAULT '',
	is_active   BOOLEAN     NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_shifts_active ON shifts (is_active);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS shifts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT     NOT NULL,
	start_time  TEXT     NOT NULL,
	end_time    TEXT     NOT NULL,
	description TEXT     NOT NULL DEFAULT '',
	is_active   BOOLEAN  NOT NULL DEFAULT 1,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_shifts_active ON shifts (is_active);
`
