package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func Init(driver, connection string) (*sqlx.DB, error) {
	// SQLite: create data directory if needed
	if driver == "sqlite" && !isMemory(connection) {
		dir := filepath.Dir(connection)
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	if driver == "sqlite" {
		connection = sqliteConnection(connection)
	}

	db, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// Connection pool configuration (good defaults for all drivers)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	slog.Info("database connected", "driver", driver)

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// sqliteConnection makes concurrent writers wait for the lock instead of
// failing with SQLITE_BUSY: a busy timeout, and transactions that take the
// write lock at BEGIN so a read never has to be upgraded mid-transaction.
// Settings already present in connection are kept.
func sqliteConnection(connection string) string {
	var params []string
	if !strings.Contains(connection, "busy_timeout") {
		params = append(params, "_pragma=busy_timeout(5000)")
	}
	if !strings.Contains(connection, "_txlock") {
		params = append(params, "_txlock=immediate")
	}
	if len(params) == 0 {
		return connection
	}

	// Pragmas apply in order; the timeout goes first so the others wait too.
	base, query, _ := strings.Cut(connection, "?")
	if query != "" {
		params = append(params, query)
	}
	return base + "?" + strings.Join(params, "&")
}

func isMemory(connection string) bool {
	return strings.Contains(connection, ":memory:") || strings.Contains(connection, "mode=memory")
}

func Close(db *sqlx.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
