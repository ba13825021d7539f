package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, no CGO
)

// SQLite performs best with a single writer connection; readers share it.
const maxOpenConns = 1

// Connect opens (or creates) the SQLite database at the given path.
// WAL mode lets the catalog reads proceed while auth writes are in flight,
// busy_timeout waits for locks instead of failing immediately.
func Connect(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)

	if err = db.Ping(); err != nil {
		db.Close() // Close connection if ping fails
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database")
	return db, nil
}
