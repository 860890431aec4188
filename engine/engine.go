package engine

import (
	"database/sql"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// Memory is the DSN of a private in-memory database.
const Memory = ":memory:"

// Open opens a SQLite database using the modernc.org/sqlite driver with the
// vector functions registered.
//
// For file-based databases, pass a path like "./db.sqlite". For in-memory
// databases, pass Memory; the pool is then limited to one connection because
// every SQLite connection to ":memory:" sees its own empty database.
func Open(dsn string) (*sql.DB, error) {
	if err := RegisterVectorFunctions(nil); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == Memory {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
