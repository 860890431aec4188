package vector

import (
	"database/sql"
)

const questionsSchema = `
CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY,
    qid TEXT,
    text TEXT,
    embedding BLOB
);
`

const cacheMetaSchema = `
CREATE TABLE IF NOT EXISTS cache_meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates the questions and cache_meta tables in the provided
// database if they do not already exist.
func EnsureSchema(db *sql.DB) error {
	for _, ddl := range []string{questionsSchema, cacheMetaSchema} {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}
