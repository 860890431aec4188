package vector

import (
	"testing"

	"github.com/viant/qnn/engine"
)

// TestEnsureSchema verifies that EnsureSchema creates the questions and cache_meta tables
// without error on a fresh in-memory database and is idempotent.
func TestEnsureSchema(t *testing.T) {
	db, err := engine.Open(engine.Memory)
	if err != nil {
		t.Fatalf("engine.Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := EnsureSchema(db); err != nil {
			t.Fatalf("EnsureSchema #%d failed: %v", i, err)
		}
	}

	if _, err := db.Exec(`INSERT INTO questions(id, qid, text, embedding) VALUES(0, 'q0', 'hello?', X'')`); err != nil {
		t.Fatalf("insert into questions failed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO cache_meta(key, value) VALUES('k', 'v')`); err != nil {
		t.Fatalf("insert into cache_meta failed: %v", err)
	}
}
