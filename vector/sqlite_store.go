package vector

import (
	"context"
	"database/sql"
	"errors"

	"github.com/samber/oops"
)

const (
	CodeStoreInvalidInput    = "store.invalid_input"
	CodeStoreDatabaseFailure = "store.database.failure"
	CodeStoreCorruptEntry    = "store.entry.corrupt"
)

const fingerprintKey = "embedding_source"

// SQLiteStore is a Store backed by the questions table of a SQLite database.
// SimilaritySearch runs an exhaustive scan in SQL using the vec_dot function,
// so the database must come from engine.Open (or have the engine functions
// registered before the connection was opened).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed Store. It ensures the questions
// schema exists in the provided database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, oops.Code(CodeStoreInvalidInput).Errorf("vector: db is nil")
	}
	if err := EnsureSchema(db); err != nil {
		return nil, oops.Code(CodeStoreDatabaseFailure).Wrapf(err, "vector: ensuring schema")
	}
	return &SQLiteStore{db: db}, nil
}

// AddQuestions inserts or replaces questions in a single transaction.
func (s *SQLiteStore) AddQuestions(ctx context.Context, questions []Question) error {
	if len(questions) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return oops.Code(CodeStoreDatabaseFailure).Wrapf(err, "vector: begin")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO questions(id, qid, text, embedding) VALUES(?, ?, ?, ?)`)
	if err != nil {
		return oops.Code(CodeStoreDatabaseFailure).Wrapf(err, "vector: prepare insert")
	}
	defer stmt.Close()

	for _, q := range questions {
		if q.Position < 0 {
			return oops.Code(CodeStoreInvalidInput).With("position", q.Position).Errorf("vector: negative question position")
		}
		emb, err := EncodeEmbedding(q.Embedding)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, q.Position, q.QID, q.Text, emb); err != nil {
			return oops.Code(CodeStoreDatabaseFailure).With("position", q.Position).Wrapf(err, "vector: insert question")
		}
	}

	if err := tx.Commit(); err != nil {
		return oops.Code(CodeStoreDatabaseFailure).Wrapf(err, "vector: commit")
	}
	return nil
}

// Questions loads every stored question ordered by position.
func (s *SQLiteStore) Questions(ctx context.Context) ([]Question, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, qid, text, embedding FROM questions ORDER BY id`)
	if err != nil {
		return nil, oops.Code(CodeStoreDatabaseFailure).Wrapf(err, "vector: select questions")
	}
	defer rows.Close()

	var out []Question
	dim := -1
	for rows.Next() {
		var q Question
		var qid, text sql.NullString
		var blob []byte
		if err := rows.Scan(&q.Position, &qid, &text, &blob); err != nil {
			return nil, oops.Code(CodeStoreDatabaseFailure).Wrapf(err, "vector: scan question")
		}
		q.QID, q.Text = qid.String, text.String
		// every row must match the dimension of the first one
		if dim < 0 {
			q.Embedding, err = DecodeEmbedding(blob)
			dim = len(q.Embedding)
		} else {
			q.Embedding, err = DecodeEmbeddingDim(blob, dim)
		}
		if err != nil {
			return nil, oops.Code(CodeStoreCorruptEntry).With("position", q.Position).Wrap(err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code(CodeStoreDatabaseFailure).Wrap(err)
	}
	return out, nil
}

// Count returns the number of stored questions.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, oops.Code(CodeStoreDatabaseFailure).Wrapf(err, "vector: count questions")
	}
	return n, nil
}

// SimilaritySearch ranks all stored embeddings by vec_dot against query.
// Rows whose score is NULL (empty or NaN embeddings) sort last.
func (s *SQLiteStore) SimilaritySearch(ctx context.Context, query []float32, k int) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	q, err := EncodeEmbedding(query)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, vec_dot(embedding, ?) AS score FROM questions ORDER BY score DESC, id ASC LIMIT ?`, q, k)
	if err != nil {
		return nil, oops.Code(CodeStoreDatabaseFailure).Wrapf(err, "vector: similarity search")
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		var score sql.NullFloat64
		if err := rows.Scan(&m.Position, &score); err != nil {
			return nil, oops.Code(CodeStoreDatabaseFailure).Wrapf(err, "vector: scan match")
		}
		m.Score = score.Float64
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code(CodeStoreDatabaseFailure).Wrap(err)
	}
	return out, nil
}

// Fingerprint returns the recorded embedding source, or "" when none is set.
func (s *SQLiteStore) Fingerprint(ctx context.Context) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM cache_meta WHERE key = ?`, fingerprintKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", oops.Code(CodeStoreDatabaseFailure).Wrapf(err, "vector: read fingerprint")
	}
	return value, nil
}

// SetFingerprint records the embedding source of the stored vectors.
func (s *SQLiteStore) SetFingerprint(ctx context.Context, fingerprint string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO cache_meta(key, value) VALUES(?, ?)`, fingerprintKey, fingerprint); err != nil {
		return oops.Code(CodeStoreDatabaseFailure).Wrapf(err, "vector: write fingerprint")
	}
	return nil
}

// Reset deletes all stored questions and the recorded fingerprint.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return oops.Code(CodeStoreDatabaseFailure).Wrapf(err, "vector: begin")
	}
	defer func() { _ = tx.Rollback() }()
	for _, stmt := range []string{`DELETE FROM cache_meta`, `DELETE FROM questions`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return oops.Code(CodeStoreDatabaseFailure).Wrapf(err, "vector: reset")
		}
	}
	if err := tx.Commit(); err != nil {
		return oops.Code(CodeStoreDatabaseFailure).Wrapf(err, "vector: commit")
	}
	return nil
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
