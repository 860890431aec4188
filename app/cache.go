package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/viant/qnn/dataset"
	"github.com/viant/qnn/embed"
	"github.com/viant/qnn/engine"
	"github.com/viant/qnn/vector"
)

func openCache(path string) (*vector.SQLiteStore, func() error, error) {
	db, err := engine.Open(path)
	if err != nil {
		return nil, nil, oops.Code(vector.CodeStoreDatabaseFailure).With("path", path).Wrapf(err, "app: opening cache")
	}
	store, err := vector.NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, db.Close, nil
}

// closeLogged runs closeFn and logs a failure instead of dropping it.
func closeLogged(logger *slog.Logger, what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Warn("closing "+what+" failed", "error", err)
	}
}

// sourceFingerprint describes the word vectors embeddings were computed from.
// Any change to the file, the row limit or the loaded vocabulary changes it.
func sourceFingerprint(path string, limit int, vocab *embed.Vocab) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", oops.Code(embed.CodeReadFailure).With("path", path).Wrap(err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", oops.Code(embed.CodeReadFailure).With("path", abs).Wrap(err)
	}
	return fmt.Sprintf("path=%s size=%d mtime=%d limit=%d rows=%d dim=%d words=%d",
		abs, info.Size(), info.ModTime().UnixNano(), limit, vocab.Declared(), vocab.Dimension(), vocab.Len()), nil
}

// questionVectors returns one embedding per question. With a store, cached
// embeddings are reused when they cover exactly the loaded questions and were
// computed from the same source; otherwise fresh embeddings replace the
// cache content.
func questionVectors(ctx context.Context, logger *slog.Logger, store vector.Store, fingerprint string, embedder *embed.Embedder, questions []dataset.Question) ([][]float32, error) {
	if store != nil {
		cached, err := cachedVectors(ctx, store, fingerprint, questions, embedder.Dimension())
		if err != nil {
			return nil, err
		}
		if cached != nil {
			logger.Info("question vectors loaded from cache", "count", len(cached))
			return cached, nil
		}
	}

	vectors, err := embedAll(ctx, logger, embedder, questions)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return vectors, nil
	}

	entries := make([]vector.Question, len(questions))
	for i, q := range questions {
		entries[i] = vector.Question{Position: q.Position, QID: q.ID, Text: q.Text, Embedding: vectors[i]}
	}
	if err := store.Reset(ctx); err != nil {
		return nil, err
	}
	if err := store.AddQuestions(ctx, entries); err != nil {
		return nil, err
	}
	if err := store.SetFingerprint(ctx, fingerprint); err != nil {
		return nil, err
	}
	logger.Info("question vectors cached", "count", len(entries))
	return vectors, nil
}

// cachedVectors returns nil when the cache does not match questions or was
// filled from a different embedding source.
func cachedVectors(ctx context.Context, store vector.Store, fingerprint string, questions []dataset.Question, dim int) ([][]float32, error) {
	recorded, err := store.Fingerprint(ctx)
	if err != nil || recorded != fingerprint {
		return nil, err
	}
	count, err := store.Count(ctx)
	if err != nil || count != len(questions) || count == 0 {
		return nil, err
	}
	stored, err := store.Questions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]float32, len(stored))
	for i, s := range stored {
		q := questions[i]
		if s.Position != q.Position || s.QID != q.ID || s.Text != q.Text || len(s.Embedding) != dim {
			return nil, nil
		}
		out[i] = s.Embedding
	}
	return out, nil
}
