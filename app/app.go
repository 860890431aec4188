package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"github.com/viant/qnn/config"
	"github.com/viant/qnn/dataset"
	"github.com/viant/qnn/embed"
	"github.com/viant/qnn/index"
	"github.com/viant/qnn/index/flat"
	"github.com/viant/qnn/vector"
)

const CodeAppVerifyMismatch = "app.verify.mismatch"

const progressEvery = 100000

// ErrVerifyMismatch is returned when the index and the SQL scan disagree.
var ErrVerifyMismatch = errors.New("app: index and cache search disagree")

// Run executes the job described by cfg and writes the report to out.
func Run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	logger := slog.Default().With("run_id", uuid.NewString())
	errb := oops.In("app")

	logger.Info("loading word embeddings", "path", cfg.VectorsPath, "limit", cfg.VectorLimit)
	vocab, err := embed.ReadVectorsFile(ctx, cfg.VectorsPath,
		embed.WithLimit(cfg.VectorLimit),
		embed.WithProgress(progressEvery, func(read, declared int) {
			logger.Debug("reading word embeddings", "read", read, "declared", declared)
		}),
	)
	if err != nil {
		return errb.Wrap(err)
	}
	logger.Info("word embeddings loaded", "words", vocab.Len(), "dim", vocab.Dimension())

	logger.Info("loading questions", "path", cfg.DatasetFile())
	questions, err := dataset.LoadFile(cfg.DatasetFile())
	if err != nil {
		return errb.Wrap(err)
	}

	var store vector.Store
	var fingerprint string
	if cfg.CachePath != "" {
		if fingerprint, err = sourceFingerprint(cfg.VectorsPath, cfg.VectorLimit, vocab); err != nil {
			return errb.Wrap(err)
		}
		cache, closeCache, err := openCache(cfg.CachePath)
		if err != nil {
			return errb.Wrap(err)
		}
		defer closeLogged(logger, "question cache", closeCache)
		store = cache
	}

	vectors, err := questionVectors(ctx, logger, store, fingerprint, embed.NewEmbedder(vocab), questions)
	if err != nil {
		return errb.Wrap(err)
	}

	idx, err := flat.New(vocab.Dimension(), flat.WithParallelism(cfg.Parallelism()), flat.WithCapacity(len(vectors)))
	if err != nil {
		return errb.Wrap(err)
	}
	if _, err := idx.Insert(vectors); err != nil {
		return errb.Wrap(err)
	}

	texts := dataset.Texts(questions)
	r := &report{w: out}
	r.printf("Total Qs indexed: %d\n", idx.Len())

	sample := min(cfg.Sample, len(vectors))
	var sampled [][]index.Neighbor
	if sample > 0 {
		if sampled, err = idx.Query(vectors[:sample], cfg.K); err != nil {
			return errb.Wrap(err)
		}
		r.neighbors(sampled, texts)
	}

	start := time.Now()
	batch, err := idx.Query(vectors, cfg.BatchK)
	if err != nil {
		return errb.Wrap(err)
	}
	took := time.Since(start)
	logger.Info("batch query finished", "queries", len(vectors), "k", cfg.BatchK, "took", took)
	r.batch(batch, sample, took)

	if cfg.Verify && store != nil {
		if err := verify(ctx, store, vectors[:sample], sampled, cfg.K); err != nil {
			return errb.Wrap(err)
		}
		logger.Info("index agrees with cache search", "queries", sample)
	}
	r.printf("Done!\n")
	return r.err
}

// embedAll embeds every question. A question without any known token keeps
// a zero vector so identifiers stay aligned with question positions.
func embedAll(ctx context.Context, logger *slog.Logger, embedder *embed.Embedder, questions []dataset.Question) ([][]float32, error) {
	logger.Info("embedding questions", "count", len(questions))
	embedFn := embedder.Func()
	out := make([][]float32, len(questions))
	var unknown int
	for i, q := range questions {
		v, err := embedFn(ctx, q.Text)
		if errors.Is(err, embed.ErrNoKnownTokens) {
			unknown++
			logger.Debug("question has no known token", "position", q.Position, "id", q.ID)
			v = make([]float32, embedder.Dimension())
		} else if err != nil {
			return nil, err
		}
		out[i] = v
	}
	if unknown > 0 {
		logger.Warn("questions embedded as zero vectors", "count", unknown)
	}
	return out, nil
}

// verify checks each sampled index result against the SQL scan of the cache.
func verify(ctx context.Context, store vector.Store, queries [][]float32, results [][]index.Neighbor, k int) error {
	for qi, q := range queries {
		matches, err := store.SimilaritySearch(ctx, q, k)
		if err != nil {
			return err
		}
		got := results[qi]
		if len(matches) != len(got) {
			return oops.Code(CodeAppVerifyMismatch).With("query", qi, "index", len(got), "cache", len(matches)).Wrap(ErrVerifyMismatch)
		}
		for r, m := range matches {
			if m.Position != got[r].ID || m.Score != got[r].Score {
				return oops.Code(CodeAppVerifyMismatch).
					With("query", qi, "rank", r, "index_id", got[r].ID, "cache_id", m.Position, "index_score", got[r].Score, "cache_score", m.Score).
					Wrap(ErrVerifyMismatch)
			}
		}
	}
	return nil
}
