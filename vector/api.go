package vector

import (
	"context"
)

// Question is a dataset question together with its embedding. Position is the
// zero-based order of the question in its dataset and doubles as the index
// identifier assigned to its vector.
type Question struct {
	// Position is the question's ordinal in the dataset.
	Position int

	// QID is the dataset's own question identifier, if any.
	QID string

	// Text is the raw question string.
	Text string

	// Embedding is the vector representation of Text.
	Embedding []float32
}

// Match is a single similarity hit returned by Store.SimilaritySearch.
type Match struct {
	Position int
	Score    float64
}

// Store persists question embeddings so repeated runs can skip the embedding
// step.
type Store interface {
	// AddQuestions inserts or replaces questions keyed by Position.
	AddQuestions(ctx context.Context, questions []Question) error

	// Questions returns all stored questions ordered by Position.
	Questions(ctx context.Context) ([]Question, error)

	// Count returns the number of stored questions.
	Count(ctx context.Context) (int, error)

	// SimilaritySearch scores every stored embedding by inner product with
	// the query and returns the best k, ties resolved by smaller Position.
	SimilaritySearch(ctx context.Context, query []float32, k int) ([]Match, error)

	// Fingerprint returns the recorded description of the embedding source
	// the stored vectors were computed from, or "" when none was recorded.
	Fingerprint(ctx context.Context) (string, error)

	// SetFingerprint records the embedding source of the stored vectors.
	SetFingerprint(ctx context.Context, fingerprint string) error

	// Reset deletes all stored questions and the recorded fingerprint.
	Reset(ctx context.Context) error
}
