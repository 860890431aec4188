package embed

import (
	"context"

	"github.com/samber/oops"
	"github.com/viant/qnn/vector"
)

// EmbedFunc converts free-form text into an embedding.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// Embedder averages word vectors over the tokens of a text and normalises
// the mean to unit length.
type Embedder struct {
	vocab    *Vocab
	tokenize func(string) []string
}

// NewEmbedder creates an Embedder over vocab using Tokenize.
func NewEmbedder(vocab *Vocab) *Embedder {
	return &Embedder{vocab: vocab, tokenize: Tokenize}
}

// Dimension returns the embedding width.
func (e *Embedder) Dimension() int { return e.vocab.Dimension() }

// Embed returns the unit-length mean of the token vectors of text. Tokens
// without a vector count as zero vectors in the mean. ErrNoKnownTokens is
// returned when the mean is the zero vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens := e.tokenize(text)
	dim := e.vocab.Dimension()
	sum := make([]float64, dim)
	for _, tok := range tokens {
		vec, ok := e.vocab.Lookup(tok)
		if !ok {
			continue
		}
		for j, c := range vec {
			sum[j] += float64(c)
		}
	}
	out := make([]float32, dim)
	if len(tokens) > 0 {
		for j := range sum {
			out[j] = float32(sum[j] / float64(len(tokens)))
		}
	}
	if vector.Normalize(out) == 0 {
		return nil, oops.Code(CodeEmbedNoKnownToken).With("text", text, "tokens", len(tokens)).Wrap(ErrNoKnownTokens)
	}
	return out, nil
}

// Func adapts e to an EmbedFunc.
func (e *Embedder) Func() EmbedFunc { return e.Embed }
