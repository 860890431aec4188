package embed

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmbedder(t *testing.T) *Embedder {
	t.Helper()
	vocab, err := NewVocab(2)
	require.NoError(t, err)
	require.NoError(t, vocab.Set("cat", []float32{2, 0}))
	require.NoError(t, vocab.Set("dog", []float32{0, 4}))
	require.NoError(t, vocab.Set("?", []float32{0, 0}))
	return NewEmbedder(vocab)
}

func TestEmbedder_Embed(t *testing.T) {
	ctx := context.Background()
	e := newTestEmbedder(t)
	assert.Equal(t, 2, e.Dimension())

	got, err := e.Embed(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, got)

	// the mean of (2,0) and (0,4) points along (1,2)
	got, err = e.Embed(ctx, "cat dog unknown?")
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt(5), got[0], 1e-6)
	assert.InDelta(t, 2/math.Sqrt(5), got[1], 1e-6)

	embed := e.Func()
	again, err := embed(ctx, "cat dog unknown?")
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestEmbedder_NoKnownTokens(t *testing.T) {
	ctx := context.Background()
	e := newTestEmbedder(t)
	for _, text := range []string{"", "zebra", "zebra ?"} {
		_, err := e.Embed(ctx, text)
		assert.ErrorIs(t, err, ErrNoKnownTokens, text)
	}
}

func TestEmbedder_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestEmbedder(t).Embed(ctx, "cat")
	assert.ErrorIs(t, err, context.Canceled)
}
