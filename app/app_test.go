package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/qnn/config"
	"github.com/viant/qnn/index"
	"github.com/viant/qnn/vector"
)

const testVectors = `6 3
Who 1 0 0
What 0 1 0
Where 0 0 1
is 0.2 0.2 0.2
it 0.1 0 0.3
? 0 0 0
`

const testQuestions = `{"data": [
  {"paragraphs": [{"qas": [
    {"id": "a", "question": "Who is it?"},
    {"id": "b", "question": "What is it?"}
  ]}]},
  {"paragraphs": [{"qas": [
    {"id": "c", "question": "Where is it?"},
    {"id": "d", "question": "Who?"},
    {"id": "e", "question": "Zzz"}
  ]}]}
]}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	vectorsPath := filepath.Join(dir, "words.vec")
	require.NoError(t, os.WriteFile(vectorsPath, []byte(testVectors), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "qa.json"), []byte(testQuestions), 0o644))
	return &config.Config{
		DataDir:     dir,
		VectorsPath: vectorsPath,
		DatasetPath: "qa.json",
		Sample:      2,
		K:           2,
		BatchK:      1,
		Workers:     2,
		Log:         config.LogConfig{Level: "info", Format: "text"},
	}
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), cfg, &out))

	got := out.String()
	assert.Contains(t, got, "Total Qs indexed: 5\n")
	assert.Contains(t, got, "NN Indexes:\n[[0 3]\n [1 2]]\n")
	assert.Contains(t, got, "Original Q: Who is it?\n")
	assert.Contains(t, got, "NN0 of Q: Who is it? (Score: 1.0000)\n")
	assert.Contains(t, got, "NN1 of Q: Who? (Score: 0.9239)\n")
	assert.Contains(t, got, "Original Q: What is it?\n")
	assert.Contains(t, got, "NN1 of Q: Where is it?")
	assert.Contains(t, got, "[[0]\n [1]]\n")
	assert.Contains(t, got, "Took ")
	assert.True(t, strings.HasSuffix(got, "Done!\n"))
}

func TestRun_CacheAndVerify(t *testing.T) {
	cfg := testConfig(t)
	cfg.CachePath = filepath.Join(cfg.DataDir, "cache.sqlite")
	cfg.Verify = true

	var first, second bytes.Buffer
	require.NoError(t, Run(context.Background(), cfg, &first))
	require.FileExists(t, cfg.CachePath)
	require.NoError(t, Run(context.Background(), cfg, &second))

	before := func(s string) string { return strings.SplitN(s, "Took ", 2)[0] }
	assert.Equal(t, before(first.String()), before(second.String()))
	assert.True(t, strings.HasSuffix(second.String(), "Done!\n"))
}

func TestRun_CacheRefreshedWhenVectorsChange(t *testing.T) {
	cfg := testConfig(t)
	cfg.CachePath = filepath.Join(cfg.DataDir, "cache.sqlite")
	cfg.Verify = true

	var first bytes.Buffer
	require.NoError(t, Run(context.Background(), cfg, &first))
	assert.Contains(t, first.String(), "NN Indexes:\n[[0 3]\n [1 2]]\n")

	changed := strings.NewReplacer(
		"Who 1 0 0", "Who 0 0 1",
		"Where 0 0 1", "Where 1 0 0",
		"is 0.2 0.2 0.2", "is 0 0 0",
		"it 0.1 0 0.3", "it 0 0 0",
	).Replace(testVectors)
	require.NoError(t, os.WriteFile(cfg.VectorsPath, []byte(changed), 0o644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(cfg.VectorsPath, later, later))

	var cached, uncached bytes.Buffer
	require.NoError(t, Run(context.Background(), cfg, &cached))
	plain := *cfg
	plain.CachePath, plain.Verify = "", false
	require.NoError(t, Run(context.Background(), &plain, &uncached))

	before := func(s string) string { return strings.SplitN(s, "Took ", 2)[0] }
	assert.Contains(t, uncached.String(), "NN Indexes:\n[[0 3]\n [1 0]]\n")
	assert.Equal(t, before(uncached.String()), before(cached.String()))
}

func TestCloseLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	closeLogged(logger, "question cache", func() error { return nil })
	assert.Empty(t, logs.String())

	closeLogged(logger, "question cache", func() error { return errors.New("disk gone") })
	assert.Contains(t, logs.String(), "closing question cache failed")
	assert.Contains(t, logs.String(), "disk gone")
}

func TestRun_MissingVectors(t *testing.T) {
	cfg := testConfig(t)
	cfg.VectorsPath = filepath.Join(cfg.DataDir, "missing.vec")
	var out bytes.Buffer
	err := Run(context.Background(), cfg, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, out.String())
}

type stubStore struct {
	vector.Store
	matches []vector.Match
}

func (s *stubStore) SimilaritySearch(context.Context, []float32, int) ([]vector.Match, error) {
	return s.matches, nil
}

func TestVerify(t *testing.T) {
	results := [][]index.Neighbor{{{ID: 0, Score: 1}, {ID: 2, Score: 0.5}}}
	queries := [][]float32{{1, 0}}

	ok := &stubStore{matches: []vector.Match{{Position: 0, Score: 1}, {Position: 2, Score: 0.5}}}
	require.NoError(t, verify(context.Background(), ok, queries, results, 2))

	for _, matches := range [][]vector.Match{
		{{Position: 0, Score: 1}},
		{{Position: 0, Score: 1}, {Position: 1, Score: 0.5}},
		{{Position: 0, Score: 1}, {Position: 2, Score: 0.25}},
	} {
		err := verify(context.Background(), &stubStore{matches: matches}, queries, results, 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrVerifyMismatch)
		oopsErr, isOops := oops.AsOops(err)
		require.True(t, isOops)
		assert.Equal(t, CodeAppVerifyMismatch, oopsErr.Code())
	}
}

func TestMatrix(t *testing.T) {
	rows := [][]index.Neighbor{{{ID: 0}, {ID: 12}}, {{ID: 3}, {ID: 4}}}
	assert.Equal(t, "[[ 0 12]\n [ 3  4]]\n", matrix(rows, neighborID))
	assert.Equal(t, "[]\n", matrix(nil, neighborID))
}
