package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "version": "1.1",
  "data": [
    {"title": "a", "paragraphs": [
      {"context": "...", "qas": [
        {"id": "q1", "question": "Who wrote it?", "answers": []},
        {"id": "q2", "question": "When?"}
      ]},
      {"context": "...", "qas": []}
    ]},
    {"title": "b", "paragraphs": [
      {"qas": [{"id": "q3", "question": "Where is it?"}]}
    ]}
  ]
}`

func TestLoad(t *testing.T) {
	got, err := Load(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	assert.Equal(t, []Question{
		{Position: 0, ID: "q1", Text: "Who wrote it?"},
		{Position: 1, ID: "q2", Text: "When?"},
		{Position: 2, ID: "q3", Text: "Where is it?"},
	}, got)
	assert.Equal(t, []string{"Who wrote it?", "When?", "Where is it?"}, Texts(got))
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		description string
		input       string
	}{
		{description: "not json", input: "data:"},
		{description: "wrong shape", input: `{"data": {"paragraphs": []}}`},
		{description: "no data", input: `{"version": "1"}`},
	}
	for _, tc := range testCases {
		_, err := Load(strings.NewReader(tc.input))
		require.Error(t, err, tc.description)
		assert.ErrorIs(t, err, ErrInvalidFormat, tc.description)
		oopsErr, ok := oops.AsOops(err)
		require.True(t, ok, tc.description)
		assert.Equal(t, CodeDatasetInvalidFormat, oopsErr.Code(), tc.description)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
