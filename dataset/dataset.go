package dataset

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/samber/oops"
)

const (
	CodeDatasetInvalidFormat = "dataset.load.invalid_format"
	CodeDatasetReadFailure   = "dataset.load.read_failure"
)

// ErrInvalidFormat is returned when the document is not SQuAD-shaped JSON.
var ErrInvalidFormat = errors.New("dataset: invalid document")

// Question is a single question in document order. Position is its zero-based
// index across the whole document and doubles as its vector identifier.
type Question struct {
	Position int
	ID       string
	Text     string
}

type document struct {
	Data []struct {
		Title      string `json:"title"`
		Paragraphs []struct {
			QAs []struct {
				ID       string `json:"id"`
				Question string `json:"question"`
			} `json:"qas"`
		} `json:"paragraphs"`
	} `json:"data"`
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string) ([]Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, oops.Code(CodeDatasetReadFailure).With("path", path).Wrapf(err, "dataset: opening")
	}
	defer f.Close()
	questions, err := Load(f)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return questions, nil
}

// Load decodes data[].paragraphs[].qas[] and returns every question in
// document order.
func Load(r io.Reader) ([]Question, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, oops.Code(CodeDatasetInvalidFormat).Wrapf(errors.Join(ErrInvalidFormat, err), "dataset: decoding")
	}
	if doc.Data == nil {
		return nil, oops.Code(CodeDatasetInvalidFormat).Wrapf(ErrInvalidFormat, "dataset: missing data array")
	}
	var out []Question
	for _, article := range doc.Data {
		for _, paragraph := range article.Paragraphs {
			for _, qa := range paragraph.QAs {
				out = append(out, Question{Position: len(out), ID: qa.ID, Text: qa.Question})
			}
		}
	}
	return out, nil
}

// Texts returns the question texts in order.
func Texts(questions []Question) []string {
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = q.Text
	}
	return out
}
