package embed

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samber/oops"
)

// Vocab maps words to vectors of a common dimension. Vectors are kept in one
// contiguous buffer; a repeated word keeps the last vector read for it.
type Vocab struct {
	dim   int
	rows  map[string]int
	data  []float32
	total int
}

// Dimension returns the vector width.
func (v *Vocab) Dimension() int { return v.dim }

// Len returns the number of distinct words.
func (v *Vocab) Len() int { return len(v.rows) }

// Declared returns the row count announced by the file header.
func (v *Vocab) Declared() int { return v.total }

// Lookup returns the vector for word. The slice aliases the vocabulary and
// must not be modified.
func (v *Vocab) Lookup(word string) ([]float32, bool) {
	row, ok := v.rows[word]
	if !ok {
		return nil, false
	}
	off := row * v.dim
	return v.data[off : off+v.dim : off+v.dim], true
}

// Set stores vec for word, replacing any previous vector.
func (v *Vocab) Set(word string, vec []float32) error {
	if len(vec) != v.dim {
		return oops.Code(CodeReadInvalidFormat).With("word", word, "dim", v.dim, "got", len(vec)).Wrap(ErrInvalidFormat)
	}
	if row, ok := v.rows[word]; ok {
		copy(v.data[row*v.dim:], vec)
		return nil
	}
	v.rows[word] = len(v.data) / v.dim
	v.data = append(v.data, vec...)
	return nil
}

// NewVocab creates an empty vocabulary of the given dimension.
func NewVocab(dim int) (*Vocab, error) {
	if dim <= 0 {
		return nil, oops.Code(CodeReadInvalidFormat).With("dim", dim).Wrap(ErrInvalidFormat)
	}
	return &Vocab{dim: dim, rows: map[string]int{}}, nil
}

type readOptions struct {
	limit         int
	progressEvery int
	progress      func(read, declared int)
}

// ReadOption configures ReadVectors.
type ReadOption func(*readOptions)

// WithLimit stops reading after n rows; n <= 0 reads everything.
func WithLimit(n int) ReadOption {
	return func(o *readOptions) { o.limit = n }
}

// WithProgress calls fn after every `every` rows and once at the end.
func WithProgress(every int, fn func(read, declared int)) ReadOption {
	return func(o *readOptions) {
		if every > 0 {
			o.progressEvery = every
			o.progress = fn
		}
	}
}

// ReadVectorsFile opens path and reads it with ReadVectors.
func ReadVectorsFile(ctx context.Context, path string, opts ...ReadOption) (*Vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, oops.Code(CodeReadFailure).With("path", path).Wrapf(err, "embed: opening vectors")
	}
	defer f.Close()
	vocab, err := ReadVectors(ctx, f, opts...)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return vocab, nil
}

// ReadVectors parses the fastText .vec text format: a "<rows> <dim>" header
// followed by one "word v1 ... vdim" line per entry. Values are split off
// from the right, so words may contain spaces.
func ReadVectors(ctx context.Context, r io.Reader, opts ...ReadOption) (*Vocab, error) {
	o := &readOptions{}
	for _, opt := range opts {
		opt(o)
	}
	br := bufio.NewReaderSize(r, 1<<20)

	header, err := readLine(br)
	if err != nil {
		return nil, oops.Code(CodeReadInvalidFormat).With("line", 1).Wrapf(ErrInvalidFormat, "embed: missing header: %v", err)
	}
	fields := strings.Fields(header)
	if len(fields) != 2 {
		return nil, oops.Code(CodeReadInvalidFormat).With("line", 1, "header", header).Wrap(ErrInvalidFormat)
	}
	declared, errRows := strconv.Atoi(fields[0])
	dim, errDim := strconv.Atoi(fields[1])
	if errRows != nil || errDim != nil || declared < 0 {
		return nil, oops.Code(CodeReadInvalidFormat).With("line", 1, "header", header).Wrap(ErrInvalidFormat)
	}
	vocab, err := NewVocab(dim)
	if err != nil {
		return nil, err
	}
	vocab.total = declared

	expect := declared
	if o.limit > 0 && o.limit < expect {
		expect = o.limit
	}
	vocab.rows = make(map[string]int, expect)
	vocab.data = make([]float32, 0, expect*dim)

	values := make([]string, dim)
	vec := make([]float32, dim)
	read := 0
	for lineNo := 2; o.limit <= 0 || read < o.limit; lineNo++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, err := readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, oops.Code(CodeReadFailure).With("line", lineNo).Wrap(err)
		}
		if line == "" {
			continue
		}
		word, ok := splitValues(line, values)
		if !ok {
			return nil, oops.Code(CodeReadInvalidFormat).With("line", lineNo, "dim", dim).Wrapf(ErrInvalidFormat, "embed: expected %d values", dim)
		}
		for j, s := range values {
			f, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, oops.Code(CodeReadInvalidFormat).With("line", lineNo, "value", s).Wrapf(ErrInvalidFormat, "embed: %v", err)
			}
			vec[j] = float32(f)
		}
		if err := vocab.Set(word, vec); err != nil {
			return nil, err
		}
		read++
		if o.progress != nil && read%o.progressEvery == 0 {
			o.progress(read, declared)
		}
	}
	if o.progress != nil {
		o.progress(read, declared)
	}
	return vocab, nil
}

// splitValues fills values from the right end of line and returns the
// remaining prefix as the word.
func splitValues(line string, values []string) (string, bool) {
	rest := line
	for j := len(values) - 1; j >= 0; j-- {
		sp := strings.LastIndexByte(rest, ' ')
		if sp < 0 {
			return "", false
		}
		values[j] = rest[sp+1:]
		rest = rest[:sp]
	}
	return rest, true
}

// readLine returns the next line without its trailing whitespace. io.EOF is
// returned only when no data is left.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, " \t\r\n"), nil
}
