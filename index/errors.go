package index

import (
	"errors"

	"github.com/samber/oops"
)

// Code identifies an index error kind in structured error output.
type Code string

const (
	CodeInvalidDimension   Code = "index.construct.invalid_dimension"
	CodeDimensionMismatch  Code = "index.vector.dimension_mismatch"
	CodeEmptyIndex         Code = "index.query.empty"
	CodeInvalidK           Code = "index.query.invalid_k"
	CodeConcurrentMutation Code = "index.mutation.concurrent"
)

var (
	// ErrInvalidDimension is returned when an index is constructed with a
	// non-positive dimension.
	ErrInvalidDimension = errors.New("index: invalid dimension")
	// ErrDimensionMismatch is returned when an inserted or query vector does
	// not have the index dimension.
	ErrDimensionMismatch = errors.New("index: dimension mismatch")
	// ErrEmptyIndex is returned by Query before any vector was inserted.
	ErrEmptyIndex = errors.New("index: empty index")
	// ErrInvalidK is returned by Query when k is not positive.
	ErrInvalidK = errors.New("index: k must be positive")
	// ErrConcurrentMutation is returned when Insert overlaps another Insert
	// or a Query.
	ErrConcurrentMutation = errors.New("index: concurrent mutation")
)

var codes = map[error]Code{
	ErrInvalidDimension:   CodeInvalidDimension,
	ErrDimensionMismatch:  CodeDimensionMismatch,
	ErrEmptyIndex:         CodeEmptyIndex,
	ErrInvalidK:           CodeInvalidK,
	ErrConcurrentMutation: CodeConcurrentMutation,
}

// Errorf wraps one of the index sentinel errors with its code and the given
// key/value context. The result satisfies errors.Is(err, sentinel).
func Errorf(sentinel error, kv ...any) error {
	code, ok := codes[sentinel]
	if !ok {
		code = "index.failure"
	}
	return oops.Code(code).With(kv...).Wrap(sentinel)
}

// CodeOf returns the index error code carried by err, or "" when err is not
// an index error.
func CodeOf(err error) Code {
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}
