package embed

import "errors"

const (
	CodeReadInvalidFormat = "embed.read.invalid_format"
	CodeReadFailure       = "embed.read.failure"
	CodeEmbedNoKnownToken = "embed.text.no_known_token"
)

var (
	// ErrInvalidFormat is returned for a malformed vector file.
	ErrInvalidFormat = errors.New("embed: invalid vector file format")
	// ErrNoKnownTokens is returned when no token of a text has a vector, so
	// the averaged embedding has zero length and cannot be normalised.
	ErrNoKnownTokens = errors.New("embed: no token with a known vector")
)
