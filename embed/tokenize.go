package embed

import (
	"strings"
	"unicode/utf8"
)

const (
	prefixPunct = "\"'([{¿¡«“‘`$"
	suffixPunct = "\"')]}?!.,;:»”’…%"
)

var clitics = []string{"'s", "’s", "n't", "n’t", "'re", "'ve", "'ll", "'d", "'m"}

// Tokenize splits text on whitespace and then peels leading and trailing
// punctuation and English clitics off every chunk as separate tokens, e.g.
// `What's "it"?` becomes [What 's " it " ?].
func Tokenize(text string) []string {
	var out []string
	for _, chunk := range strings.Fields(text) {
		out = splitChunk(chunk, out)
	}
	return out
}

func splitChunk(chunk string, out []string) []string {
	for chunk != "" {
		r, size := utf8.DecodeRuneInString(chunk)
		if !strings.ContainsRune(prefixPunct, r) {
			break
		}
		out = append(out, chunk[:size])
		chunk = chunk[size:]
	}

	var suffixes []string
	for chunk != "" {
		if stem, ok := cutClitic(chunk); ok {
			suffixes = append(suffixes, chunk[len(stem):])
			chunk = stem
			continue
		}
		r, size := utf8.DecodeLastRuneInString(chunk)
		if !strings.ContainsRune(suffixPunct, r) {
			break
		}
		suffixes = append(suffixes, chunk[len(chunk)-size:])
		chunk = chunk[:len(chunk)-size]
	}
	if chunk != "" {
		out = append(out, chunk)
	}
	for i := len(suffixes) - 1; i >= 0; i-- {
		out = append(out, suffixes[i])
	}
	return out
}

func cutClitic(chunk string) (string, bool) {
	lower := strings.ToLower(chunk)
	for _, c := range clitics {
		if len(lower) > len(c) && strings.HasSuffix(lower, c) {
			return chunk[:len(chunk)-len(c)], true
		}
	}
	return "", false
}
