// Package index defines a minimal abstraction for similarity indexes that are
// populated once in bulk and then queried in batch for the k nearest
// neighbours by inner product. Implementations in this module include an
// exact flat (exhaustive) baseline.
package index
