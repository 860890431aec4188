// Package flat provides an exact vector index that answers kNN queries by
// scanning every stored vector and scoring it by inner product. Callers that
// want cosine similarity insert and query with unit-length vectors.
package flat
