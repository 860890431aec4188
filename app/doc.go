// Package app runs the question nearest-neighbour job end to end: it reads
// word vectors, embeds every dataset question, indexes the embeddings and
// reports the nearest questions of a sample and a timed full batch.
package app
