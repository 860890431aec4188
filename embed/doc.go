// Package embed turns question text into fixed-width vectors: it reads
// pretrained word vectors in the fastText .vec text format, tokenizes text
// and averages token vectors into a single unit-length embedding.
package embed
