// Package vector defines the question-vector model and SQLite-backed
// utilities used by this project. It includes:
//   - Question model and Store interface
//   - SQLiteStore: durable cache of question embeddings
//   - Schema helpers to create the questions table
//   - Embedding encoding (BLOB), normalisation and similarity functions
package vector
