// Package dataset loads questions from SQuAD-style question-answering JSON.
package dataset
