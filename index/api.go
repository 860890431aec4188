package index

// Neighbor is a single kNN hit: the identifier assigned at insertion time and
// its similarity score to the query. Higher score means more similar.
type Neighbor struct {
	ID    int
	Score float64
}

// Index defines a fixed-dimension similarity index with a two-step lifecycle:
// bulk insertion followed by any number of batched queries.
type Index interface {
	// Insert appends vectors and returns the identifiers assigned to them,
	// consecutive integers continuing from Len(). Every vector must have
	// Dimension() components; on error nothing is inserted.
	Insert(vectors [][]float32) ([]int, error)

	// Query returns, for each query vector in input order, up to k neighbours
	// ordered by descending score with ties resolved by the smaller ID.
	Query(queries [][]float32, k int) ([][]Neighbor, error)

	// Len returns the number of stored vectors.
	Len() int

	// Dimension returns the fixed vector dimension.
	Dimension() int

	// State reports whether the index has been populated.
	State() State
}
