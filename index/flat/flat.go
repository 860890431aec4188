package flat

import (
	"container/heap"
	"sync/atomic"

	"github.com/viant/qnn/index"
	"golang.org/x/sync/errgroup"
)

// Index is an exhaustive inner-product index. Vectors are copied into a
// single contiguous buffer; identifier n addresses data[n*dim:(n+1)*dim].
type Index struct {
	dim         int
	data        []float32
	count       atomic.Int64
	parallelism int
	gate        guard
}

// New creates an empty index for vectors of the given dimension.
func New(dim int, opts ...Option) (*Index, error) {
	if dim <= 0 {
		return nil, index.Errorf(index.ErrInvalidDimension, "dim", dim)
	}
	i := &Index{dim: dim, parallelism: 1}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Dimension returns the vector dimension fixed at construction.
func (i *Index) Dimension() int { return i.dim }

// Len returns the number of stored vectors.
func (i *Index) Len() int { return int(i.count.Load()) }

// State reports index.Populated once at least one vector was inserted.
func (i *Index) State() index.State {
	if i.Len() == 0 {
		return index.Empty
	}
	return index.Populated
}

// Insert appends vectors, assigning consecutive identifiers starting at Len().
// All vectors are validated before any is stored.
func (i *Index) Insert(vectors [][]float32) ([]int, error) {
	if !i.gate.tryWrite() {
		return nil, index.Errorf(index.ErrConcurrentMutation, "op", "insert")
	}
	defer i.gate.doneWrite()

	for pos, v := range vectors {
		if len(v) != i.dim {
			return nil, index.Errorf(index.ErrDimensionMismatch, "op", "insert", "position", pos, "dim", i.dim, "got", len(v))
		}
	}
	if len(vectors) == 0 {
		return nil, nil
	}
	start := i.Len()
	ids := make([]int, len(vectors))
	for pos, v := range vectors {
		i.data = append(i.data, v...)
		ids[pos] = start + pos
	}
	i.count.Store(int64(start + len(vectors)))
	return ids, nil
}

// Vector returns a copy of the stored vector for id.
func (i *Index) Vector(id int) ([]float32, bool) {
	if !i.gate.tryRead() {
		return nil, false
	}
	defer i.gate.doneRead()
	if id < 0 || id >= i.Len() {
		return nil, false
	}
	return append([]float32(nil), i.row(id)...), true
}

// Query returns the top min(k, Len()) neighbours of every query vector by
// inner product. Queries are validated up front so an error never comes with
// partial results.
func (i *Index) Query(queries [][]float32, k int) ([][]index.Neighbor, error) {
	if k <= 0 {
		return nil, index.Errorf(index.ErrInvalidK, "k", k)
	}
	if !i.gate.tryRead() {
		return nil, index.Errorf(index.ErrConcurrentMutation, "op", "query")
	}
	defer i.gate.doneRead()

	n := i.Len()
	if n == 0 {
		return nil, index.Errorf(index.ErrEmptyIndex)
	}
	for pos, q := range queries {
		if len(q) != i.dim {
			return nil, index.Errorf(index.ErrDimensionMismatch, "op", "query", "position", pos, "dim", i.dim, "got", len(q))
		}
	}
	if k > n {
		k = n
	}
	out := make([][]index.Neighbor, len(queries))
	workers := i.parallelism
	if workers > len(queries) {
		workers = len(queries)
	}
	if workers < 2 {
		for qi, q := range queries {
			out[qi] = i.search(q, k, n)
		}
		return out, nil
	}

	chunk := (len(queries) + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < len(queries); start += chunk {
		end := min(start+chunk, len(queries))
		g.Go(func() error {
			for qi := start; qi < end; qi++ {
				out[qi] = i.search(queries[qi], k, n)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// search scans the first n stored vectors and keeps the best k in a bounded
// heap. Identifiers are visited in ascending order, so an equal score never
// displaces an earlier identifier.
func (i *Index) search(q []float32, k, n int) []index.Neighbor {
	h := make(candidates, 0, k)
	for id := 0; id < n; id++ {
		c := index.Neighbor{ID: id, Score: dot(q, i.row(id))}
		if h.Len() < k {
			heap.Push(&h, c)
			continue
		}
		if ranksBefore(c, h[0]) {
			h[0] = c
			heap.Fix(&h, 0)
		}
	}
	result := make([]index.Neighbor, h.Len())
	for r := len(result) - 1; r >= 0; r-- {
		result[r] = heap.Pop(&h).(index.Neighbor)
	}
	return result
}

func (i *Index) row(id int) []float32 {
	off := id * i.dim
	return i.data[off : off+i.dim]
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

var _ index.Index = (*Index)(nil)
