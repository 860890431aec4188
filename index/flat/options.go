package flat

// Option configures an Index.
type Option func(*Index)

// WithParallelism fans batched queries out over up to n goroutines. Values
// below 2 keep queries on the calling goroutine.
func WithParallelism(n int) Option {
	return func(i *Index) {
		if n < 1 {
			n = 1
		}
		i.parallelism = n
	}
}

// WithCapacity preallocates storage for n vectors.
func WithCapacity(n int) Option {
	return func(i *Index) {
		if n > 0 {
			i.data = make([]float32, 0, n*i.dim)
		}
	}
}
