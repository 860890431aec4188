package flat

import (
	"math"

	"github.com/viant/qnn/index"
)

// ranksBefore reports whether a precedes b in result order: higher score
// first, then smaller ID. NaN scores sort after every number.
func ranksBefore(a, b index.Neighbor) bool {
	aNaN, bNaN := math.IsNaN(a.Score), math.IsNaN(b.Score)
	switch {
	case aNaN && bNaN:
		return a.ID < b.ID
	case aNaN:
		return false
	case bNaN:
		return true
	case a.Score != b.Score:
		return a.Score > b.Score
	}
	return a.ID < b.ID
}

// candidates implements heap.Interface with the lowest-ranked neighbour at
// the root so it can be evicted when a better one arrives.
type candidates []index.Neighbor

func (h candidates) Len() int           { return len(h) }
func (h candidates) Less(i, j int) bool { return ranksBefore(h[j], h[i]) }
func (h candidates) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidates) Push(x interface{}) {
	*h = append(*h, x.(index.Neighbor))
}

func (h *candidates) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
