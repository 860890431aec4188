package index

// State is the lifecycle state of an index.
type State int

const (
	// Empty is the initial state; Query fails with ErrEmptyIndex.
	Empty State = iota
	// Populated holds at least one vector and accepts queries.
	Populated
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Populated:
		return "populated"
	default:
		return "unknown"
	}
}
