package node

// Name is a short, human-chosen, non-unique label for a Node. The
// empty Name is permitted and is the default.
type Name string

// Valid always reports true: unlike NodeId, NodeName has no format
// constraint in this design beyond being a Go string — it is never used
// as a filename.
func (n Name) Valid() bool { return true }

// String returns the underlying label.
func (n Name) String() string { return string(n) }
