// Package local compares a local directory tree against a remote object
// listing, producing the change set needed to reconcile the two.
package local

type ChangeType int

const (
	ChangeTypeAdded ChangeType = iota
	ChangeTypeRemoved
	ChangeTypeModified
)

func (c ChangeType) String() string {
	switch c {
	case ChangeTypeAdded:
		return "added"
	case ChangeTypeRemoved:
		return "removed"
	case ChangeTypeModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Change is a single difference between the local tree and the remote
// listing, keyed by the slash-separated object path.
type Change struct {
	Path string
	Type ChangeType
}
