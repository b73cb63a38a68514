package node

import "fmt"

// CreationFailureKind is the closed set of ways NodeBuilder.Create can
// fail.
type CreationFailureKind int

const (
	CreationInsufficientPermissions CreationFailureKind = iota
	CreationInternalError
)

func (k CreationFailureKind) String() string {
	switch k {
	case CreationInsufficientPermissions:
		return "insufficient-permissions"
	default:
		return "internal-error"
	}
}

// CreationFailure is returned by NodeBuilder.Create.
type CreationFailure struct {
	Kind CreationFailureKind
	Err  error
}

func (e *CreationFailure) Error() string {
	return fmt.Sprintf("node: create: %s: %v", e.Kind, e.Err)
}
func (e *CreationFailure) Unwrap() error { return e.Err }

// ListFailureKind is the closed set of ways enumeration or liveness
// queries can fail.
type ListFailureKind int

const (
	ListInsufficientPermissions ListFailureKind = iota
	ListInterrupt
	ListInternalError
)

func (k ListFailureKind) String() string {
	switch k {
	case ListInsufficientPermissions:
		return "insufficient-permissions"
	case ListInterrupt:
		return "interrupt"
	default:
		return "internal-error"
	}
}

// ListFailure is returned by List and by the internal state-query path.
type ListFailure struct {
	Kind ListFailureKind
	Err  error
}

func (e *ListFailure) Error() string {
	return fmt.Sprintf("node: list: %s: %v", e.Kind, e.Err)
}
func (e *ListFailure) Unwrap() error { return e.Err }

// CleanupFailureKind is the closed set of ways
// DeadNodeView.RemoveStaleResources can fail.
type CleanupFailureKind int

const (
	CleanupInsufficientPermissions CleanupFailureKind = iota
	CleanupInterrupt
	CleanupInternalError
)

func (k CleanupFailureKind) String() string {
	switch k {
	case CleanupInsufficientPermissions:
		return "insufficient-permissions"
	case CleanupInterrupt:
		return "interrupt"
	default:
		return "internal-error"
	}
}

// CleanupFailure is returned by DeadNodeView.RemoveStaleResources.
type CleanupFailure struct {
	Kind CleanupFailureKind
	Err  error
}

func (e *CleanupFailure) Error() string {
	return fmt.Sprintf("node: cleanup: %s: %v", e.Kind, e.Err)
}
func (e *CleanupFailure) Unwrap() error { return e.Err }

// ReadStorageFailureKind is the closed set of ways getNodeDetails can
// fail while reading a peer's details artifact.
type ReadStorageFailureKind int

const (
	ReadStorageRead ReadStorageFailureKind = iota
	ReadStorageCorrupted
	ReadStorageInternalError
)

func (k ReadStorageFailureKind) String() string {
	switch k {
	case ReadStorageRead:
		return "read-error"
	case ReadStorageCorrupted:
		return "corrupted"
	default:
		return "internal-error"
	}
}

// ReadStorageFailure is returned by the internal getNodeDetails helper;
// callers that enumerate peers swallow it to a bare absence rather than
// propagating it, logging it at Debug level for diagnosis.
type ReadStorageFailure struct {
	Kind ReadStorageFailureKind
	Err  error
}

func (e *ReadStorageFailure) Error() string {
	return fmt.Sprintf("node: read-storage: %s: %v", e.Kind, e.Err)
}
func (e *ReadStorageFailure) Unwrap() error { return e.Err }
