package staticstorage

import "fmt"

// CreateErrorKind classifies why Builder.Create failed.
type CreateErrorKind int

const (
	// CreateAlreadyExists means an artifact with this name already
	// exists under the directory — a programmer error when the caller
	// believed the name (e.g. a freshly minted NodeId) to be unique.
	CreateAlreadyExists CreateErrorKind = iota
	CreateInsufficientPermissions
	CreateInternalError
)

// CreateError is returned by Builder.Create.
type CreateError struct {
	Kind CreateErrorKind
	Err  error
}

func (e *CreateError) Error() string {
	labels := []string{"already-exists", "insufficient-permissions", "internal-error"}
	label := "unknown"
	if int(e.Kind) >= 0 && int(e.Kind) < len(labels) {
		label = labels[e.Kind]
	}
	return fmt.Sprintf("staticstorage: create: %s: %v", label, e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }

// OpenErrorKind classifies why Builder.Open failed.
type OpenErrorKind int

const (
	// A missing artifact has no kind here: Open returns it as (nil, nil),
	// which callers treat as Option<Artifact>::None.
	OpenRead OpenErrorKind = iota
	// OpenCorrupted covers a locked (half-created) artifact as well as
	// content that fails to parse once read.
	OpenCorrupted
	OpenInternalError
)

// OpenError is returned by Builder.Open for any failure other than
// DoesNotExist, which is represented as (nil, nil).
type OpenError struct {
	Kind OpenErrorKind
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("staticstorage: open: %s: %v", kindLabel(int(e.Kind)), e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

func kindLabel(k int) string {
	labels := []string{"read-error", "corrupted", "internal-error"}
	if k < 0 || k >= len(labels) {
		return "unknown"
	}
	return labels[k]
}

// ListErrorKind classifies why ListCfg failed.
type ListErrorKind int

const (
	ListInsufficientPermissions ListErrorKind = iota
	ListInternalError
)

// ListError is returned by ListCfg.
type ListError struct {
	Kind ListErrorKind
	Err  error
}

func (e *ListError) Error() string {
	labels := []string{"insufficient-permissions", "internal-error"}
	label := "unknown"
	if int(e.Kind) >= 0 && int(e.Kind) < len(labels) {
		label = labels[e.Kind]
	}
	return fmt.Sprintf("staticstorage: list: %s: %v", label, e.Err)
}

func (e *ListError) Unwrap() error { return e.Err }

// RemoveErrorKind classifies why RemoveCfg or RemovePathHint failed.
type RemoveErrorKind int

const (
	RemoveInsufficientPermissions RemoveErrorKind = iota
	RemoveInternalError
)

// RemoveError is returned by RemoveCfg and RemovePathHint.
type RemoveError struct {
	Kind RemoveErrorKind
	Err  error
}

func (e *RemoveError) Error() string {
	labels := []string{"insufficient-permissions", "internal-error"}
	label := "unknown"
	if int(e.Kind) >= 0 && int(e.Kind) < len(labels) {
		label = labels[e.Kind]
	}
	return fmt.Sprintf("staticstorage: remove: %s: %v", label, e.Err)
}

func (e *RemoveError) Unwrap() error { return e.Err }
