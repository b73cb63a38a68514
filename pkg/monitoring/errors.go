package monitoring

import "fmt"

// TokenErrorKind classifies why Builder.Token failed.
type TokenErrorKind int

const (
	TokenInsufficientPermissions TokenErrorKind = iota
	// TokenAlreadyExists means a live token is already held for this
	// name — a programmer error, since NodeIds are supposed to be
	// unique.
	TokenAlreadyExists
	TokenInternalError
)

// TokenError is returned by Builder.Token.
type TokenError struct {
	Kind TokenErrorKind
	Err  error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("monitoring: token: %v", e.Err)
}
func (e *TokenError) Unwrap() error { return e.Err }

// MonitorErrorKind classifies why Builder.Monitor failed.
type MonitorErrorKind int

const (
	MonitorInsufficientPermissions MonitorErrorKind = iota
	MonitorInterrupt
	MonitorInternalError
)

// MonitorError is returned by Builder.Monitor.
type MonitorError struct {
	Kind MonitorErrorKind
	Err  error
}

func (e *MonitorError) Error() string {
	return fmt.Sprintf("monitoring: monitor: %v", e.Err)
}
func (e *MonitorError) Unwrap() error { return e.Err }

// StateErrorKind classifies why Monitor.State failed.
type StateErrorKind int

const (
	StateInterrupt StateErrorKind = iota
	StateInternalError
)

// StateError is returned by Monitor.State.
type StateError struct {
	Kind StateErrorKind
	Err  error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("monitoring: state: %v", e.Err)
}
func (e *StateError) Unwrap() error { return e.Err }

// CleanerErrorKind classifies why Builder.Cleaner failed.
type CleanerErrorKind int

const (
	// CleanerAlreadyOwned means another process holds the cleaner lock.
	CleanerAlreadyOwned CleanerErrorKind = iota
	// CleanerDoesNotExist means the token file has already been reaped.
	CleanerDoesNotExist
	CleanerInterrupt
	// CleanerInstanceStillAlive means the caller asked to clean up a
	// NodeId whose token is still held — a programmer error, since
	// cleanup is only ever called on a DeadNodeView.
	CleanerInstanceStillAlive
	CleanerInternalError
)

// CleanerError is returned by Builder.Cleaner.
type CleanerError struct {
	Kind CleanerErrorKind
	Err  error
}

func (e *CleanerError) Error() string {
	return fmt.Sprintf("monitoring: cleaner: %v", e.Err)
}
func (e *CleanerError) Unwrap() error { return e.Err }
