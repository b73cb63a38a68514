// Package fatal converts programmer-error conditions into a logged panic.
//
// The node subsystem treats a handful of conditions as invariant
// violations rather than recoverable errors: a minted NodeId colliding
// with an existing one, a monitor name that fails to derive from a valid
// NodeId, a RegisteredServices entry that should not exist but does. The
// reference implementation aborts the process outright on these. Doing
// the same in Go (os.Exit or log.Fatal) would make the behavior
// untestable, so this package logs and panics instead; callers that need
// to observe the behavior in a test can recover().
package fatal

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Panic logs msg at error level through logger and then panics with it.
func Panic(logger zerolog.Logger, msg string) {
	logger.Error().Msg(msg)
	panic(msg)
}

// Panicf logs a formatted message through logger and then panics with it.
func Panicf(logger zerolog.Logger, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error().Msg(msg)
	panic(msg)
}
