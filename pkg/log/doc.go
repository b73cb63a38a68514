/*
Package log provides structured logging via zerolog, shared by every
package in this module.

A single global zerolog.Logger is configured once via Init and then
specialized per call site with WithComponent/WithNodeID, so every log
line carries enough context to trace a failure back to the Node
instance and subsystem that produced it without grepping for a PID.

# Configuration

Config.Level selects the minimum severity (debug/info/warn/error).
Config.JSONOutput switches between JSON (the default for long-running
daemons, meant for a log shipper) and zerolog's ConsoleWriter (human
legible, used by cmd/nodectl unless --log-json is given).

# Context loggers

	nodeLogger := log.WithComponent("node").With().Str("node_id", id.String()).Logger()
	nodeLogger.Info().Msg("created")

pkg/node holds its own component logger (component "node") rather than
calling the package-level helpers directly, so that every message it
emits is already tagged. pkg/monitoring and pkg/staticstorage do not log.

# Fatal vs Panic

log.Fatal calls zerolog's Fatal level, which os.Exit(1)s — appropriate
for main()'s own startup failures. Invariant violations inside the
library (a caller misusing the API in a way that should be a compile
error in a language with the original's ownership types) instead use
internal/fatal, which logs at Error and panics, since a library must
never call os.Exit on a caller's behalf and panic can be recovered in
tests.
*/
package log
