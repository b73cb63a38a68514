package node

import (
	"time"

	"github.com/cuemby/nodefabric/pkg/signalwatch"
)

// Event is the result of a Wait call.
type Event int

const (
	// Tick means cycle_time elapsed with no pending signal.
	Tick Event = iota
	// TerminationRequest means a termination signal (SIGTERM) has been
	// observed, either before sleeping or upon waking.
	TerminationRequest
	// InterruptSignal means the sleep was woken early by a signal:
	// SIGINT, or a SIGTERM that arrives mid-sleep (its termination latch
	// is reported by the next Wait call).
	InterruptSignal
)

// Wait implements the event loop primitive: it polls the
// process-wide termination flag, sleeps for cycleTime, and reports
// which of Tick / TerminationRequest / InterruptSignal occurred.
// cycleTime is an upper bound, not a floor — a delivered signal may
// shorten it. time.Sleep is not itself interruptible the way POSIX
// nanosleep is, so this is built on a timer raced against the
// process-wide signal channel from pkg/signalwatch instead.
func Wait(cycleTime time.Duration) Event {
	signalwatch.Install()

	if signalwatch.TerminationRequested() {
		return TerminationRequest
	}

	timer := time.NewTimer(cycleTime)
	defer timer.Stop()

	select {
	case <-timer.C:
		if signalwatch.TerminationRequested() {
			return TerminationRequest
		}
		return Tick
	case <-signalwatch.InterruptChannel():
		// Unconditional: a signal that merely interrupted the sleep is
		// reported as InterruptSignal even if it happens to be a SIGTERM,
		// since the termination latch it also set is picked up by the
		// upfront check on the next Wait call rather than here.
		return InterruptSignal
	}
}
