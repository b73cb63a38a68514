// Package signalwatch installs a single process-wide signal observer
// tracked by Node.Wait.
//
// SIGTERM sets a persistent termination flag: once delivered, every
// subsequent Wait call returns TerminationRequest immediately, matching
// a graceful-shutdown request that should not be un-done by further
// ticks. SIGINT is only a momentary interruption: it wakes a blocked
// Wait once (returning InterruptSignal) but does not latch — a second
// Wait call goes back to sleeping normally.
package signalwatch

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

var (
	initOnce sync.Once

	terminated int32

	interruptMu sync.Mutex
	interruptCh chan struct{}
)

// Install starts the process-wide signal observer if it has not already
// been started. Safe to call repeatedly and from multiple goroutines;
// only the first call has an effect.
func Install() {
	initOnce.Do(func() {
		interruptCh = make(chan struct{}, 1)

		sigs := make(chan os.Signal, 4)
		signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT)

		go func() {
			for sig := range sigs {
				switch sig {
				case syscall.SIGTERM:
					atomic.StoreInt32(&terminated, 1)
					pulseInterrupt()
				case syscall.SIGINT:
					pulseInterrupt()
				}
			}
		}()
	})
}

func pulseInterrupt() {
	interruptMu.Lock()
	defer interruptMu.Unlock()
	select {
	case interruptCh <- struct{}{}:
	default:
	}
}

// TerminationRequested reports whether a SIGTERM has ever been
// delivered to this process since Install.
func TerminationRequested() bool {
	return atomic.LoadInt32(&terminated) == 1
}

// InterruptChannel returns the channel pulsed once per delivered SIGINT
// or SIGTERM. It never closes.
func InterruptChannel() <-chan struct{} {
	return interruptCh
}

// ResetForTest is a test-only hook clearing the termination latch and
// draining any pending interrupt pulse. It does not uninstall the
// signal.Notify registration.
func ResetForTest() {
	atomic.StoreInt32(&terminated, 0)
	select {
	case <-interruptCh:
	default:
	}
}
