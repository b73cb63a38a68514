package node

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/nodefabric/pkg/signalwatch"
)

func TestWaitTickPromptlyOnZeroCycle(t *testing.T) {
	signalwatch.Install()
	signalwatch.ResetForTest()
	defer signalwatch.ResetForTest()

	start := time.Now()
	event := Wait(0)
	require.Equal(t, Tick, event)
	require.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestWaitInterruptedBySigint(t *testing.T) {
	signalwatch.Install()
	signalwatch.ResetForTest()
	defer signalwatch.ResetForTest()

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = syscall.Kill(os.Getpid(), syscall.SIGINT)
	}()

	event := Wait(5 * time.Second)
	require.Equal(t, InterruptSignal, event)
}

func TestWaitReturnsTerminationRequestAfterSigterm(t *testing.T) {
	signalwatch.Install()
	signalwatch.ResetForTest()
	defer signalwatch.ResetForTest()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))
	time.Sleep(50 * time.Millisecond)

	event := Wait(5 * time.Second)
	require.Equal(t, TerminationRequest, event)
}

// TestWaitInterruptedMidSleepBySigterm covers the asymmetry from the
// other two tests: a SIGTERM delivered *during* an active Wait call
// still wakes that call with InterruptSignal, not TerminationRequest —
// the upfront check on the *next* Wait call is what reports
// TerminationRequest, not a recheck inside the interrupt branch itself.
func TestWaitInterruptedMidSleepBySigterm(t *testing.T) {
	signalwatch.Install()
	signalwatch.ResetForTest()
	defer signalwatch.ResetForTest()

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = syscall.Kill(os.Getpid(), syscall.SIGTERM)
	}()

	event := Wait(5 * time.Second)
	require.Equal(t, InterruptSignal, event)

	event = Wait(5 * time.Second)
	require.Equal(t, TerminationRequest, event)
}
