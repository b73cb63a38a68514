package signalwatch

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSigintPulsesWithoutLatching(t *testing.T) {
	Install()
	ResetForTest()

	require.False(t, TerminationRequested())

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))

	select {
	case <-InterruptChannel():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for SIGINT pulse")
	}

	require.False(t, TerminationRequested(), "SIGINT must not set the termination latch")
}

func TestSigtermLatches(t *testing.T) {
	Install()
	ResetForTest()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))

	select {
	case <-InterruptChannel():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for SIGTERM pulse")
	}

	require.True(t, TerminationRequested(), "SIGTERM must set the termination latch")

	ResetForTest()
}
