package filelock

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTryLockExclusivity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")

	l1, err := Create(path)
	require.NoError(t, err)
	defer l1.Close()
	require.NoError(t, l1.TryLock())

	l2, err := Create(path)
	require.NoError(t, err)
	defer l2.Close()

	err = l2.TryLock()
	require.True(t, errors.Is(err, ErrAlreadyLocked))
}

func TestProbeStates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")

	state, err := Probe(path)
	require.NoError(t, err)
	require.Equal(t, StateAbsent, state)

	l, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, l.TryLock())

	state, err = Probe(path)
	require.NoError(t, err)
	require.Equal(t, StateAlive, state)

	require.NoError(t, l.Unlock())

	state, err = Probe(path)
	require.NoError(t, err)
	require.Equal(t, StateDead, state)
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")

	l, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, l.TryLock())
	require.NoError(t, l.Remove())

	state, err := Probe(path)
	require.NoError(t, err)
	require.Equal(t, StateAbsent, state)
}
