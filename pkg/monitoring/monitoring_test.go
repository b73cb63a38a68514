package monitoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenLifecycle(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder(dir, "node-1")

	token, err := b.Token()
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "node-1"))

	mon, err := b.Monitor()
	require.NoError(t, err)
	state, err := mon.State()
	require.NoError(t, err)
	require.Equal(t, StateAlive, state)

	require.NoError(t, token.Close())

	state, err = mon.State()
	require.NoError(t, err)
	require.Equal(t, StateDead, state)
}

func TestTokenAlreadyExists(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder(dir, "node-1")

	token, err := b.Token()
	require.NoError(t, err)
	defer token.Close()

	_, err = b.Token()
	require.Error(t, err)
	var te *TokenError
	require.ErrorAs(t, err, &te)
	require.Equal(t, TokenAlreadyExists, te.Kind)
}

func TestMonitorDoesNotExist(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder(dir, "never-created")

	mon, err := b.Monitor()
	require.NoError(t, err)

	state, err := mon.State()
	require.NoError(t, err)
	require.Equal(t, StateDoesNotExist, state)
}

func TestCleanerLifecycle(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder(dir, "node-2")

	token, err := b.Token()
	require.NoError(t, err)

	_, err = b.Cleaner()
	require.Error(t, err)
	var ce *CleanerError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, CleanerInstanceStillAlive, ce.Kind)

	require.NoError(t, token.Close())

	cleaner, err := b.Cleaner()
	require.NoError(t, err)

	_, err = b.Cleaner()
	require.Error(t, err)
	require.ErrorAs(t, err, &ce)
	require.Equal(t, CleanerAlreadyOwned, ce.Kind)

	require.NoError(t, cleaner.Release())

	_, err = b.Cleaner()
	require.Error(t, err)
	require.ErrorAs(t, err, &ce)
	require.Equal(t, CleanerDoesNotExist, ce.Kind)
}

func TestMonitorInsufficientPermissions(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores directory permission bits")
	}

	parent := t.TempDir()
	dir := filepath.Join(parent, "locked")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.Chmod(dir, 0o000))
	defer os.Chmod(dir, 0o755)

	b := NewBuilder(dir, "node-1")
	_, err := b.Monitor()
	require.Error(t, err)
	var me *MonitorError
	require.ErrorAs(t, err, &me)
	require.Equal(t, MonitorInsufficientPermissions, me.Kind)
}

func TestCleanerDoesNotExistWhenNeverCreated(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder(dir, "ghost")

	_, err := b.Cleaner()
	require.Error(t, err)
	var ce *CleanerError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, CleanerDoesNotExist, ce.Kind)
}
