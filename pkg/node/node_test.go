package node

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/nodefabric/pkg/nodeconfig"
)

func testConfig(t *testing.T) nodeconfig.Config {
	return nodeconfig.Config{Root: t.TempDir(), DefaultCycleTime: 10 * time.Millisecond}
}

func TestCreateListClose(t *testing.T) {
	cfg := testConfig(t)

	n, err := NewBuilder().WithName("a").WithConfig(cfg).Create()
	require.NoError(t, err)

	var found []State
	require.NoError(t, List(cfg, func(s State) Progression {
		found = append(found, s)
		return Continue
	}))

	require.Len(t, found, 1)
	require.Equal(t, StateAlive, found[0].Kind)
	require.True(t, n.ID().Equal(found[0].ID))
	require.NotNil(t, found[0].Alive.Details())
	require.Equal(t, Name("a"), found[0].Alive.Details().Name)

	n.Close()

	found = nil
	require.NoError(t, List(cfg, func(s State) Progression {
		found = append(found, s)
		return Continue
	}))
	require.Len(t, found, 0, "dropping the only live node must remove it from enumeration")
}

func TestEmptyNameAccepted(t *testing.T) {
	cfg := testConfig(t)
	n, err := NewBuilder().WithConfig(cfg).Create()
	require.NoError(t, err)
	defer n.Close()

	require.Equal(t, Name(""), n.Name())
}

func TestNewStateReportsInaccessibleWhenMonitoringDirUnreadable(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores directory permission bits")
	}

	cfg := testConfig(t)
	n, err := NewBuilder().WithName("locked-out").WithConfig(cfg).Create()
	require.NoError(t, err)
	defer n.Close()

	require.NoError(t, os.Chmod(cfg.MonitoringDir(), 0o000))
	defer os.Chmod(cfg.MonitoringDir(), 0o755)

	state, err := NewState(cfg, n.ID(), 0)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Equal(t, StateInaccessible, state.Kind)
}

func TestCrashAndReap(t *testing.T) {
	cfg := testConfig(t)

	n, err := NewBuilder().WithName("b").WithConfig(cfg).Create()
	require.NoError(t, err)

	token := n.shared.stageDeath()
	require.NotNil(t, token)
	require.NoError(t, token.Close())

	// Classify as a peer process would (selfPid 0): List applies the
	// own-process shortcut and reports every node of this process Alive.
	state, err := NewState(cfg, n.ID(), 0)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Equal(t, StateDead, state.Kind)

	ok, err := state.Dead.RemoveStaleResources()
	require.NoError(t, err)
	require.True(t, ok)

	var found []State
	require.NoError(t, List(cfg, func(s State) Progression {
		found = append(found, s)
		return Continue
	}))
	require.Len(t, found, 0)

	// Idempotent: a second reclaim attempt on the same conceptual dead
	// id finds nothing left to clean.
	ok, err = found2DeadView(t, cfg, n.ID()).RemoveStaleResources()
	require.NoError(t, err)
	require.False(t, ok)
}

func found2DeadView(t *testing.T, cfg nodeconfig.Config, id Id) *DeadNodeView {
	t.Helper()
	return &DeadNodeView{baseView{id, nil}, cfg}
}

func TestCleanupRaceExactlyOneWinner(t *testing.T) {
	cfg := testConfig(t)

	n, err := NewBuilder().WithName("c").WithConfig(cfg).Create()
	require.NoError(t, err)

	token := n.shared.stageDeath()
	require.NoError(t, token.Close())

	// Classify as a peer process would (selfPid 0); see TestCrashAndReap.
	state, err := NewState(cfg, n.ID(), 0)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Equal(t, StateDead, state.Kind)

	details := state.Dead.Details()
	require.NotNil(t, details)

	raceView := func() *DeadNodeView {
		return &DeadNodeView{baseView{n.ID(), details}, cfg}
	}

	const racers = 5
	results := make([]bool, racers)
	errs := make([]error, racers)

	var wg sync.WaitGroup
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i], errs[i] = raceView().RemoveStaleResources()
		}()
	}
	wg.Wait()

	wins := 0
	for i := 0; i < racers; i++ {
		require.NoError(t, errs[i])
		if results[i] {
			wins++
		}
	}
	require.Equal(t, 1, wins, "exactly one concurrent cleaner must win the race")
}
