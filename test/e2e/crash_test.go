package e2e

import (
	"bufio"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cuemby/nodefabric/pkg/node"
	"github.com/cuemby/nodefabric/pkg/nodeconfig"
	"github.com/cuemby/nodefabric/test/framework"
	"github.com/stretchr/testify/require"
)

func selfBinary(t *testing.T) string {
	t.Helper()
	self, err := os.Executable()
	require.NoError(t, err)
	return self
}

func spawnHolder(t *testing.T, root string) (*framework.Process, string) {
	t.Helper()

	p := framework.NewProcess(selfBinary(t))
	p.Env = []string{helperModeEnv + "=hold", helperRootEnv + "=" + root}
	require.NoError(t, p.Start())

	require.NoError(t, framework.DefaultWaiter().WaitFor(p.Ctx, func() bool {
		return strings.TrimSpace(p.Logs()) != ""
	}, "holder to print its node id"))

	id := firstLine(p.Logs())
	require.NotEmpty(t, id)
	return p, id
}

func firstLine(s string) string {
	scanner := bufio.NewScanner(strings.NewReader(s))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}

// TestCrashedHolderIsObservedDead reproduces a real crash scenario: a real
// child process holds a token, gets SIGKILLed (no chance to run deferred
// Close/teardown code), and a second process must still observe it as
// dead via the kernel's automatic flock release rather than any
// cooperative cleanup the victim itself could have done.
func TestCrashedHolderIsObservedDead(t *testing.T) {
	root := t.TempDir()
	holder, idStr := spawnHolder(t, root)

	id, err := node.ParseId(idStr)
	require.NoError(t, err)

	cfg := nodeconfig.Default()
	cfg.Root = root

	state, err := node.NewState(cfg, id, 0)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Equal(t, node.StateAlive, state.Kind)

	require.NoError(t, holder.Kill())

	require.NoError(t, framework.DefaultWaiter().WaitForConditionWithRetry(holder.Ctx, func() (bool, error) {
		s, err := node.NewState(cfg, id, 0)
		if err != nil {
			return false, err
		}
		return s != nil && s.Kind == node.StateDead, nil
	}, "holder observed dead after SIGKILL"))
}

// TestConcurrentCleanersExactlyOneWins reproduces the concurrent-cleanup scenario
// across real OS processes: once the holder is dead, two independent
// cleaner processes race for RemoveStaleResources and exactly one must
// report having performed the reclamation.
func TestConcurrentCleanersExactlyOneWins(t *testing.T) {
	root := t.TempDir()
	holder, idStr := spawnHolder(t, root)
	require.NoError(t, holder.Kill())

	id, err := node.ParseId(idStr)
	require.NoError(t, err)
	cfg := nodeconfig.Default()
	cfg.Root = root

	require.NoError(t, framework.DefaultWaiter().WaitForConditionWithRetry(holder.Ctx, func() (bool, error) {
		s, err := node.NewState(cfg, id, 0)
		if err != nil {
			return false, err
		}
		return s != nil && s.Kind == node.StateDead, nil
	}, "holder observed dead before racing cleaners"))

	results := make(chan string, 2)
	for i := 0; i < 2; i++ {
		go func() {
			self := selfBinary(t)
			cmd := exec.Command(self, idStr)
			cmd.Env = append(os.Environ(), helperModeEnv+"=cleanup", helperRootEnv+"="+root)
			out, _ := cmd.Output()
			results <- strings.TrimSpace(firstLine(string(out)))
		}()
	}

	wins, losses := 0, 0
	for i := 0; i < 2; i++ {
		switch <-results {
		case "won":
			wins++
		case "lost":
			losses++
		}
	}
	require.Equal(t, 1, wins)
	require.Equal(t, 1, losses)

	_, err = os.Stat(filepath.Join(cfg.MonitoringDir(), idStr))
	require.True(t, os.IsNotExist(err))
}
