// Package e2e drives the node subsystem across real process boundaries:
// a helper re-exec of the test binary plays the role of a peer Node, and
// the parent test kills or inspects it the way a real orchestrator would.
package e2e

import (
	"fmt"
	"os"
	"testing"

	"github.com/cuemby/nodefabric/pkg/node"
	"github.com/cuemby/nodefabric/pkg/nodeconfig"
)

// helperModeEnv selects which helper behavior main_test.go's TestMain
// runs instead of the normal test suite, when the test binary is
// re-executed as a child process.
const helperModeEnv = "NODEFABRIC_HELPER_PROCESS"

// helperRootEnv passes the fabric root directory to the helper, since it
// can't share in-memory state with its parent.
const helperRootEnv = "NODEFABRIC_HELPER_ROOT"

func TestMain(m *testing.M) {
	switch os.Getenv(helperModeEnv) {
	case "":
		os.Exit(m.Run())
	case "hold":
		os.Exit(runHoldHelper())
	case "cleanup":
		os.Exit(runCleanupHelper())
	default:
		fmt.Fprintf(os.Stderr, "unknown helper mode %q\n", os.Getenv(helperModeEnv))
		os.Exit(2)
	}
}

// runHoldHelper creates a node under the root named by helperRootEnv,
// prints its id to stdout, then blocks forever holding the token — it is
// killed by the parent test (SIGTERM or SIGKILL) rather than exiting on
// its own.
func runHoldHelper() int {
	cfg := nodeconfig.Default()
	cfg.Root = os.Getenv(helperRootEnv)

	n, err := node.NewBuilder().WithName("e2e-helper").WithConfig(cfg).Create()
	if err != nil {
		fmt.Fprintf(os.Stderr, "helper: create failed: %v\n", err)
		return 1
	}
	defer n.Close()

	fmt.Println(n.ID().String())
	select {}
}

// runCleanupHelper classifies the single node id passed as argv[1] and,
// if dead, attempts RemoveStaleResources, printing "won" or "lost" — used
// to drive the concurrent-cleaners race scenario from real processes.
func runCleanupHelper() int {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "helper: missing node id argument")
		return 1
	}

	cfg := nodeconfig.Default()
	cfg.Root = os.Getenv(helperRootEnv)

	id, err := node.ParseId(os.Args[len(os.Args)-1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "helper: bad node id: %v\n", err)
		return 1
	}

	state, err := node.NewState(cfg, id, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "helper: classify failed: %v\n", err)
		return 1
	}
	if state == nil || state.Kind != node.StateDead {
		fmt.Println("not-dead")
		return 0
	}

	won, err := state.Dead.RemoveStaleResources()
	if err != nil {
		fmt.Fprintf(os.Stderr, "helper: cleanup failed: %v\n", err)
		return 1
	}
	if won {
		fmt.Println("won")
	} else {
		fmt.Println("lost")
	}
	return 0
}
