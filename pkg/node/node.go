// Package node implements the Node subsystem of the fabric: identity,
// registration, the liveness-token protocol, enumeration and state
// classification, stale-resource cleanup, the per-process
// RegisteredServices table, and the wait() event loop.
package node

import (
	"os"

	"github.com/cuemby/nodefabric/pkg/nodeconfig"
)

// Node is a process's participation handle in the fabric — the
// public, user-facing handle layered over SharedNode.
type Node struct {
	shared *SharedNode
}

// Name returns this Node's human-chosen label.
func (n *Node) Name() Name { return n.shared.details.Name }

// Config returns the fabric config this Node was built with.
func (n *Node) Config() nodeconfig.Config { return n.shared.config }

// ID returns this Node's unique identity.
func (n *Node) ID() Id { return n.shared.id }

// RegisteredServices returns the per-process refcounted service table
// anchored to this Node's shared root.
func (n *Node) RegisteredServices() *RegisteredServices { return n.shared.services }

// Close releases this Node's reference to its shared root. If this was
// the last reference and the token is still held, teardown removes the
// Node's on-disk resources.
func (n *Node) Close() {
	n.shared.release()
}

// List enumerates every registered Node under cfg and invokes callback
// once per classified State, skipping the benign "vanished between
// listing and classifying" race. The callback returns
// Continue to keep enumerating or Stop to break early.
func List(cfg nodeconfig.Config, callback func(State) Progression) error {
	names, err := listMonitoringNames(cfg)
	if err != nil {
		return err
	}

	selfPid := uint32(os.Getpid())

	for _, name := range names {
		id, err := ParseId(name)
		if err != nil {
			// The reference design panics on a malformed monitoring
			// filename; this implementation skips it with a warning
			// instead, since a foreign or leftover file under the
			// monitoring directory is not something the Node layer can
			// distinguish from a third-party tool's scratch file.
			nodeLog().Warn().Str("filename", name).Msg("skipping malformed monitoring directory entry")
			continue
		}

		state, err := NewState(cfg, id, selfPid)
		if err != nil {
			return err
		}
		if state == nil {
			continue // vanished between listing and classifying
		}

		if callback(*state) == Stop {
			break
		}
	}
	return nil
}

func listMonitoringNames(cfg nodeconfig.Config) ([]string, error) {
	entries, err := os.ReadDir(cfg.MonitoringDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		if os.IsPermission(err) {
			return nil, &ListFailure{Kind: ListInsufficientPermissions, Err: err}
		}
		return nil, &ListFailure{Kind: ListInternalError, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Progression controls whether List keeps enumerating after a callback
// invocation.
type Progression int

const (
	Continue Progression = iota
	Stop
)
