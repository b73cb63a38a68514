package node

import (
	"github.com/cuemby/nodefabric/internal/fatal"
	"github.com/cuemby/nodefabric/pkg/monitoring"
	"github.com/cuemby/nodefabric/pkg/nodeconfig"
	"github.com/cuemby/nodefabric/pkg/staticstorage"
)

// View is satisfied by AliveNodeView and DeadNodeView: both carry an Id
// and possibly-absent Details.
type View interface {
	ID() Id
	Details() *Details
}

type baseView struct {
	id      Id
	details *Details
}

func (v baseView) ID() Id           { return v.id }
func (v baseView) Details() *Details { return v.details }

// AliveNodeView is the view of a Node whose token is currently held.
type AliveNodeView struct{ baseView }

// DeadNodeView is the view of a Node whose token has been abandoned.
// Its only operation is stale-resource reclamation.
type DeadNodeView struct {
	baseView
	config nodeconfig.Config
}

// StateKind tags which variant a State holds.
type StateKind int

const (
	StateAlive StateKind = iota
	StateDead
	StateInaccessible
	StateUndefined
)

// State is the tagged variant over one NodeId produced by enumeration
// one of Alive(view), Dead(view), Inaccessible(id), or Undefined(id).
// A (nil, nil) from NewState means the ID has vanished since being
// listed — a benign race, not a value to report.
type State struct {
	Kind  StateKind
	Alive *AliveNodeView
	Dead  *DeadNodeView
	ID    Id
}

// getNodeState implements the classification rule: a process is always alive to
// itself, without consulting the monitoring backend.
func getNodeState(cfg nodeconfig.Config, id Id, selfPid uint32) (monitoring.State, error) {
	if id.Pid() == selfPid {
		return monitoring.StateAlive, nil
	}

	mon, err := monitoring.NewBuilder(cfg.MonitoringDir(), id.String()).Monitor()
	if err != nil {
		if me, ok := err.(*monitoring.MonitorError); ok {
			switch me.Kind {
			case monitoring.MonitorInsufficientPermissions:
				return monitoring.StateDoesNotExist, &ListFailure{Kind: ListInsufficientPermissions, Err: me}
			case monitoring.MonitorInterrupt:
				return monitoring.StateDoesNotExist, &ListFailure{Kind: ListInterrupt, Err: me}
			default:
				return monitoring.StateDoesNotExist, &ListFailure{Kind: ListInternalError, Err: me}
			}
		}
		return monitoring.StateDoesNotExist, &ListFailure{Kind: ListInternalError, Err: err}
	}

	s, err := mon.State()
	if err != nil {
		var stateErr *monitoring.StateError
		if se, ok := err.(*monitoring.StateError); ok {
			stateErr = se
			switch stateErr.Kind {
			case monitoring.StateInterrupt:
				return monitoring.StateDoesNotExist, &ListFailure{Kind: ListInterrupt, Err: stateErr}
			default:
				return monitoring.StateDoesNotExist, &ListFailure{Kind: ListInternalError, Err: stateErr}
			}
		}
		return monitoring.StateDoesNotExist, &ListFailure{Kind: ListInternalError, Err: err}
	}
	return s, nil
}

// NewState composes best-effort details with backend liveness state
// into the classified State. A nil return (with a nil
// error) signals the benign "vanished between listing and classifying"
// race.
func NewState(cfg nodeconfig.Config, id Id, selfPid uint32) (*State, error) {
	backendState, err := getNodeState(cfg, id, selfPid)
	if err != nil {
		var lf *ListFailure
		if asListFailure(err, &lf) {
			switch lf.Kind {
			case ListInsufficientPermissions:
				return &State{Kind: StateInaccessible, ID: id}, nil
			case ListInternalError:
				return &State{Kind: StateUndefined, ID: id}, nil
			default:
				return nil, err
			}
		}
		return nil, err
	}

	if backendState == monitoring.StateDoesNotExist {
		return nil, nil
	}

	details, detailsErr := getNodeDetails(cfg, id)
	if detailsErr != nil {
		nodeLog().Debug().Err(detailsErr).Str("node_id", id.String()).Msg("peer details unreadable, proceeding with partial view")
		details = nil
	}

	switch backendState {
	case monitoring.StateAlive:
		return &State{Kind: StateAlive, Alive: &AliveNodeView{baseView{id, details}}, ID: id}, nil
	default: // StateDead
		return &State{Kind: StateDead, Dead: &DeadNodeView{baseView{id, details}, cfg}, ID: id}, nil
	}
}

func asListFailure(err error, target **ListFailure) bool {
	lf, ok := err.(*ListFailure)
	if !ok {
		return false
	}
	*target = lf
	return true
}

// RemoveStaleResources implements the cleanup protocol: it
// acquires the host-exclusive cleaner lock for this dead NodeId and, if
// it wins the race, removes every artifact belonging to it. The bool
// result indicates whether *this* call performed the reclamation —
// false means another cleaner already won, or the corpse was already
// reaped, neither of which is an error.
func (v *DeadNodeView) RemoveStaleResources() (bool, error) {
	monBuilder := monitoring.NewBuilder(v.config.MonitoringDir(), v.id.String())

	cleaner, err := monBuilder.Cleaner()
	if err != nil {
		var ce *monitoring.CleanerError
		if c, ok := err.(*monitoring.CleanerError); ok {
			ce = c
			switch ce.Kind {
			case monitoring.CleanerAlreadyOwned, monitoring.CleanerDoesNotExist:
				return false, nil
			case monitoring.CleanerInterrupt:
				return false, &CleanupFailure{Kind: CleanupInterrupt, Err: ce}
			case monitoring.CleanerInstanceStillAlive:
				fatal.Panicf(nodeLog(), "RemoveStaleResources called on node %s, which is still alive", v.id)
				return false, nil // unreachable
			default:
				return false, &CleanupFailure{Kind: CleanupInternalError, Err: ce}
			}
		}
		return false, &CleanupFailure{Kind: CleanupInternalError, Err: err}
	}

	defer func() {
		if err := cleaner.Release(); err != nil {
			nodeLog().Warn().Err(err).Str("node_id", v.id.String()).Msg("failed to release cleaner lock")
		}
	}()

	if v.details == nil {
		// No readable details means there is no per-Node directory we
		// know how to address; nothing further to remove.
		return true, nil
	}

	if err := removeNode(v.config, v.id, *v.details); err != nil {
		return false, err
	}
	return true, nil
}

// removeNode performs the three-phase removal
// "remove_node": list sibling artifacts, remove each, then remove the
// now-empty directory. Ordering matters — removing files before the
// directory avoids "not empty" failures.
func removeNode(cfg nodeconfig.Config, id Id, details Details) error {
	dir := cfg.NodeDetailsDir(id.String())

	names, err := listNodeDetailStorages(dir)
	if err != nil {
		return err
	}

	for _, name := range names {
		if err := removeDetailStorage(dir, name); err != nil {
			return err
		}
	}

	if err := staticstorage.RemovePathHint(dir); err != nil {
		if re, ok := err.(*staticstorage.RemoveError); ok && re.Kind == staticstorage.RemoveInsufficientPermissions {
			return &CleanupFailure{Kind: CleanupInsufficientPermissions, Err: re}
		}
		return &CleanupFailure{Kind: CleanupInternalError, Err: err}
	}
	return nil
}
