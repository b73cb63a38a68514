package node

import (
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cuemby/nodefabric/pkg/monitoring"
	"github.com/cuemby/nodefabric/pkg/nodeconfig"
)

// SharedNode is the process-internal ownership root shared among every
// handle that references one Node: the Node handle itself, its service
// builders, and its open services. It is modeled as a reference-counted record rather than a
// cyclic graph: services hold a strong reference up to the root: the
// root holds no back-reference to individual services, only the
// refcount table keyed by UUID.
//
// Go has no Drop; acquire/release pairs model the reference count
// explicitly, and a runtime.SetFinalizer is installed as a best-effort
// backstop for handles a caller forgets to Close, mirroring what the
// reference design gets for free from RAII.
type SharedNode struct {
	id      Id
	details Details
	config  nodeconfig.Config

	services *RegisteredServices

	refs int32

	tokenMu sync.Mutex
	token   *monitoring.Token // nil after staged death or teardown
}

func newSharedNode(id Id, details Details, cfg nodeconfig.Config, token *monitoring.Token) *SharedNode {
	sn := &SharedNode{
		id:       id,
		details:  details,
		config:   cfg,
		services: NewRegisteredServices(),
		refs:     1,
		token:    token,
	}
	runtime.SetFinalizer(sn, finalizeSharedNode)
	return sn
}

func finalizeSharedNode(sn *SharedNode) {
	sn.teardown()
}

// acquire increments the reference count on behalf of a new dependent
// (a service builder or an opened service) and returns sn for chaining.
func (sn *SharedNode) acquire() *SharedNode {
	atomic.AddInt32(&sn.refs, 1)
	return sn
}

// release decrements the reference count; on reaching zero it runs
// teardown.
func (sn *SharedNode) release() {
	if atomic.AddInt32(&sn.refs, -1) == 0 {
		runtime.SetFinalizer(sn, nil)
		sn.teardown()
	}
}

// teardown implements the shutdown sequence: if the token is still held, remove
// this Node's resources, logging a warning on failure rather than
// panicking — teardown must never unwind. The monitoring token file is
// removed before the token is released, so peers stop listing this
// Node instead of seeing it dead. If the token has already
// been extracted (by teardown itself, or by stageDeath in tests), no
// removal is attempted.
func (sn *SharedNode) teardown() {
	sn.tokenMu.Lock()
	token := sn.token
	sn.token = nil
	sn.tokenMu.Unlock()

	if token == nil {
		return
	}

	if err := removeNode(sn.config, sn.id, sn.details); err != nil {
		nodeLog().Warn().Err(err).Str("node_id", sn.id.String()).Msg("failed to remove node resources on teardown")
	}
	if err := os.Remove(sn.config.MonitoringPath(sn.id.String())); err != nil && !os.IsNotExist(err) {
		nodeLog().Warn().Err(err).Str("node_id", sn.id.String()).Msg("failed to remove monitoring token file on teardown")
	}
	if err := token.Close(); err != nil {
		nodeLog().Warn().Err(err).Str("node_id", sn.id.String()).Msg("failed to release monitoring token on teardown")
	}
}

// stageDeath is a test-only hook that extracts the monitoring token without running the
// rest of teardown, simulating a process that crashes after acquiring
// its token but leaves its details artifact behind. Exactly one caller
// may invoke this per SharedNode; it is documented single-shot, exactly
// like the reference design's unsafe extraction point.
func (sn *SharedNode) stageDeath() *monitoring.Token {
	sn.tokenMu.Lock()
	defer sn.tokenMu.Unlock()
	token := sn.token
	sn.token = nil
	return token
}
