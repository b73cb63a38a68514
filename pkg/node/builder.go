package node

import (
	"github.com/cuemby/nodefabric/internal/fatal"
	"github.com/cuemby/nodefabric/pkg/monitoring"
	"github.com/cuemby/nodefabric/pkg/nodeconfig"
)

// Builder assembles a new Node. All inputs are optional.
type Builder struct {
	name   Name
	config *nodeconfig.Config
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithName sets the Node's human-chosen, non-unique label.
func (b *Builder) WithName(name Name) *Builder {
	b.name = name
	return b
}

// WithConfig sets an explicit fabric config, overriding the process
// global.
func (b *Builder) WithConfig(cfg nodeconfig.Config) *Builder {
	b.config = &cfg
	return b
}

// Create assembles a live Node following the five-step ordered
// creation; the order matters for crash safety.
func (b *Builder) Create() (*Node, error) {
	// Step 1: mint NodeId. Infallible in this implementation (see id.go).
	id := NewId()

	// Step 2: derive monitor name. A NodeId always stringifies to a
	// valid filename by construction, so failure here is unreachable;
	// it is guarded anyway because the reference design treats it as a
	// programmer error rather than an impossible case.
	monitorName := id.String()
	if monitorName == "" {
		fatal.Panic(nodeLog(), "failed to derive monitor name from NodeId")
	}

	// Step 3: select config.
	cfg := nodeconfig.Global()
	if b.config != nil {
		cfg = *b.config
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, &CreationFailure{Kind: CreationInternalError, Err: err}
	}

	details := Details{Name: b.name, Config: cfg}

	// Step 4: create the details artifact.
	if err := createNodeDetailsStorage(cfg, id, details); err != nil {
		return nil, err
	}

	// Step 5: acquire the monitoring token. If this fails after step 4
	// succeeded, the details artifact is orphaned garbage: it will be
	// reclaimed once a peer observes the NodeId is not alive (no token
	// ever existed, so the monitoring backend reports DoesNotExist).
	// This design accepts that as transient garbage rather than
	// attempting multi-step rollback.
	tokenBuilder := monitoring.NewBuilder(cfg.MonitoringDir(), monitorName)
	token, err := tokenBuilder.Token()
	if err != nil {
		var te *monitoring.TokenError
		if t, ok := err.(*monitoring.TokenError); ok {
			te = t
			switch te.Kind {
			case monitoring.TokenInsufficientPermissions:
				return nil, &CreationFailure{Kind: CreationInsufficientPermissions, Err: te}
			case monitoring.TokenAlreadyExists:
				fatal.Panicf(nodeLog(), "monitoring token already exists for freshly minted NodeId %s", id)
				return nil, nil // unreachable
			default:
				return nil, &CreationFailure{Kind: CreationInternalError, Err: te}
			}
		}
		return nil, &CreationFailure{Kind: CreationInternalError, Err: err}
	}

	shared := newSharedNode(id, details, cfg, token)
	nodeLog().Info().Str("node_id", id.String()).Str("name", string(b.name)).Msg("node created")

	return &Node{shared: shared}, nil
}
