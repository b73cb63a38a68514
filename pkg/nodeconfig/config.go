// Package nodeconfig holds the fabric-wide configuration that governs
// where Node registrations, monitoring tokens and details artifacts
// live on disk, plus the codec used to serialize NodeDetails.
package nodeconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the fabric-wide configuration consulted by the builder, the
// enumerator and the cleanup protocol whenever no explicit config is
// supplied.
type Config struct {
	// Root is the directory under which the two sibling trees
	// <Root>/monitoring and <Root>/nodes/<id>/ are rooted.
	Root string `yaml:"root"`

	// DefaultCycleTime is a default wait() cycle length carried with the
	// config. nodectl's wait subcommand does not read it; its cycle comes
	// from the --cycle-time flag (default 1s).
	DefaultCycleTime time.Duration `yaml:"default_cycle_time"`
}

// DefaultRoot is used when no root is configured and no global override
// has been installed.
const DefaultRoot = "/tmp/nodefabric"

// Default returns a Config populated with sane defaults.
func Default() Config {
	return Config{
		Root:             DefaultRoot,
		DefaultCycleTime: 100 * time.Millisecond,
	}
}

// MonitoringDir returns the directory under which monitoring tokens for
// this config are stored.
func (c Config) MonitoringDir() string {
	return filepath.Join(c.Root, "monitoring")
}

// NodesDir returns the directory under which per-node details
// directories are stored.
func (c Config) NodesDir() string {
	return filepath.Join(c.Root, "nodes")
}

// NodeDetailsDir returns the per-Node details directory for id.
func (c Config) NodeDetailsDir(idFilename string) string {
	return filepath.Join(c.NodesDir(), idFilename)
}

// MonitoringPath returns the monitoring artifact path for id.
func (c Config) MonitoringPath(idFilename string) string {
	return filepath.Join(c.MonitoringDir(), idFilename)
}

// EnsureDirs creates the monitoring and nodes directory trees if absent.
func (c Config) EnsureDirs() error {
	if err := os.MkdirAll(c.MonitoringDir(), 0o755); err != nil {
		return fmt.Errorf("nodeconfig: create monitoring dir: %w", err)
	}
	if err := os.MkdirAll(c.NodesDir(), 0o755); err != nil {
		return fmt.Errorf("nodeconfig: create nodes dir: %w", err)
	}
	return nil
}

var (
	globalMu  sync.RWMutex
	globalCfg = Default()
)

// Global returns the process-wide default configuration, used whenever
// a Node is created without an explicit config. Cleanup does not consult
// it: RemoveStaleResources uses the config the dead node was classified
// under, and does not read the config stored in the node's details.
func Global() Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalCfg
}

// SetGlobal installs cfg as the process-wide default configuration.
func SetGlobal(cfg Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// Load reads a Config from a YAML file at path, falling back to
// Default() for any field left unset.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("nodeconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("nodeconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML to path.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("nodeconfig: marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("nodeconfig: write %s: %w", path, err)
	}
	return nil
}
