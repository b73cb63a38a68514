package metrics

import (
	"time"

	"github.com/cuemby/nodefabric/pkg/node"
	"github.com/cuemby/nodefabric/pkg/nodeconfig"
)

// Collector periodically enumerates the fabric and updates the gauge
// metrics that can't be updated inline by the operations that produce
// them (unlike counters, a gauge needs a fresh full count each tick).
type Collector struct {
	cfg    nodeconfig.Config
	stopCh chan struct{}
}

// NewCollector creates a collector that enumerates cfg's monitoring
// directory on each tick.
func NewCollector(cfg nodeconfig.Config) *Collector {
	return &Collector{
		cfg:    cfg,
		stopCh: make(chan struct{}),
	}
}

// Start begins periodic collection on its own goroutine.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop halts periodic collection.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	timer := NewTimer()
	defer timer.ObserveDuration(EnumerationDuration)

	counts := map[string]int{"alive": 0, "dead": 0, "inaccessible": 0, "undefined": 0}

	err := node.List(c.cfg, func(s node.State) node.Progression {
		switch s.Kind {
		case node.StateAlive:
			counts["alive"]++
		case node.StateDead:
			counts["dead"]++
		case node.StateInaccessible:
			counts["inaccessible"]++
		case node.StateUndefined:
			counts["undefined"]++
		}
		return node.Continue
	})
	if err != nil {
		return
	}

	for state, count := range counts {
		NodesByState.WithLabelValues(state).Set(float64(count))
	}
}
