package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cuemby/nodefabric/pkg/log"
	"github.com/cuemby/nodefabric/pkg/metrics"
	"github.com/cuemby/nodefabric/pkg/node"
	"github.com/cuemby/nodefabric/pkg/nodeconfig"
	"github.com/cuemby/nodefabric/pkg/signalwatch"
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "nodectl",
	Short:   "Inspect and drive the filesystem-backed node fabric",
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("nodectl version %s (%s)\n", Version, Commit))

	rootCmd.PersistentFlags().String("root", nodeconfig.DefaultRoot, "Fabric root directory")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(waitCmd)
}

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	jsonOut, _ := rootCmd.PersistentFlags().GetBool("log-json")
	log.Init(log.Config{Level: log.Level(level), JSONOutput: jsonOut})
}

func loadConfig(cmd *cobra.Command) (nodeconfig.Config, error) {
	root, _ := cmd.Flags().GetString("root")
	cfg := nodeconfig.Default()
	cfg.Root = root
	if err := cfg.EnsureDirs(); err != nil {
		return cfg, fmt.Errorf("preparing fabric root: %w", err)
	}
	return cfg, nil
}

var createCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a node and hold its liveness token until interrupted",
	Long: `Create registers a node under the fabric root and blocks,
keeping its monitoring token held so peers observe it as alive.
The token is released on SIGINT/SIGTERM or process exit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

		n, err := node.NewBuilder().WithName(node.Name(args[0])).WithConfig(cfg).Create()
		if err != nil {
			return fmt.Errorf("creating node: %w", err)
		}
		defer n.Close()
		metrics.NodesCreatedTotal.Inc()

		fmt.Printf("node created: id=%s name=%s\n", n.ID().String(), n.Name())

		if metricsAddr != "" {
			metrics.RegisterComponent("monitoring", true, "token held")
			metrics.RegisterComponent("staticstorage", true, "details stored")
			metrics.RegisterComponent("signalwatch", true, "installed")
			go serveMetrics(metricsAddr)
			fmt.Printf("metrics: http://%s/metrics\n", metricsAddr)
		}

		signalwatch.Install()
		fmt.Println("holding token, press Ctrl+C to release and exit")
		<-signalwatch.InterruptChannel()
		fmt.Println("releasing token")
		return nil
	},
}

func init() {
	createCmd.Flags().String("metrics-addr", "", "Address to serve /metrics and health endpoints (disabled if empty)")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered node and its classified state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		timer := metrics.NewTimer()
		count := 0
		err = node.List(cfg, func(s node.State) node.Progression {
			count++
			printState(s)
			return node.Continue
		})
		timer.ObserveDuration(metrics.EnumerationDuration)
		if err != nil {
			return fmt.Errorf("listing nodes: %w", err)
		}
		if count == 0 {
			fmt.Println("no nodes found")
		}
		return nil
	},
}

func printState(s node.State) {
	switch s.Kind {
	case node.StateAlive:
		name := "<unreadable>"
		if s.Alive.Details() != nil {
			name = string(s.Alive.Details().Name)
		}
		fmt.Printf("%-36s alive        name=%s\n", s.ID.String(), name)
	case node.StateDead:
		name := "<unreadable>"
		if s.Dead.Details() != nil {
			name = string(s.Dead.Details().Name)
		}
		fmt.Printf("%-36s dead         name=%s\n", s.ID.String(), name)
	case node.StateInaccessible:
		fmt.Printf("%-36s inaccessible\n", s.ID.String())
	case node.StateUndefined:
		fmt.Printf("%-36s undefined\n", s.ID.String())
	}
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup ID",
	Short: "Reclaim the stale resources of a dead node",
	Long: `Cleanup classifies ID, and if it is dead, races for the
cleaner lock and removes its on-disk artifacts. Exits non-zero only on
a genuine failure; losing the race to another cleaner is reported but
not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		id, err := node.ParseId(args[0])
		if err != nil {
			return fmt.Errorf("invalid node id %q: %w", args[0], err)
		}

		state, err := node.NewState(cfg, id, 0)
		if err != nil {
			return fmt.Errorf("classifying node: %w", err)
		}
		if state == nil {
			fmt.Println("node already vanished, nothing to clean up")
			return nil
		}
		if state.Kind != node.StateDead {
			return fmt.Errorf("node %s is not dead (state=%d), refusing to clean up", id.String(), state.Kind)
		}

		won, err := state.Dead.RemoveStaleResources()
		if err != nil {
			metrics.CleanupFailuresTotal.WithLabelValues(cleanupFailureKind(err)).Inc()
			return fmt.Errorf("cleanup failed: %w", err)
		}
		if won {
			metrics.CleanupsPerformedTotal.Inc()
			fmt.Printf("cleaned up %s\n", id.String())
		} else {
			metrics.CleanupsLostRaceTotal.Inc()
			fmt.Printf("%s already reclaimed by another cleaner\n", id.String())
		}
		return nil
	},
}

func cleanupFailureKind(err error) string {
	if cf, ok := err.(*node.CleanupFailure); ok {
		return cf.Kind.String()
	}
	return "unknown"
}

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Run the fabric's periodic wait() event loop and print each tick",
	RunE: func(cmd *cobra.Command, args []string) error {
		cycle, _ := cmd.Flags().GetDuration("cycle-time")
		signalwatch.Install()

		for {
			switch node.Wait(cycle) {
			case node.Tick:
				metrics.WaitTicksTotal.Inc()
				fmt.Println("tick")
			case node.TerminationRequest:
				fmt.Println("terminating")
				return nil
			case node.InterruptSignal:
				fmt.Println("interrupted")
			}
		}
	},
}

func init() {
	waitCmd.Flags().Duration("cycle-time", time.Second, "Interval between wait() ticks")
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/health", metrics.HealthHandler())
	mux.Handle("/ready", metrics.ReadyHandler())
	mux.Handle("/live", metrics.LivenessHandler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorf("metrics server error", err)
	}
}
