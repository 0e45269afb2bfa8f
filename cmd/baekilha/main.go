package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/baekilha/baekilha/pkg/config"
	"github.com/baekilha/baekilha/pkg/log"
	"github.com/baekilha/baekilha/pkg/metrics"
	"github.com/baekilha/baekilha/pkg/page"
	"github.com/baekilha/baekilha/pkg/types"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "baekilha",
	Short: "Baekilha - National Assembly ranking pages",
	Long: `Baekilha renders comparative rankings of National Assembly members
and parties, fused from independent data feeds keyed by display name.

Every command runs as an independent page process. Pages synchronize
ranking state with each other over a local notification channel, so a
weight change in one terminal updates the rankings in all of them.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Baekilha version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("config", "baekilha.yaml", "Config file path")
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Expose /metrics and /health on this address")

	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(weightsCmd)
}

// loadConfig reads the config file and applies flag overrides, then wires the
// global logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		cfg.MetricsAddr = addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Init(log.Config{Level: log.Level(cfg.LogLevel), JSONOutput: cfg.LogJSON})
	metrics.SetVersion(Version)
	return cfg, nil
}

// Rank commands
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Run a ranking page",
}

var rankMembersCmd = &cobra.Command{
	Use:   "members",
	Short: "Run the member ranking page",
	Long: `Load all member feeds, fuse them by display name, and render the
ranking. The page then stays up, applying weight changes and resets
broadcast by other pages, until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRankPage(cmd, types.KindMember)
	},
}

var rankPartiesCmd = &cobra.Command{
	Use:   "parties",
	Short: "Run the party ranking page",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRankPage(cmd, types.KindParty)
	},
}

func runRankPage(cmd *cobra.Command, kind types.EntityKind) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p, err := page.New(cfg, kind)
	if err != nil {
		return err
	}
	defer p.Close()

	if view, changed := viewFromFlags(cmd); changed {
		p.SetView(view)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		cancel()
	}()

	return p.Run(ctx)
}

// viewFromFlags builds the initial view state from the rank flags. The
// persisted view is kept when no flag is set.
func viewFromFlags(cmd *cobra.Command) (types.ViewState, bool) {
	query, _ := cmd.Flags().GetString("query")
	party, _ := cmd.Flags().GetString("filter-party")
	sortKey, _ := cmd.Flags().GetString("sort")
	pageNum, _ := cmd.Flags().GetInt("page")

	view := types.ViewState{Query: query, Filter: party, Sort: sortKey, Page: pageNum}
	changed := query != "" || party != "" || sortKey != "" || pageNum > 0
	return view, changed
}

func init() {
	rankCmd.AddCommand(rankMembersCmd)
	rankCmd.AddCommand(rankPartiesCmd)

	for _, c := range []*cobra.Command{rankMembersCmd, rankPartiesCmd} {
		c.Flags().String("query", "", "Filter entries by name substring")
		c.Flags().String("filter-party", "", "Show only entries of this party")
		c.Flags().String("sort", "", "Sort order: rank (default), name, party")
		c.Flags().Int("page", 0, "Page number to show")
	}
}
