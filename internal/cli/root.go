// Package cli wires the cobra command surface to the collection and
// rendering pipeline.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rice8y/sdetails/internal/config"
	"github.com/rice8y/sdetails/internal/errors"
	"github.com/rice8y/sdetails/internal/logger"
	"github.com/rice8y/sdetails/internal/render"
	"github.com/rice8y/sdetails/internal/slurm"
	"github.com/rice8y/sdetails/internal/view"
	"github.com/rice8y/sdetails/internal/watch"
)

var (
	partitionFlag string
	sortFlag      string
	noColorFlag   bool
	noSummaryFlag bool
	exportFlag    string
	watchFlag     int
	configFlag    string
	timeoutFlag   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "sdetails",
	Short: "Colorized Slurm node monitor",
	Long: `Show a live, human-readable view of Slurm compute-node state:
CPU, memory, and GPU allocation, partition membership, health state,
and a cluster-wide summary.

Examples:
  sdetails
  sdetails -p gpu -s cpu
  sdetails --watch 5
  sdetails --export cluster.json --no-color`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&partitionFlag, "partition", "p", "", "show only the specified partition")
	rootCmd.Flags().StringVarP(&sortFlag, "sort", "s", string(view.SortName), "sort criteria (nodename|partition|state|cpu)")
	rootCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "disable color output")
	rootCmd.Flags().BoolVar(&noSummaryFlag, "no-summary", false, "disable the cluster summary block")
	rootCmd.Flags().StringVar(&exportFlag, "export", "", "export data to a JSON file each cycle")
	rootCmd.Flags().IntVar(&watchFlag, "watch", 0, "auto-refresh every N seconds (bare --watch uses the configured interval)")
	rootCmd.Flags().Lookup("watch").NoOptDefVal = useConfigInterval
	rootCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "fetch timeout override (e.g. 5s, 30s)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file path")
}

// Execute runs the root command. Errors print in their structured form and
// exit non-zero; cancellation in watch mode is a normal exit.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// monitorCommand builds the pipeline from flags and config and runs it.
func monitorCommand() error {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return err
	}

	sortKey, err := view.ParseSortKey(sortFlag)
	if err != nil {
		return err
	}

	interval, err := resolveInterval(watchFlag, cfg.Interval)
	if err != nil {
		return err
	}

	timeout := cfg.Timeout
	if timeoutFlag > 0 {
		timeout = timeoutFlag
	}

	source := slurm.NewCommandSource(timeout, logger.NewEnvLogger("[slurm]"))
	source.SinfoCmd = cfg.Sinfo
	source.SqueueCmd = cfg.Squeue

	loop := watch.New(watch.Options{
		Source:      source,
		Interval:    interval,
		Partition:   partitionFlag,
		Sort:        sortKey,
		ShowSummary: !noSummaryFlag,
		ExportPath:  exportFlag,
		Styles:      render.NewStyles(colorEnabled(cfg.Color, noColorFlag)),
		Out:         os.Stdout,
		ClearScreen: interval > 0,
		Log:         logger.NewEnvLogger("[watch]"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return loop.Run(ctx)
}

// useConfigInterval is the sentinel a bare --watch (no value) sets via
// NoOptDefVal, meaning "refresh at the interval from the config file".
const useConfigInterval = "-1"

// resolveInterval turns the --watch flag into the loop interval. 0 is
// one-shot, a positive value is a period in whole seconds, and the bare-flag
// sentinel defers to the configured default.
func resolveInterval(watch int, configured time.Duration) (time.Duration, error) {
	switch {
	case watch == -1:
		return configured, nil
	case watch < 0:
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid watch interval %d", watch),
			"Pass the refresh period in whole seconds, e.g. --watch 5")
	default:
		return time.Duration(watch) * time.Second, nil
	}
}

// colorEnabled resolves the color mode from config, the --no-color flag,
// NO_COLOR in the environment, and whether stdout is a terminal.
func colorEnabled(mode string, noColor bool) bool {
	if noColor || mode == "never" || termenv.EnvNoColor() {
		return false
	}
	if mode == "always" {
		return true
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
