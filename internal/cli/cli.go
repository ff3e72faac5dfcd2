package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mhartmann/auswaerts/internal/archive"
	"github.com/mhartmann/auswaerts/internal/fetch"
	"github.com/mhartmann/auswaerts/internal/logger"
	"github.com/mhartmann/auswaerts/internal/pagination"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitNewGames = 2
)

var (
	flagSeason   string
	flagDistrict string
	flagDataDir  string
	flagFormat   string
	flagBaseURL  string
	flagDelay    time.Duration
	flagMaxPages int
	flagVerbose  bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auswaerts",
		Short: "Find a basketball team's away games on the DBB league portal",
		Long: `A CLI tool to scan the basketball-bund.net archive for a season's
leagues, locate every league a team plays in, collect the team's away
games, and reconcile guest rosters against a club member list.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
			}
		},
	}

	// Define persistent flags shared by all subcommands
	cmd.PersistentFlags().StringVar(&flagSeason, "season", "", "Season ID, e.g. 2023 (required)")
	cmd.PersistentFlags().StringVar(&flagDistrict, "district", "28", "District (Bezirk) filter ID")
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "~/.local/share/auswaerts", "Data directory for scan results")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", archive.DefaultBaseURL, "Portal root URL")
	cmd.PersistentFlags().DurationVar(&flagDelay, "delay", pagination.DefaultDelay, "Politeness pause between page requests")
	cmd.PersistentFlags().IntVar(&flagMaxPages, "max-pages", 0, "Page cap per paginated listing (0 = default)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.MarkPersistentFlagRequired("season")

	cmd.AddCommand(newLeaguesCmd())
	cmd.AddCommand(newGamesCmd())
	cmd.AddCommand(newReconcileCmd())

	return cmd
}

// outputFormat validates the --format flag.
func outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

// newFetcher builds the shared retrying HTTP client.
func newFetcher() *fetch.Client {
	return fetch.New()
}

// scanOptions maps the persistent flags onto per-operation scan options. In
// verbose mode every page and league processed is echoed to stderr.
func scanOptions() archive.Options {
	opts := archive.Options{
		Delay:    flagDelay,
		MaxPages: flagMaxPages,
	}
	if flagVerbose {
		opts.Progress = func(stage string, current, total int) {
			fmt.Fprintf(os.Stderr, "%s: %d/%d\n", stage, current, total)
		}
	}
	return opts
}

// Execute runs the CLI. A SIGINT cancels the context so that in-flight
// pagination walks and politeness pauses unwind cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
