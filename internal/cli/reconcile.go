package cli

import (
	"fmt"
	"os"

	"github.com/mhartmann/auswaerts/internal/storage"
	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	var (
		flagTeam   string
		flagRoster string
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile a stored scan's player names against a club roster",
		Long: `Loads the stored scan of a team, resolves every scraped guest player
against the given club roster CSV, and writes the enriched scan back.
Redacted players keep their placeholder name; names the roster does not
know are reported, not failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			store, err := storage.New(flagDataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}
			scan, err := store.LoadScan(flagSeason, flagTeam)
			if err != nil {
				return fmt.Errorf("loading scan: %w", err)
			}
			if scan == nil {
				return fmt.Errorf("no stored scan for team %q in season %s (run 'auswaerts games' first)", flagTeam, flagSeason)
			}

			report, err := enrichFromRoster(flagRoster, scan.Games)
			if err != nil {
				return err
			}
			if err := store.SaveScan(scan); err != nil {
				return fmt.Errorf("saving enriched scan: %w", err)
			}

			result := &ReconcileResult{
				SeasonID: flagSeason,
				Team:     flagTeam,
				Games:    scan.Games,
				Report:   report,
			}
			return WriteReconcile(os.Stdout, result, format, flagVerbose)
		},
	}

	cmd.Flags().StringVar(&flagTeam, "team", "", "Team whose stored scan to reconcile (required)")
	cmd.Flags().StringVar(&flagRoster, "roster", "", "Club roster CSV (required)")

	cmd.MarkFlagRequired("team")
	cmd.MarkFlagRequired("roster")

	return cmd
}
