package cli

import (
	"fmt"
	"os"

	"github.com/mhartmann/auswaerts/internal/archive"
	"github.com/mhartmann/auswaerts/internal/filter"
	"github.com/spf13/cobra"
)

func newLeaguesCmd() *cobra.Command {
	var flagFilter string

	cmd := &cobra.Command{
		Use:   "leagues",
		Short: "List the leagues of a season",
		Long: `Walks the season's league directory for the configured district and
prints every league found. An optional facet filter narrows the list,
e.g. --filter "alter:U16 mw:weiblich".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			fl, err := filter.Parse(flagFilter)
			if err != nil {
				return fmt.Errorf("parsing filter: %w", err)
			}

			client := archive.NewClient(newFetcher(), archive.WithBaseURL(flagBaseURL))
			leagues, report, err := client.Leagues(cmd.Context(), flagSeason, flagDistrict, scanOptions())
			if err != nil {
				return fmt.Errorf("scanning league directory: %w", err)
			}
			leagues = fl.Apply(leagues)

			result := &LeaguesResult{
				SeasonID: flagSeason,
				District: flagDistrict,
				Leagues:  leagues,
				Report:   report,
			}
			return WriteLeagues(os.Stdout, result, format, flagVerbose)
		},
	}

	cmd.Flags().StringVar(&flagFilter, "filter", "", "Facet filter, e.g. 'klasse:Bezirksliga alter:U16'")

	return cmd
}
