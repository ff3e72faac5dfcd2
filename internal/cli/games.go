package cli

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/mhartmann/auswaerts/internal/archive"
	"github.com/mhartmann/auswaerts/internal/calendar"
	"github.com/mhartmann/auswaerts/internal/logger"
	"github.com/mhartmann/auswaerts/internal/model"
	"github.com/mhartmann/auswaerts/internal/pagination"
	"github.com/mhartmann/auswaerts/internal/reconcile"
	"github.com/mhartmann/auswaerts/internal/roster"
	"github.com/mhartmann/auswaerts/internal/schedule"
	"github.com/mhartmann/auswaerts/internal/storage"
	"github.com/spf13/cobra"
)

func newGamesCmd() *cobra.Command {
	var (
		flagTeam    string
		flagSource  string
		flagPlayers bool
		flagRoster  string
		flagICS     string
		flagDiff    bool
	)

	cmd := &cobra.Command{
		Use:   "games",
		Short: "Collect a team's away games across all its leagues",
		Long: `Scans the season's league directory for every league the team plays in,
then resolves the team's away games from each league's schedule. The scan
result is stored under the data directory so that later runs can report
newly published fixtures.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			format, err := outputFormat()
			if err != nil {
				return err
			}
			if flagSource != "export" && flagSource != "html" {
				return fmt.Errorf("invalid source: %s (must be 'export' or 'html')", flagSource)
			}

			fetcher := newFetcher()
			client := archive.NewClient(fetcher, archive.WithBaseURL(flagBaseURL))
			resolver := schedule.NewResolver(fetcher, schedule.WithBaseURL(flagBaseURL))

			matches, scanReport, err := client.FindTeamLeagues(ctx, flagSeason, flagDistrict, flagTeam, scanOptions())
			if err != nil {
				return fmt.Errorf("locating team leagues: %w", err)
			}

			var games []model.Game
			var schedReport schedule.Report
			seen := make(map[string]bool)
			walker := pagination.Walker{MaxPages: flagMaxPages, Delay: flagDelay}

			for _, match := range matches {
				for _, team := range match.FoundTeams {
					resolved, report, err := resolveGames(cmd, resolver, match.League, team.Name, flagSource, walker)
					if err != nil {
						logger.Error("resolving schedule", logger.Fields{
							"liga_id": match.League.ID,
							"team":    team.Name,
						}, err)
						scanReport.FailedLeagues++
						continue
					}
					schedReport.DroppedRows += report.DroppedRows
					schedReport.DriftPages += report.DriftPages
					schedReport.Truncated = schedReport.Truncated || report.Truncated
					schedReport.SchemaSuspect = schedReport.SchemaSuspect || report.SchemaSuspect
					for _, g := range resolved {
						if !seen[g.Key()] {
							seen[g.Key()] = true
							games = append(games, g)
						}
					}
				}
			}
			sort.Slice(games, func(i, j int) bool { return games[i].Tipoff.Before(games[j].Tipoff) })

			result := &GamesResult{
				CheckedAt:      time.Now().UTC(),
				SeasonID:       flagSeason,
				Team:           flagTeam,
				Matches:        matches,
				Games:          games,
				ScanReport:     scanReport,
				ScheduleReport: schedReport,
			}

			if flagPlayers || flagRoster != "" {
				result.PlayerDrift = fetchRosters(cmd, resolver, games)
			}

			if flagRoster != "" {
				rosterReport, err := enrichFromRoster(flagRoster, games)
				if err != nil {
					return err
				}
				result.RosterReport = &rosterReport
			}

			store, err := storage.New(flagDataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}
			previous, err := store.LoadScan(flagSeason, flagTeam)
			if err != nil {
				return fmt.Errorf("loading previous scan: %w", err)
			}
			if previous != nil {
				result.NewGames = model.DiffGames(previous.Games, games)
			} else {
				result.NewGames = games
			}

			if err := store.SaveScan(&storage.ScanResult{
				SeasonID: flagSeason,
				Team:     flagTeam,
				Matches:  matches,
				Games:    games,
			}); err != nil {
				return fmt.Errorf("saving scan: %w", err)
			}

			if flagICS != "" {
				ics := calendar.GenerateICS(games, flagTeam)
				if err := os.WriteFile(flagICS, []byte(ics), 0644); err != nil {
					return fmt.Errorf("writing calendar file: %w", err)
				}
				if flagVerbose {
					fmt.Fprintf(os.Stderr, "Wrote %d games to %s\n", len(games), flagICS)
				}
			}

			result.DiffOnly = flagDiff
			if err := WriteGames(os.Stdout, result, format, flagVerbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			if flagDiff && len(result.NewGames) > 0 {
				os.Exit(ExitNewGames)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagTeam, "team", "", "Team name or name fragment (required)")
	cmd.Flags().StringVar(&flagSource, "source", "export", "Schedule source: export or html")
	cmd.Flags().BoolVar(&flagPlayers, "players", false, "Fetch the guest roster of each played game")
	cmd.Flags().StringVar(&flagRoster, "roster", "", "Club roster CSV to reconcile player names against (implies --players)")
	cmd.Flags().StringVar(&flagICS, "ics", "", "Write the away games to this iCalendar file")
	cmd.Flags().BoolVar(&flagDiff, "diff", false, "Report only games new since the previous scan")

	cmd.MarkFlagRequired("team")

	return cmd
}

// resolveGames reads one league schedule through the chosen source. The
// export download is the cheap path; when it fails or its column layout
// looks reordered, the paginated HTML schedule is the fallback.
func resolveGames(cmd *cobra.Command, r *schedule.Resolver, league model.League, team, source string, walker pagination.Walker) ([]model.Game, schedule.Report, error) {
	ctx := cmd.Context()

	if source == "html" {
		return r.FromHTML(ctx, league, team, walker)
	}

	games, report, err := r.FromExport(ctx, league, team)
	if err == nil && !report.SchemaSuspect {
		return games, report, nil
	}
	if err != nil {
		logger.Warn("export download failed, falling back to schedule pages", logger.Fields{
			"liga_id": league.ID,
			"error":   err.Error(),
		})
	} else {
		logger.Warn("export rows carry no parseable dates, falling back to schedule pages", logger.Fields{
			"liga_id": league.ID,
		})
	}
	return r.FromHTML(ctx, league, team, walker)
}

// fetchRosters pulls the guest roster of every game that links a result
// detail page. Games without a detail link have not been played yet and are
// skipped. Returns the number of detail pages that drifted.
func fetchRosters(cmd *cobra.Command, r *schedule.Resolver, games []model.Game) int {
	ctx := cmd.Context()
	drift := 0

	for i := range games {
		if games[i].DetailID == "" {
			continue
		}
		players, ok, err := r.GuestPlayers(ctx, games[i].DetailID, games[i].LeagueID)
		if err != nil {
			logger.Error("fetching guest roster", logger.Fields{
				"spielplan_id": games[i].DetailID,
			}, err)
			drift++
			continue
		}
		if !ok {
			drift++
			continue
		}
		games[i].Players = players

		if flagDelay > 0 {
			select {
			case <-ctx.Done():
				return drift
			case <-time.After(flagDelay):
			}
		}
	}
	return drift
}

// enrichFromRoster loads the club roster CSV and resolves every scraped
// player name against it, in place.
func enrichFromRoster(path string, games []model.Game) (reconcile.Report, error) {
	var report reconcile.Report

	entries, skipped, err := roster.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("reading roster: %w", err)
	}
	if skipped > 0 {
		logger.Warn("roster rows skipped", logger.Fields{"skipped": skipped})
	}

	ix := reconcile.BuildIndex(entries)
	for i := range games {
		r := reconcile.Enrich(games[i].Players, ix)
		report.Resolved += r.Resolved
		report.Unresolved += r.Unresolved
		report.Redacted += r.Redacted
		report.Composite += r.Composite
	}
	return report, nil
}
