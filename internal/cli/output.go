package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mhartmann/auswaerts/internal/archive"
	"github.com/mhartmann/auswaerts/internal/model"
	"github.com/mhartmann/auswaerts/internal/reconcile"
	"github.com/mhartmann/auswaerts/internal/schedule"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// LeaguesResult is the output of the leagues command.
type LeaguesResult struct {
	SeasonID string         `json:"season_id"`
	District string         `json:"district"`
	Leagues  []model.League `json:"leagues"`
	Report   archive.Report `json:"report"`
}

// GamesResult is the output of the games command.
type GamesResult struct {
	CheckedAt      time.Time         `json:"checked_at"`
	SeasonID       string            `json:"season_id"`
	Team           string            `json:"team"`
	Matches        []archive.Match   `json:"matches"`
	Games          []model.Game      `json:"games"`
	NewGames       []model.Game      `json:"new_games"`
	ScanReport     archive.Report    `json:"scan_report"`
	ScheduleReport schedule.Report   `json:"schedule_report"`
	PlayerDrift    int               `json:"player_drift,omitempty"`
	RosterReport   *reconcile.Report `json:"roster_report,omitempty"`
	DiffOnly       bool              `json:"diff_only,omitempty"`
}

// ReconcileResult is the output of the reconcile command.
type ReconcileResult struct {
	SeasonID string           `json:"season_id"`
	Team     string           `json:"team"`
	Games    []model.Game     `json:"games"`
	Report   reconcile.Report `json:"report"`
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// WriteLeagues writes the leagues result in the specified format
func WriteLeagues(w io.Writer, result *LeaguesResult, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	if len(result.Leagues) == 0 {
		fmt.Fprintln(w, "No leagues found.")
		writeScanReport(w, result.Report)
		return nil
	}

	for _, l := range result.Leagues {
		fmt.Fprintf(w, "%s: %s\n", l.ID, l.DisplayName())
		if verbose {
			fmt.Fprintf(w, "     Klasse: %s  Alter: %s  m/w: %s\n", l.Class, l.AgeGroup, l.Gender)
			if l.County != "" {
				fmt.Fprintf(w, "     Kreis: %s\n", l.County)
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d leagues in season %s\n", len(result.Leagues), result.SeasonID)
	writeScanReport(w, result.Report)
	return nil
}

// WriteGames writes the games result in the specified format
func WriteGames(w io.Writer, result *GamesResult, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	games := result.Games
	label := "away games"
	if result.DiffOnly {
		games = result.NewGames
		label = "new away games"
	}

	if len(games) == 0 {
		fmt.Fprintf(w, "No %s found for %s.\n", label, result.Team)
	} else {
		for _, g := range games {
			writeGame(w, g, verbose)
		}
		fmt.Fprintf(w, "\nTotal: %d %s across %d leagues\n", len(games), label, len(result.Matches))
	}

	writeScanReport(w, result.ScanReport)
	writeScheduleReport(w, result.ScheduleReport)
	if result.PlayerDrift > 0 {
		fmt.Fprintf(w, "Warning: %d result-detail pages could not be read\n", result.PlayerDrift)
	}
	if result.RosterReport != nil {
		writeRosterReport(w, *result.RosterReport)
	}
	return nil
}

// WriteReconcile writes the reconcile result in the specified format
func WriteReconcile(w io.Writer, result *ReconcileResult, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	for _, g := range result.Games {
		if len(g.Players) == 0 {
			continue
		}
		writeGame(w, g, false)
		for _, p := range g.Players {
			if p.Birthdate != "" {
				fmt.Fprintf(w, "     %s, %s (%s)\n", p.Lastname, p.Firstname, p.Birthdate)
			} else {
				fmt.Fprintf(w, "     %s, %s\n", p.Lastname, p.Firstname)
			}
		}
	}
	writeRosterReport(w, result.Report)
	return nil
}

func writeGame(w io.Writer, g model.Game, verbose bool) {
	when := "unscheduled"
	if !g.Tipoff.IsZero() {
		when = g.Tipoff.Format("02.01.2006 15:04")
	}
	line := fmt.Sprintf("%s  %s at %s", when, g.AwayTeam, g.HomeTeam)
	if g.Score != "" {
		line += fmt.Sprintf("  (%s)", g.Score)
	}
	fmt.Fprintln(w, line)
	if verbose {
		fmt.Fprintf(w, "     Liga: %s  Spieltag: %d  Nr: %d\n", g.LeagueID, g.Day, g.Number)
	}
}

func writeScanReport(w io.Writer, r archive.Report) {
	if r.DriftPages > 0 {
		fmt.Fprintf(w, "Warning: %d pages no longer matched the expected layout\n", r.DriftPages)
	}
	if r.DroppedRows > 0 {
		fmt.Fprintf(w, "Warning: %d rows were dropped as undecodable\n", r.DroppedRows)
	}
	if r.FailedLeagues > 0 {
		fmt.Fprintf(w, "Warning: %d leagues could not be scanned\n", r.FailedLeagues)
	}
	if r.Truncated {
		fmt.Fprintln(w, "Warning: listing truncated at the page cap")
	}
}

func writeScheduleReport(w io.Writer, r schedule.Report) {
	if r.DriftPages > 0 {
		fmt.Fprintf(w, "Warning: %d schedule pages no longer matched the expected layout\n", r.DriftPages)
	}
	if r.DroppedRows > 0 {
		fmt.Fprintf(w, "Warning: %d schedule rows were dropped as undecodable\n", r.DroppedRows)
	}
	if r.SchemaSuspect {
		fmt.Fprintln(w, "Warning: export columns look reordered; dates could not be parsed")
	}
	if r.Truncated {
		fmt.Fprintln(w, "Warning: schedule truncated at the page cap")
	}
}

func writeRosterReport(w io.Writer, r reconcile.Report) {
	fmt.Fprintf(w, "\nRoster: %d resolved, %d unresolved, %d redacted", r.Resolved, r.Unresolved, r.Redacted)
	if r.Composite > 0 {
		fmt.Fprintf(w, " (%d via composite first names)", r.Composite)
	}
	fmt.Fprintln(w)
}
