// Package calendar renders resolved away games as an iCalendar file, so a
// season's travel dates drop straight into a club calendar.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/mhartmann/auswaerts/internal/model"
)

// gameDuration blocks out the slot for one fixture including warm-up.
const gameDuration = 2 * time.Hour

// GenerateICS renders the games as one VCALENDAR with a VEVENT per game.
// Games without a tip-off time never reach this point; the resolvers drop
// them.
func GenerateICS(games []model.Game, team string) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//auswaerts//auswaerts//DE\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	now := time.Now().UTC()
	for _, game := range games {
		writeEvent(&ics, game, team, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, game model.Game, team string, stamp time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	fmt.Fprintf(ics, "UID:%s-%d@auswaerts\r\n", game.LeagueID, game.Number)
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", formatICSTime(stamp))
	fmt.Fprintf(ics, "DTSTART:%s\r\n", formatICSTime(game.Tipoff))
	fmt.Fprintf(ics, "DTEND:%s\r\n", formatICSTime(game.Tipoff.Add(gameDuration)))

	summary := fmt.Sprintf("Auswärtsspiel: %s bei %s", game.AwayTeam, game.HomeTeam)
	fmt.Fprintf(ics, "SUMMARY:%s\r\n", escapeICS(summary))

	description := fmt.Sprintf("Spieltag %d, Spiel %d", game.Day, game.Number)
	if game.Score != "" {
		description += fmt.Sprintf("\nEndstand: %s", game.Score)
	}
	fmt.Fprintf(ics, "DESCRIPTION:%s\r\n", escapeICS(description))
	fmt.Fprintf(ics, "LOCATION:%s\r\n", escapeICS(game.HomeTeam))

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string.
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters according to RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
