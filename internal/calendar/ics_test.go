package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/mhartmann/auswaerts/internal/model"
)

func TestGenerateICS(t *testing.T) {
	games := []model.Game{
		{
			LeagueID: "47900",
			Day:      6,
			Number:   12,
			Tipoff:   time.Date(2024, 1, 14, 17, 30, 0, 0, time.UTC),
			HomeTeam: "TSV Lichtenberg",
			AwayTeam: "TV Heppenheim 2",
			Score:    "71 : 80",
		},
		{
			LeagueID: "47900",
			Day:      8,
			Number:   14,
			Tipoff:   time.Date(2024, 1, 28, 11, 0, 0, 0, time.UTC),
			HomeTeam: "BC Darmstadt",
			AwayTeam: "TV Heppenheim 2",
		},
	}

	ics := GenerateICS(games, "TV Heppenheim 2")

	if !strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n") || !strings.HasSuffix(ics, "END:VCALENDAR\r\n") {
		t.Error("missing calendar envelope")
	}
	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("expected 2 events, got %d", got)
	}
	if !strings.Contains(ics, "UID:47900-12@auswaerts") {
		t.Error("missing stable UID for game 12")
	}
	if !strings.Contains(ics, "DTSTART:20240114T173000Z") {
		t.Error("missing tip-off DTSTART")
	}
	if !strings.Contains(ics, "DTEND:20240114T193000Z") {
		t.Error("missing DTEND two hours after tip-off")
	}
	if !strings.Contains(ics, "SUMMARY:Auswärtsspiel: TV Heppenheim 2 bei TSV Lichtenberg") {
		t.Error("missing summary line")
	}
	if !strings.Contains(ics, "Endstand: 71 : 80") {
		t.Error("missing score in description of the played game")
	}
}

func TestEscapeICS(t *testing.T) {
	got := escapeICS("a,b;c\nd\\e")
	want := "a\\,b\\;c\\nd\\\\e"
	if got != want {
		t.Errorf("escapeICS = %q, want %q", got, want)
	}
}

func TestGenerateICSEmpty(t *testing.T) {
	ics := GenerateICS(nil, "TV Heppenheim 2")
	if strings.Contains(ics, "BEGIN:VEVENT") {
		t.Error("expected no events for an empty game list")
	}
}
