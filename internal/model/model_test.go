package model

import (
	"testing"
	"time"
)

func TestNormalizeLeagueName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no annotation", "Bezirksliga A", "Bezirksliga A"},
		{"single annotation", "Bezirksliga A (Staffel Süd)", "Bezirksliga A"},
		{"trailing whitespace", "  Landesliga  ", "Landesliga"},
		{"multiple annotations", "Oberliga (Nord) Herren (2. Halbjahr)", "Oberliga Herren"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLeagueName(tt.input); got != tt.expected {
				t.Errorf("NormalizeLeagueName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewPlayerRedaction(t *testing.T) {
	p := NewPlayer("M*ller", "Anna")
	if !p.Redacted {
		t.Error("expected player with masked lastname to be flagged redacted")
	}

	p = NewPlayer("Müller", "Anna")
	if p.Redacted {
		t.Error("expected unmasked player not to be flagged redacted")
	}
}

func TestParseGameTime(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"14.03.2024 19:30", time.Date(2024, 3, 14, 19, 30, 0, 0, time.UTC)},
		{"14.03.2024", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"2024-03-14 19:30", time.Date(2024, 3, 14, 19, 30, 0, 0, time.UTC)},
		{"garbage", time.Time{}},
		{"", time.Time{}},
	}

	for _, tt := range tests {
		if got := ParseGameTime(tt.input); !got.Equal(tt.want) {
			t.Errorf("ParseGameTime(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDiffGames(t *testing.T) {
	prev := []Game{
		{LeagueID: "47900", Number: 12},
		{LeagueID: "47900", Number: 13},
	}
	cur := []Game{
		{LeagueID: "47900", Number: 12},
		{LeagueID: "47900", Number: 14},
		{LeagueID: "51222", Number: 13},
	}

	fresh := DiffGames(prev, cur)
	if len(fresh) != 2 {
		t.Fatalf("expected 2 new games, got %d", len(fresh))
	}
	if fresh[0].Number != 14 || fresh[1].LeagueID != "51222" {
		t.Errorf("unexpected diff result: %+v", fresh)
	}
}
