package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// RedactionMarker is the character the portal embeds in a surname when the
// real name is withheld for privacy reasons.
const RedactionMarker = "*"

// RedactedPlaceholder replaces a redacted player's name in all downstream
// output. The birthdate of a redacted player is never looked up.
const RedactedPlaceholder = "Geblockt (DSGVO)"

// League is one competition group/division within a season. The ID is only
// stable within that season; the portal exposes it as an href query parameter,
// never as visible text.
type League struct {
	ID       string `json:"liga_id"`
	SeasonID string `json:"season_id"`
	Name     string `json:"name"`
	Class    string `json:"klasse"`
	AgeGroup string `json:"alter"`
	Gender   string `json:"geschlecht"`
	District string `json:"bezirk"`
	County   string `json:"kreis"`
}

// DisplayName returns the league name with parenthetical annotations stripped,
// e.g. "Bezirksliga A (Staffel Süd)" -> "Bezirksliga A".
func (l League) DisplayName() string {
	return NormalizeLeagueName(l.Name)
}

var parenthetical = regexp.MustCompile(`\s*\(.*?\)`)

// NormalizeLeagueName strips parenthetical annotations and surrounding
// whitespace from a league name.
func NormalizeLeagueName(name string) string {
	return strings.TrimSpace(parenthetical.ReplaceAllString(name, ""))
}

// Team is one club entry from a league table. Teams whose name cell is struck
// through on the portal (withdrawn from the league) are excluded at extraction
// time and never reach this type.
type Team struct {
	Name     string `json:"name"`
	Rank     string `json:"rank,omitempty"`
	LeagueID string `json:"liga_id"`
}

// Game is a single fixture. Number is the dedup key within a league and
// season; a game can legitimately reappear across paginated schedule windows.
// Score stays empty until the game has been played.
type Game struct {
	LeagueID string    `json:"liga_id"`
	Day      int       `json:"spieltag"`
	Number   int       `json:"nummer"`
	Tipoff   time.Time `json:"tipoff"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	Score    string    `json:"score,omitempty"`
	// DetailID is the schedule id behind the result-detail link, when the
	// schedule row carries one. It is needed to fetch the guest roster.
	DetailID string   `json:"spielplan_id,omitempty"`
	Players  []Player `json:"players,omitempty"`
}

// Key identifies a game within its league for deduplication and diffing.
func (g Game) Key() string {
	return fmt.Sprintf("%s/%d", g.LeagueID, g.Number)
}

// Player is one roster entry scraped from a result-detail page. Identity for
// reconciliation purposes is the (Lastname, Firstname) pair; the portal
// exposes no stable player ID.
type Player struct {
	Lastname  string `json:"nachname"`
	Firstname string `json:"vorname"`
	Redacted  bool   `json:"redacted,omitempty"`
	Birthdate string `json:"geburtsdatum,omitempty"`
}

// NewPlayer builds a Player and derives the redaction flag from the lastname.
func NewPlayer(lastname, firstname string) Player {
	return Player{
		Lastname:  strings.TrimSpace(lastname),
		Firstname: strings.TrimSpace(firstname),
		Redacted:  strings.Contains(lastname, RedactionMarker),
	}
}

// DiffGames returns the games in cur that are not present in prev, keyed by
// (league, game number). Used to report newly published fixtures between runs.
func DiffGames(prev, cur []Game) []Game {
	seen := make(map[string]bool, len(prev))
	for _, g := range prev {
		seen[g.Key()] = true
	}
	fresh := make([]Game, 0)
	for _, g := range cur {
		if !seen[g.Key()] {
			fresh = append(fresh, g)
		}
	}
	return fresh
}
