package reconcile

import (
	"strings"

	"github.com/mhartmann/auswaerts/internal/logger"
	"github.com/mhartmann/auswaerts/internal/model"
)

// Match tags which strategy resolved a player, so callers can surface
// low-confidence results. The composite strategy is inherently ambiguous for
// common surnames; first match wins, and the tag makes that visible.
type Match string

const (
	MatchExact      Match = "exact"
	MatchFirstToken Match = "first_token"
	MatchComposite  Match = "composite"
	MatchNone       Match = "none"
	MatchRedacted   Match = "redacted"
)

// Entry is one uploaded roster row at the documented three-field schema.
type Entry struct {
	Lastname  string
	Firstname string
	Birthdate string
}

type indexEntry struct {
	firstname string // normalized full firstname
	birthdate string
}

// Index is the name lookup built from an uploaded roster. It is rebuilt
// whenever the roster changes and owns no other state.
type Index struct {
	full   map[string]string // "lastname|full firstname" -> birthdate
	first  map[string]string // "lastname|first token"    -> birthdate
	byLast map[string][]indexEntry
}

// normalize collapses internal whitespace, trims and lowercases.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func key(lastname, firstname string) string {
	return lastname + "|" + firstname
}

// BuildIndex builds the lookup from roster rows. Rows without both names and
// a birthdate are skipped.
func BuildIndex(rows []Entry) *Index {
	ix := &Index{
		full:   make(map[string]string),
		first:  make(map[string]string),
		byLast: make(map[string][]indexEntry),
	}

	for _, row := range rows {
		last := normalize(row.Lastname)
		first := normalize(row.Firstname)
		birthdate := strings.TrimSpace(row.Birthdate)
		if last == "" || first == "" || birthdate == "" {
			continue
		}

		if _, exists := ix.full[key(last, first)]; !exists {
			ix.full[key(last, first)] = birthdate
		}
		if token := strings.Fields(first)[0]; token != "" {
			if _, exists := ix.first[key(last, token)]; !exists {
				ix.first[key(last, token)] = birthdate
			}
		}
		ix.byLast[last] = append(ix.byLast[last], indexEntry{firstname: first, birthdate: birthdate})
	}

	logger.Debug("name index built", logger.Fields{
		"entries":   len(ix.full),
		"lastnames": len(ix.byLast),
	})
	return ix
}

// Len returns the number of distinct full-name entries.
func (ix *Index) Len() int {
	return len(ix.full)
}

// Resolve looks up a player's birthdate. Redaction takes precedence over all
// matching: a masked lastname is never attempted against the index. A miss
// returns MatchNone with an empty birthdate; the caller reports it, nothing
// is raised.
func (ix *Index) Resolve(p model.Player) (string, Match) {
	if p.Redacted || strings.Contains(p.Lastname, model.RedactionMarker) {
		return "", MatchRedacted
	}

	last := normalize(p.Lastname)
	first := normalize(p.Firstname)
	if last == "" || first == "" {
		return "", MatchNone
	}

	// 1. Exact match on the full firstname.
	if birthdate, ok := ix.full[key(last, first)]; ok {
		return birthdate, MatchExact
	}

	// 2. First token only: the roster may record just a call-name.
	tokens := strings.Fields(first)
	if birthdate, ok := ix.first[key(last, tokens[0])]; ok {
		return birthdate, MatchFirstToken
	}

	// 3. Composite: every scraped token contained in the candidate's
	// firstname, covering reordered double names and extra middle names.
	for _, cand := range ix.byLast[last] {
		if containsAllTokens(cand.firstname, tokens) {
			return cand.birthdate, MatchComposite
		}
	}

	return "", MatchNone
}

func containsAllTokens(firstname string, tokens []string) bool {
	for _, token := range tokens {
		if !strings.Contains(firstname, token) {
			return false
		}
	}
	return true
}

// Report summarizes one enrichment pass for the UI's per-stage counts.
type Report struct {
	Resolved   int `json:"resolved"`
	Unresolved int `json:"unresolved"`
	Redacted   int `json:"redacted"`
	Composite  int `json:"composite_matches"`
}

// Enrich resolves every player in place: birthdates are filled in where
// found, and redacted players get the fixed placeholder name with no lookup
// attempted.
func Enrich(players []model.Player, ix *Index) Report {
	var report Report

	for i := range players {
		birthdate, match := ix.Resolve(players[i])
		switch match {
		case MatchRedacted:
			players[i].Lastname = model.RedactedPlaceholder
			players[i].Firstname = ""
			report.Redacted++
		case MatchNone:
			report.Unresolved++
			logger.Incr("reconcile.unresolved")
		default:
			players[i].Birthdate = birthdate
			report.Resolved++
			if match == MatchComposite {
				report.Composite++
			}
		}
	}
	return report
}
