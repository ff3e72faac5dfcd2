// Package filter narrows league scans by facet criteria.
//
// Filters are written as space-separated key:value terms, e.g.
//
//	alter:U16 mw:w klasse:Kreisliga
//
// Values match case-insensitively as substrings. Unknown keys are rejected
// at parse time so a typo fails loudly instead of silently matching
// everything.
package filter

import (
	"fmt"
	"strings"

	"github.com/mhartmann/auswaerts/internal/model"
)

// Filter holds facet criteria for leagues. Empty fields do not constrain.
type Filter struct {
	Class    string `json:"klasse,omitempty"`
	AgeGroup string `json:"alter,omitempty"`
	Gender   string `json:"mw,omitempty"`
	District string `json:"bezirk,omitempty"`
	County   string `json:"kreis,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Parse builds a Filter from a term expression. An empty expression yields
// the match-all filter.
func Parse(expr string) (Filter, error) {
	var f Filter

	for _, term := range strings.Fields(expr) {
		key, value, found := strings.Cut(term, ":")
		if !found || value == "" {
			return Filter{}, fmt.Errorf("invalid filter term %q (want key:value)", term)
		}

		switch strings.ToLower(key) {
		case "klasse":
			f.Class = value
		case "alter":
			f.AgeGroup = value
		case "mw", "geschlecht":
			f.Gender = value
		case "bezirk":
			f.District = value
		case "kreis":
			f.County = value
		case "name", "liga":
			f.Name = value
		default:
			return Filter{}, fmt.Errorf("unknown filter key %q", key)
		}
	}
	return f, nil
}

// Matches reports whether the league satisfies every set criterion.
func (f Filter) Matches(l model.League) bool {
	return contains(l.Class, f.Class) &&
		contains(l.AgeGroup, f.AgeGroup) &&
		contains(l.Gender, f.Gender) &&
		contains(l.District, f.District) &&
		contains(l.County, f.County) &&
		contains(l.Name, f.Name)
}

// Apply returns the leagues matching the filter, preserving order.
func (f Filter) Apply(leagues []model.League) []model.League {
	if f == (Filter{}) {
		return leagues
	}
	out := make([]model.League, 0, len(leagues))
	for _, l := range leagues {
		if f.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}

func contains(value, criterion string) bool {
	if criterion == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(criterion))
}
