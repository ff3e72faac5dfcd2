package filter

import (
	"testing"

	"github.com/mhartmann/auswaerts/internal/model"
)

var leagues = []model.League{
	{ID: "1", Name: "Bezirksliga A", Class: "Bezirksliga", AgeGroup: "Senioren", Gender: "m", District: "Darmstadt"},
	{ID: "2", Name: "Kreisliga U16 weiblich", Class: "Kreisliga", AgeGroup: "U16", Gender: "w", District: "Darmstadt"},
	{ID: "3", Name: "Landesliga Damen", Class: "Landesliga", AgeGroup: "Senioren", Gender: "w", District: "Frankfurt"},
}

func TestParse(t *testing.T) {
	f, err := Parse("alter:U16 mw:w")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if f.AgeGroup != "U16" || f.Gender != "w" {
		t.Errorf("unexpected filter: %+v", f)
	}
}

func TestParseErrors(t *testing.T) {
	for _, expr := range []string{"alter", "alter:", "farbe:blau"} {
		if _, err := Parse(expr); err == nil {
			t.Errorf("expected parse error for %q", expr)
		}
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []string
	}{
		{"match all", "", []string{"1", "2", "3"}},
		{"by age", "alter:u16", []string{"2"}},
		{"by gender", "mw:w", []string{"2", "3"}},
		{"combined", "mw:w bezirk:darmstadt", []string{"2"}},
		{"by name substring", "name:damen", []string{"3"}},
		{"no match", "klasse:oberliga", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			got := f.Apply(leagues)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d leagues, got %d", len(tt.want), len(got))
			}
			for i, l := range got {
				if l.ID != tt.want[i] {
					t.Errorf("expected league %s at %d, got %s", tt.want[i], i, l.ID)
				}
			}
		})
	}
}
