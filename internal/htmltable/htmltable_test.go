package htmltable

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func loadFixture(t *testing.T, name string) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", name, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("failed to parse fixture %s: %v", name, err)
	}
	return doc
}

func TestFindSelectsTableByHeaderSubset(t *testing.T) {
	doc := loadFixture(t, "leagues_page1.html")

	// The page carries a decoy sportView table first; the required tokens
	// must land on the league table despite its extra decorative header cells.
	table, ok := Find(doc, "Klasse", "Alter", "Liganame")
	if !ok {
		t.Fatal("expected league table to be found")
	}

	rows := table.Rows(7)
	if len(rows) != 2 {
		t.Fatalf("expected 2 league rows, got %d", len(rows))
	}
	if got := rows[0].Text(5); got != "Bezirksliga A (Staffel Süd)" {
		t.Errorf("unexpected league name: %q", got)
	}
}

func TestFindTokenOrderIrrelevant(t *testing.T) {
	doc := loadFixture(t, "leagues_page1.html")

	if _, ok := Find(doc, "Liganame", "Klasse", "Alter"); !ok {
		t.Error("token order must not affect the match")
	}
}

func TestFindReportsDrift(t *testing.T) {
	doc := loadFixture(t, "no_table.html")

	table, ok := Find(doc, "Klasse", "Alter", "Liganame")
	if ok || table != nil {
		t.Error("expected NotFound on a page without a matching table")
	}
}

func TestRowsDiscardShortRows(t *testing.T) {
	doc := loadFixture(t, "teams.html")

	table, ok := Find(doc, "Rang", "Name")
	if !ok {
		t.Fatal("expected team table to be found")
	}

	// The decoy table's single-cell rows must not leak in; minCols filters
	// rows, not tables, so ask for the team shape.
	rows := table.Rows(2)
	if len(rows) != 3 {
		t.Fatalf("expected 3 team rows, got %d", len(rows))
	}
}

func TestStruck(t *testing.T) {
	doc := loadFixture(t, "teams.html")

	table, _ := Find(doc, "Rang", "Name")
	rows := table.Rows(2)

	if rows[1].Struck(1) {
		t.Error("active team flagged as struck")
	}
	if !rows[2].Struck(1) {
		t.Error("withdrawn team not flagged as struck")
	}
}

func TestHrefParam(t *testing.T) {
	doc := loadFixture(t, "leagues_page1.html")

	table, _ := Find(doc, "Klasse", "Alter", "Liganame")
	rows := table.Rows(7)

	id, ok := rows[0].HrefParam(6, "Action=107", "liga_id")
	if !ok {
		t.Fatal("expected liga_id to be extracted from the table link")
	}
	if id != "47900" {
		t.Errorf("expected liga_id 47900, got %q", id)
	}

	// The schedule link in the same cell carries a different Action marker.
	if _, ok := rows[0].HrefParam(6, "Action=999", "liga_id"); ok {
		t.Error("expected no match for an absent href marker")
	}

	if _, ok := rows[0].HrefParam(0, "Action=107", "liga_id"); ok {
		t.Error("expected no match in a cell without links")
	}
}
