package htmltable

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Portal CSS hooks. These classes are incidental markup, not a contract; a
// page where they stop matching is reported as structural drift by callers.
const (
	tableSelector  = "table.sportView"
	headerSelector = "td.sportViewHeader"
	itemSelector   = "td.sportItemEven, td.sportItemOdd"
)

// Table is one located data table.
type Table struct {
	sel *goquery.Selection
}

// Row is one body row of a located table, decoded positionally.
type Row struct {
	cells *goquery.Selection
}

// Find locates the table whose header row contains every required token.
// Header rows may carry extra decorative cells; the match is a subset test,
// never an exact one. The second return is false when no table matches,
// which callers treat as structural drift rather than an error.
func Find(doc *goquery.Document, required ...string) (*Table, bool) {
	var found *Table

	doc.Find(tableSelector).EachWithBreak(func(_ int, table *goquery.Selection) bool {
		headers := headerTokens(table)
		if len(headers) == 0 {
			return true
		}
		for _, want := range required {
			if !headers[want] {
				return true
			}
		}
		found = &Table{sel: table}
		return false
	})

	return found, found != nil
}

func headerTokens(table *goquery.Selection) map[string]bool {
	tokens := make(map[string]bool)
	table.Find(headerSelector).Each(func(_ int, cell *goquery.Selection) {
		text := strings.TrimSpace(cell.Text())
		if text != "" {
			tokens[text] = true
		}
	})
	return tokens
}

// Rows returns the body rows that have at least minCols item cells. Rows with
// fewer cells (spacers, section headings) are discarded. Exclusion of struck
// rows is the caller's business rule, applied via Row.Struck.
func (t *Table) Rows(minCols int) []Row {
	var rows []Row
	t.sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find(itemSelector)
		if cells.Length() >= minCols {
			rows = append(rows, Row{cells: cells})
		}
	})
	return rows
}

// Len returns the number of item cells in the row.
func (r Row) Len() int {
	return r.cells.Length()
}

// Text returns the trimmed text of cell i, or "" when out of range.
func (r Row) Text(i int) string {
	return strings.TrimSpace(r.cells.Eq(i).Text())
}

// Struck reports whether cell i is rendered struck through, the portal's
// marker for withdrawn teams and cancelled games.
func (r Row) Struck(i int) bool {
	return r.cells.Eq(i).Find("strike, s, del").Length() > 0
}

// HrefParam finds the first hyperlink in cell i whose target contains marker,
// and returns the named query parameter from it. Every identifier in this
// domain is smuggled through an href rather than surfaced as visible text.
func (r Row) HrefParam(i int, marker, param string) (string, bool) {
	var value string
	var ok bool

	r.cells.Eq(i).Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if !strings.Contains(href, marker) {
			return true
		}
		v, found := queryParam(href, param)
		if !found {
			return true
		}
		value, ok = v, true
		return false
	})

	return value, ok
}

func queryParam(href, param string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	values := u.Query()
	if _, present := values[param]; !present {
		return "", false
	}
	return values.Get(param), true
}
