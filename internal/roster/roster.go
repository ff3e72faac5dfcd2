// Package roster reads an uploaded club roster at the minimal schema the
// reconciler needs: lastname, firstname, birthdate. Richer ingestion
// (spreadsheets, column mapping UIs) belongs to an outer collaborator; this
// package only covers the CSV shape the CLI accepts.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mhartmann/auswaerts/internal/reconcile"
)

// Column captions as German club exports label them. Matching is
// case-insensitive.
var columnAliases = map[string]string{
	"nachname":     "lastname",
	"lastname":     "lastname",
	"vorname":      "firstname",
	"firstname":    "firstname",
	"geburtsdatum": "birthdate",
	"birthdate":    "birthdate",
}

// Read parses a roster CSV with a header row. Separator is auto-detected
// between comma and semicolon, which German spreadsheet exports use.
// Rows with missing fields are skipped and counted.
func Read(r io.Reader) ([]reconcile.Entry, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("reading roster: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = detectSeparator(string(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("parsing roster CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("roster file is empty")
	}

	cols, err := mapColumns(records[0])
	if err != nil {
		return nil, 0, err
	}

	var entries []reconcile.Entry
	skipped := 0
	for _, record := range records[1:] {
		entry := reconcile.Entry{
			Lastname:  field(record, cols["lastname"]),
			Firstname: field(record, cols["firstname"]),
			Birthdate: field(record, cols["birthdate"]),
		}
		if entry.Lastname == "" || entry.Firstname == "" || entry.Birthdate == "" {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped, nil
}

// ReadFile reads a roster CSV from disk.
func ReadFile(path string) ([]reconcile.Entry, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening roster file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int)
	for i, caption := range header {
		if name, ok := columnAliases[strings.ToLower(strings.TrimSpace(caption))]; ok {
			if _, dup := cols[name]; !dup {
				cols[name] = i
			}
		}
	}
	for _, required := range []string{"lastname", "firstname", "birthdate"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("roster is missing a %s column", required)
		}
	}
	return cols, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func detectSeparator(data string) rune {
	head := data
	if i := strings.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	if strings.Count(head, ";") > strings.Count(head, ",") {
		return ';'
	}
	return ','
}
