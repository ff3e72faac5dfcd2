package roster

import (
	"strings"
	"testing"
)

func TestReadCommaSeparated(t *testing.T) {
	input := "Nachname,Vorname,Geburtsdatum\n" +
		"Müller,Anna Maria,01.01.2000\n" +
		"Schmidt,Lena,23.11.1999\n"

	entries, skipped, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if skipped != 0 {
		t.Errorf("expected no skipped rows, got %d", skipped)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Lastname != "Müller" || entries[0].Firstname != "Anna Maria" || entries[0].Birthdate != "01.01.2000" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestReadSemicolonSeparated(t *testing.T) {
	// German spreadsheet exports use semicolons, with extra columns mixed in.
	input := "Vorname;Nachname;Trikot;Geburtsdatum\n" +
		"Anna;Müller;7;01.01.2000\n"

	entries, _, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Lastname != "Müller" || entries[0].Birthdate != "01.01.2000" {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
}

func TestReadSkipsIncompleteRows(t *testing.T) {
	input := "Nachname,Vorname,Geburtsdatum\n" +
		"Müller,Anna,01.01.2000\n" +
		"Schmidt,,23.11.1999\n" +
		"Weber,Tina,\n"

	entries, skipped, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 valid entry, got %d", len(entries))
	}
	if skipped != 2 {
		t.Errorf("expected 2 skipped rows, got %d", skipped)
	}
}

func TestReadMissingColumn(t *testing.T) {
	input := "Nachname,Vorname\nMüller,Anna\n"

	if _, _, err := Read(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for roster without birthdate column")
	}
}
