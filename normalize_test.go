package main

import (
	"strings"
	"testing"
	"time"
)

func TestSplitPersonName(t *testing.T) {
	cases := []struct {
		value string
		last  string
		first string
	}{
		{"Adams, Alice", "Adams", "Alice"},
		{" Brown ,  Bob ", "Brown", "Bob"},
		{"Clark", "Clark", ""},
		{"Della Rossa, Ana Maria", "Della Rossa", "Ana Maria"},
	}
	for _, tc := range cases {
		last, first := splitPersonName(tc.value)
		if last != tc.last || first != tc.first {
			t.Fatalf("splitPersonName(%q): expected (%q, %q), got (%q, %q)",
				tc.value, tc.last, tc.first, last, first)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		" Alice@X.COM ": "alice@x.com",
		"nan":           "",
		"NaN":           "",
		"":              "",
		"bob@x.com":     "bob@x.com",
	}
	for value, want := range cases {
		if got := normalizeEmail(value); got != want {
			t.Fatalf("normalizeEmail(%q): expected %q, got %q", value, want, got)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2026, time.January, 5, 8, 30, 0, 0, time.UTC)
	cases := []string{
		"2026-01-05 08:30:00",
		"01/05/2026 08:30",
		"1/5/26 8:30",
	}
	for _, value := range cases {
		got := parseTimestamp(value)
		if !got.Equal(want) {
			t.Fatalf("parseTimestamp(%q): expected %s, got %s", value, want, got)
		}
	}

	if !parseTimestamp("not a date").IsZero() {
		t.Fatalf("expected zero time for unparsable value")
	}
	if !parseTimestamp("").IsZero() {
		t.Fatalf("expected zero time for empty value")
	}
}

func rosterSheet(rows ...[]string) *sheetData {
	header := []string{
		"ID Number", "Last Name", "First Name",
		"Person's Primary E-Mail Address", "Program", "Status",
		"Person's Coordinator Email",
	}
	sheet, err := newSheetData(append([][]string{header}, rows...))
	if err != nil {
		panic(err)
	}
	return sheet
}

func TestParseRoster(t *testing.T) {
	sheet := rosterSheet(
		[]string{"1", "Adams", "Alice", "Alice@X.com", "A", "Resident", "Admin@X.com"},
		[]string{"2", "Brown", "Bob", "bob@x.com", "A", "Chief Resident", "admin@x.com"},
		[]string{"3", "Clark", "Carol", "nan", "B", "Fellow", ""},
	)

	roster, err := parseRoster(sheet, "Chief Resident")
	if err != nil {
		t.Fatalf("parse roster: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("expected chief resident excluded, got %d rows", len(roster))
	}
	if roster[0].Email != "alice@x.com" || roster[0].AdminEmail != "admin@x.com" {
		t.Fatalf("expected lowercased emails, got %+v", roster[0])
	}
	if roster[1].Email != "" {
		t.Fatalf("expected NaN email treated as absent, got %q", roster[1].Email)
	}
}

func TestParseRosterMissingColumn(t *testing.T) {
	sheet, err := newSheetData([][]string{{"Last Name", "First Name", "Program"}})
	if err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	if _, err := parseRoster(sheet, "Chief Resident"); err == nil {
		t.Fatalf("expected error for missing columns")
	} else if !strings.Contains(err.Error(), "missing column") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestParseHours(t *testing.T) {
	header := []string{
		"Person", "Status", "Program", "Work Type",
		"Start Date/Time", "End Date/Time", "In Violation", "Rules Violated",
		"Person's Coordinator Email", "Person's Primary E-Mail Address",
	}
	rows := [][]string{
		header,
		{"Adams, Alice", "Resident", "A", "ResQ Working",
			"2026-01-05 08:00:00", "2026-01-05 18:00:00", "No", "",
			"ADMIN@x.com", "ALICE@x.com"},
		{"Brown, Bob", "Resident", "A", "Clinical Duty",
			"garbage", "", "Yes", "80 Hr Rule",
			"admin@x.com", "bob@x.com"},
	}
	sheet, err := newSheetData(rows)
	if err != nil {
		t.Fatalf("new sheet: %v", err)
	}

	entries, err := parseHours(sheet)
	if err != nil {
		t.Fatalf("parse hours: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	alice := entries[0]
	if alice.FirstName != "Alice" || alice.LastName != "Adams" {
		t.Fatalf("expected split person name, got %+v", alice)
	}
	if alice.Email != "alice@x.com" || alice.AdminEmail != "admin@x.com" {
		t.Fatalf("expected lowercased emails, got %+v", alice)
	}
	if alice.Start.IsZero() || alice.End.IsZero() {
		t.Fatalf("expected parsed timestamps, got %+v", alice)
	}

	bob := entries[1]
	if !bob.Start.IsZero() {
		t.Fatalf("expected unparsable start coerced to zero, got %s", bob.Start)
	}
}

func TestParseHoursMissingPersonColumn(t *testing.T) {
	sheet, err := newSheetData([][]string{{"Program", "Work Type"}})
	if err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	if _, err := parseHours(sheet); err == nil {
		t.Fatalf("expected error for missing Person column")
	}
}

func TestParseDirectory(t *testing.T) {
	header := []string{
		"program", "programtype", "department",
		"programdirector_first_name", "programdirector_last_name",
		"programdirector", "programdirectoremail",
		"programcoordinator", "programcoordinatoremail",
	}
	rows := [][]string{
		header,
		{"A", "ACGME", "Med", "Dana", "Director", "Director, Dana", "Dana@X.com",
			"Coordinator, Carl", "Carl@X.com"},
		{"a ", "ACGME", "Med", "Other", "Person", "Person, Other", "other@x.com",
			"", ""},
		{"B", "ACGME", "Med", "Dave", "Director", "Director, Dave", "dave@x.com",
			"Kim, Casey", "casey@x.com"},
	}
	sheet, err := newSheetData(rows)
	if err != nil {
		t.Fatalf("new sheet: %v", err)
	}

	contacts, err := parseDirectory(sheet)
	if err != nil {
		t.Fatalf("parse directory: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected one row per program, got %d", len(contacts))
	}

	first := contacts[0]
	if first.DirectorEmail != "dana@x.com" {
		t.Fatalf("expected first row kept for duplicate program, got %+v", first)
	}
	if first.AdminFirst != "Carl" || first.AdminLast != "Coordinator" {
		t.Fatalf("expected coordinator name split, got %+v", first)
	}
}

func TestNewSheetDataEmpty(t *testing.T) {
	if _, err := newSheetData(nil); err == nil {
		t.Fatalf("expected error for empty sheet")
	}
}
