package main

import (
	"strings"
	"testing"
)

func testDirectory() []ProgramContact {
	return []ProgramContact{
		{
			Program:       "A",
			DirectorFirst: "Dana",
			DirectorLast:  "Director",
			DirectorEmail: "dana@x.com",
			AdminFirst:    "Carl",
			AdminLast:     "Coordinator",
			AdminEmail:    "carl@x.com",
		},
	}
}

func testFlagged() []FlaggedTrainee {
	return []FlaggedTrainee{
		{
			Email:      "alice@x.com",
			Identity:   traineeIdentity{FirstName: "Alice", LastName: "Adams", Program: "A", AdminEmail: "admin@x.com"},
			Violations: []string{"01/06/2026 80 Hr Rule"},
		},
		{
			Email:        "bob@x.com",
			Identity:     traineeIdentity{FirstName: "Bob", LastName: "Brown", Program: "A", AdminEmail: "admin@x.com"},
			MissingWeeks: []string{"2026-01-04 to 2026-01-10"},
		},
		{
			Email:    "carol@x.com",
			Identity: traineeIdentity{FirstName: "Carol", LastName: "Clark", Program: "B"},
			OnCall:   true,
		},
	}
}

func TestBuildReportJoinsDirectory(t *testing.T) {
	report := buildReport(testFlagged(), testDirectory(), Config{})

	if len(report.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(report.Rows))
	}

	alice := report.Rows[0]
	if alice.DirectorEmail != "dana@x.com" || alice.CoordLast != "Coordinator" {
		t.Fatalf("expected directory contacts joined, got %+v", alice)
	}
	if alice.Violations != "01/06/2026 80 Hr Rule" {
		t.Fatalf("unexpected violations cell %q", alice.Violations)
	}

	// Program B has no directory row: trainee kept, contacts empty.
	carol := report.Rows[2]
	if carol.Email != "carol@x.com" {
		t.Fatalf("expected carol last, got %s", carol.Email)
	}
	if carol.DirectorEmail != "" || carol.CoordEmail != "" {
		t.Fatalf("expected empty contacts for unmatched program, got %+v", carol)
	}
}

func TestBuildReportDirectoryJoinNormalizesProgram(t *testing.T) {
	flagged := []FlaggedTrainee{{
		Email:    "alice@x.com",
		Identity: traineeIdentity{Program: "  a "},
		OnCall:   true,
	}}

	report := buildReport(flagged, testDirectory(), Config{})
	if len(report.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(report.Rows))
	}
	if report.Rows[0].DirectorEmail != "dana@x.com" {
		t.Fatalf("expected case/whitespace-insensitive join, got %+v", report.Rows[0])
	}
}

func TestBuildReportPilotFilter(t *testing.T) {
	cfg := Config{PilotOnly: true, PilotPrograms: []string{"A"}}
	report := buildReport(testFlagged(), testDirectory(), cfg)

	if len(report.Rows) != 2 {
		t.Fatalf("expected pilot filter to keep 2 rows, got %d", len(report.Rows))
	}
	for _, row := range report.Rows {
		if row.Program != "A" {
			t.Fatalf("unexpected program %q in pilot output", row.Program)
		}
	}
}

func TestBuildReportProgramMarkerFilter(t *testing.T) {
	flagged := []FlaggedTrainee{
		{Email: "a@x.com", Identity: traineeIdentity{Program: "MED-Cardiology-ACGME"}, OnCall: true},
		{Email: "b@x.com", Identity: traineeIdentity{Program: "Surgery-Non-Standard"}, OnCall: true},
	}
	report := buildReport(flagged, nil, Config{ProgramMarker: "ACGME"})

	if len(report.Rows) != 1 || report.Rows[0].Email != "a@x.com" {
		t.Fatalf("expected only the marked program, got %+v", report.Rows)
	}
}

func TestBuildReportExcludesTestAccounts(t *testing.T) {
	cfg := Config{ExcludeEmails: []string{"bob@x.com"}}
	report := buildReport(testFlagged(), testDirectory(), cfg)

	for _, row := range report.Rows {
		if row.Email == "bob@x.com" {
			t.Fatalf("excluded account present in output")
		}
	}
}

func TestProgramCountsAndSummary(t *testing.T) {
	report := buildReport(testFlagged(), testDirectory(), Config{})

	if len(report.ProgramCounts) != 2 {
		t.Fatalf("expected 2 programs, got %d", len(report.ProgramCounts))
	}
	first := report.ProgramCounts[0]
	if first.Program != "A" || first.Count != 2 {
		t.Fatalf("expected A with 2 trainees, got %+v", first)
	}
	if first.Contact.DirectorEmail != "dana@x.com" {
		t.Fatalf("expected directory contact on count row, got %+v", first.Contact)
	}
	second := report.ProgramCounts[1]
	if second.Program != "B" || second.Count != 1 {
		t.Fatalf("expected B with 1 trainee, got %+v", second)
	}

	lines := strings.Split(report.Summary, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 summary lines, got %q", report.Summary)
	}
	if lines[0] != "A → 2 trainees" {
		t.Fatalf("unexpected summary line %q", lines[0])
	}
	if lines[1] != "B → 1 trainees" {
		t.Fatalf("unexpected summary line %q", lines[1])
	}
}

func TestBuildReportEmptyInput(t *testing.T) {
	report := buildReport(nil, testDirectory(), Config{})
	if len(report.Rows) != 0 || len(report.ProgramCounts) != 0 || report.Summary != "" {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
