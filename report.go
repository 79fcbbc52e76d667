package main

import (
	"fmt"
	"sort"
	"strings"
)

// ReportRow is one detail-sheet row for a flagged trainee, with director
// and coordinator contacts joined from the program directory.
type ReportRow struct {
	Email         string
	FirstName     string
	LastName      string
	Program       string
	AdminEmail    string
	OnCall        bool
	Violations    string
	MissingWeeks  string
	DirectorFirst string
	DirectorLast  string
	DirectorEmail string
	CoordFirst    string
	CoordLast     string
	CoordEmail    string
}

// ProgramCount is one program's flagged-trainee tally with its directory
// contacts.
type ProgramCount struct {
	Program string
	Count   int
	Contact ProgramContact
}

// Report is the consolidated run output.
type Report struct {
	Rows          []ReportRow
	ProgramCounts []ProgramCount
	Summary       string
}

// buildReport consolidates flagged trainees into the final report: one row
// per trainee sorted by email, directory contacts left-joined on the
// normalized program name, and the configured program filters applied.
func buildReport(flagged []FlaggedTrainee, directory []ProgramContact, cfg Config) Report {
	contacts := map[string]ProgramContact{}
	for _, contact := range directory {
		key := programKey(contact.Program)
		if _, ok := contacts[key]; !ok {
			contacts[key] = contact
		}
	}

	pilots := map[string]bool{}
	for _, program := range cfg.PilotPrograms {
		pilots[programKey(program)] = true
	}
	excluded := map[string]bool{}
	for _, email := range cfg.ExcludeEmails {
		excluded[email] = true
	}

	var rows []ReportRow
	for _, trainee := range flagged {
		if excluded[trainee.Email] {
			continue
		}
		program := strings.TrimSpace(trainee.Identity.Program)
		if cfg.ProgramMarker != "" && !strings.Contains(program, cfg.ProgramMarker) {
			continue
		}
		if cfg.PilotOnly && !pilots[programKey(program)] {
			continue
		}

		row := ReportRow{
			Email:        trainee.Email,
			FirstName:    trainee.Identity.FirstName,
			LastName:     trainee.Identity.LastName,
			Program:      program,
			AdminEmail:   trainee.Identity.AdminEmail,
			OnCall:       trainee.OnCall,
			Violations:   strings.Join(trainee.Violations, ", "),
			MissingWeeks: strings.Join(trainee.MissingWeeks, ", "),
		}
		if contact, ok := contacts[programKey(program)]; ok {
			row.DirectorFirst = contact.DirectorFirst
			row.DirectorLast = contact.DirectorLast
			row.DirectorEmail = contact.DirectorEmail
			row.CoordFirst = contact.AdminFirst
			row.CoordLast = contact.AdminLast
			row.CoordEmail = contact.AdminEmail
		}
		rows = append(rows, row)
	}

	return Report{
		Rows:          rows,
		ProgramCounts: buildProgramCounts(rows, contacts),
		Summary:       buildSummary(rows),
	}
}

func buildProgramCounts(rows []ReportRow, contacts map[string]ProgramContact) []ProgramCount {
	counts := map[string]int{}
	names := map[string]string{}
	for _, row := range rows {
		program := row.Program
		if program == "" {
			program = "Unassigned"
		}
		key := programKey(program)
		counts[key]++
		if _, ok := names[key]; !ok {
			names[key] = program
		}
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return names[keys[i]] < names[keys[j]] })

	result := make([]ProgramCount, 0, len(keys))
	for _, key := range keys {
		result = append(result, ProgramCount{
			Program: names[key],
			Count:   counts[key],
			Contact: contacts[key],
		})
	}
	return result
}

// buildSummary renders one line per program with at least one flagged
// trainee, joined by newlines.
func buildSummary(rows []ReportRow) string {
	counts := buildProgramCounts(rows, nil)
	lines := make([]string, 0, len(counts))
	for _, entry := range counts {
		lines = append(lines, fmt.Sprintf("%s → %d trainees", entry.Program, entry.Count))
	}
	return strings.Join(lines, "\n")
}
