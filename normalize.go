package main

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TraineeRecord is one active-roster row after normalization. Email is the
// canonical key, lowercased and trimmed; an empty string means no email.
type TraineeRecord struct {
	Email      string
	FirstName  string
	LastName   string
	Program    string
	AdminEmail string
	Status     string
}

// HoursEntry is one logged shift from the hours extract.
type HoursEntry struct {
	Email         string
	FirstName     string
	LastName      string
	Program       string
	AdminEmail    string
	WorkType      string
	Start         time.Time
	End           time.Time
	InViolation   string
	RulesViolated string
}

// ProgramContact holds director and coordinator contacts for one program.
type ProgramContact struct {
	Program       string
	DirectorFirst string
	DirectorLast  string
	DirectorEmail string
	AdminFirst    string
	AdminLast     string
	AdminEmail    string
}

// sheetData is a raw worksheet: a header row resolved to column indexes
// plus the remaining rows as strings.
type sheetData struct {
	columns map[string]int
	rows    [][]string
}

func newSheetData(rows [][]string) (*sheetData, error) {
	if len(rows) == 0 {
		return nil, errors.New("sheet has no header row")
	}
	return &sheetData{columns: normalizeHeaders(rows[0]), rows: rows[1:]}, nil
}

// column resolves the first matching header alias; source extracts rename
// headers between versions, so every lookup carries the known variants.
func (s *sheetData) column(names ...string) (int, error) {
	if idx, ok := findColumn(s.columns, names); ok {
		return idx, nil
	}
	return -1, fmt.Errorf("missing column %q", names[0])
}

func normalizeHeaders(headers []string) map[string]int {
	result := make(map[string]int, len(headers))
	for idx, header := range headers {
		normalized := normalizeHeader(header)
		if _, exists := result[normalized]; !exists {
			result[normalized] = idx
		}
	}
	return result
}

func normalizeHeader(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, " ", "")
	value = strings.ReplaceAll(value, "_", "")
	value = strings.ReplaceAll(value, "-", "")
	value = strings.ReplaceAll(value, "'", "")
	value = strings.ReplaceAll(value, "/", "")
	return value
}

func findColumn(headers map[string]int, names []string) (int, bool) {
	for _, name := range names {
		if idx, ok := headers[normalizeHeader(name)]; ok {
			return idx, true
		}
	}
	return -1, false
}

func getValue(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// normalizeEmail lowercases and trims an email key. The source system
// exports literal NaN markers for blank cells; those become absent.
func normalizeEmail(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "nan", "none", "n/a":
		return ""
	}
	return value
}

// splitPersonName splits a combined "Last, First" field into its parts.
// A value without a comma is treated as a bare last name.
func splitPersonName(value string) (last string, first string) {
	parts := strings.SplitN(value, ",", 2)
	last = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		first = strings.TrimSpace(parts[1])
	}
	return last, first
}

// parseTimestamp parses the timestamp formats the extracts have been seen
// to carry. Unparsable values yield the zero time rather than an error;
// detections skip entries without a usable start.
func parseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04:05",
		"2006-01-02",
		"01/02/2006 15:04:05",
		"01/02/2006 15:04",
		"01/02/2006",
		"1/2/2006 15:04",
		"1/2/06 15:04",
		"1/2/06",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// parseRoster builds the active-trainee roster, excluding rows whose
// status matches the excluded designation.
func parseRoster(sheet *sheetData, excludedStatus string) ([]TraineeRecord, error) {
	lastIdx, err := sheet.column("Last Name")
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	firstIdx, err := sheet.column("First Name")
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	emailIdx, err := sheet.column("Person's Primary E-Mail Address", "Trainee Email", "Email")
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	programIdx, err := sheet.column("Program")
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	statusIdx, err := sheet.column("Status")
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	adminIdx, err := sheet.column("Person's Coordinator Email", "Program Admin Email")
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}

	var roster []TraineeRecord
	for _, row := range sheet.rows {
		status := getValue(row, statusIdx)
		if status == excludedStatus {
			continue
		}
		roster = append(roster, TraineeRecord{
			Email:      normalizeEmail(getValue(row, emailIdx)),
			FirstName:  getValue(row, firstIdx),
			LastName:   getValue(row, lastIdx),
			Program:    getValue(row, programIdx),
			AdminEmail: normalizeEmail(getValue(row, adminIdx)),
			Status:     status,
		})
	}
	return roster, nil
}

// parseHours builds the logged-shift table. The combined Person field is
// split into trainee first/last names; its absence is a schema error.
func parseHours(sheet *sheetData) ([]HoursEntry, error) {
	personIdx, err := sheet.column("Person")
	if err != nil {
		return nil, fmt.Errorf("hours: %w", err)
	}
	emailIdx, err := sheet.column("Person's Primary E-Mail Address", "Trainee Email", "Email")
	if err != nil {
		return nil, fmt.Errorf("hours: %w", err)
	}
	programIdx, err := sheet.column("Program")
	if err != nil {
		return nil, fmt.Errorf("hours: %w", err)
	}
	workTypeIdx, err := sheet.column("Work Type")
	if err != nil {
		return nil, fmt.Errorf("hours: %w", err)
	}
	startIdx, err := sheet.column("Start Date/Time", "Actual Start")
	if err != nil {
		return nil, fmt.Errorf("hours: %w", err)
	}
	endIdx, err := sheet.column("End Date/Time", "Actual End")
	if err != nil {
		return nil, fmt.Errorf("hours: %w", err)
	}
	violationIdx, err := sheet.column("In Violation")
	if err != nil {
		return nil, fmt.Errorf("hours: %w", err)
	}
	rulesIdx, err := sheet.column("Rules Violated")
	if err != nil {
		return nil, fmt.Errorf("hours: %w", err)
	}
	adminIdx, err := sheet.column("Person's Coordinator Email", "Program Admin Email")
	if err != nil {
		return nil, fmt.Errorf("hours: %w", err)
	}

	var entries []HoursEntry
	for _, row := range sheet.rows {
		last, first := splitPersonName(getValue(row, personIdx))
		entries = append(entries, HoursEntry{
			Email:         normalizeEmail(getValue(row, emailIdx)),
			FirstName:     first,
			LastName:      last,
			Program:       getValue(row, programIdx),
			AdminEmail:    normalizeEmail(getValue(row, adminIdx)),
			WorkType:      getValue(row, workTypeIdx),
			Start:         parseTimestamp(getValue(row, startIdx)),
			End:           parseTimestamp(getValue(row, endIdx)),
			InViolation:   getValue(row, violationIdx),
			RulesViolated: getValue(row, rulesIdx),
		})
	}
	return entries, nil
}

// parseDirectory builds the program-director/coordinator directory,
// keeping the first row seen per program.
func parseDirectory(sheet *sheetData) ([]ProgramContact, error) {
	programIdx, err := sheet.column("program")
	if err != nil {
		return nil, fmt.Errorf("directory: %w", err)
	}
	dirFirstIdx, err := sheet.column("programdirector_first_name", "Program Director First Name")
	if err != nil {
		return nil, fmt.Errorf("directory: %w", err)
	}
	dirLastIdx, err := sheet.column("programdirector_last_name", "Program Director Last Name")
	if err != nil {
		return nil, fmt.Errorf("directory: %w", err)
	}
	dirEmailIdx, err := sheet.column("programdirectoremail", "Program Director Email")
	if err != nil {
		return nil, fmt.Errorf("directory: %w", err)
	}
	coordIdx, err := sheet.column("programcoordinator", "Program Coordinator")
	if err != nil {
		return nil, fmt.Errorf("directory: %w", err)
	}
	coordEmailIdx, err := sheet.column("programcoordinatoremail", "Program Admin Email")
	if err != nil {
		return nil, fmt.Errorf("directory: %w", err)
	}

	seen := map[string]bool{}
	var contacts []ProgramContact
	for _, row := range sheet.rows {
		program := getValue(row, programIdx)
		key := programKey(program)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		adminLast, adminFirst := splitPersonName(getValue(row, coordIdx))
		contacts = append(contacts, ProgramContact{
			Program:       program,
			DirectorFirst: getValue(row, dirFirstIdx),
			DirectorLast:  getValue(row, dirLastIdx),
			DirectorEmail: normalizeEmail(getValue(row, dirEmailIdx)),
			AdminFirst:    adminFirst,
			AdminLast:     adminLast,
			AdminEmail:    normalizeEmail(getValue(row, coordEmailIdx)),
		})
	}
	return contacts, nil
}

// programKey is the case/whitespace-normalized join key for program names.
func programKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
