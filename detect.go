package main

import (
	"sort"
	"strings"
)

// IssueRecord accumulates one trainee's findings across all scanned
// periods. A record with no findings is never reported.
type IssueRecord struct {
	OnCall       bool
	Violations   map[string]bool
	MissingWeeks map[string]bool
}

func newIssueRecord() *IssueRecord {
	return &IssueRecord{
		Violations:   map[string]bool{},
		MissingWeeks: map[string]bool{},
	}
}

func (r *IssueRecord) hasIssue() bool {
	return r.OnCall || len(r.Violations) > 0 || len(r.MissingWeeks) > 0
}

// merge folds another record into this one. Merging is commutative over
// set union and the sticky on-call flag, so scan order never changes the
// outcome.
func (r *IssueRecord) merge(other *IssueRecord) {
	if other == nil {
		return
	}
	r.OnCall = r.OnCall || other.OnCall
	for key := range other.Violations {
		r.Violations[key] = true
	}
	for key := range other.MissingWeeks {
		r.MissingWeeks[key] = true
	}
}

// traineeIdentity is the display info attached to a flagged email.
type traineeIdentity struct {
	FirstName  string
	LastName   string
	Program    string
	AdminEmail string
}

// FlaggedTrainee is one trainee's consolidated findings, rendered with
// deterministic ordering.
type FlaggedTrainee struct {
	Email        string
	Identity     traineeIdentity
	OnCall       bool
	Violations   []string
	MissingWeeks []string
}

// Detector scans hours entries period by period and accumulates issues
// keyed by trainee email. Roster identities are preferred; an email absent
// from the roster takes its identity from the first hours entry that
// referenced it.
type Detector struct {
	onCallMarker   string
	minCoveredDays int

	rosterEmails map[string]bool
	identity     map[string]traineeIdentity
	issues       map[string]*IssueRecord
}

func newDetector(roster []TraineeRecord, onCallMarker string, minCoveredDays int) *Detector {
	d := &Detector{
		onCallMarker:   strings.ToLower(onCallMarker),
		minCoveredDays: minCoveredDays,
		rosterEmails:   map[string]bool{},
		identity:       map[string]traineeIdentity{},
		issues:         map[string]*IssueRecord{},
	}
	for _, trainee := range roster {
		if trainee.Email == "" {
			continue
		}
		d.rosterEmails[trainee.Email] = true
		if _, ok := d.identity[trainee.Email]; !ok {
			d.identity[trainee.Email] = traineeIdentity{
				FirstName:  trainee.FirstName,
				LastName:   trainee.LastName,
				Program:    trainee.Program,
				AdminEmail: trainee.AdminEmail,
			}
		}
	}
	return d
}

func (d *Detector) issueFor(email string) *IssueRecord {
	record, ok := d.issues[email]
	if !ok {
		record = newIssueRecord()
		d.issues[email] = record
	}
	return record
}

func (d *Detector) rememberIdentity(entry HoursEntry) {
	if entry.Email == "" {
		return
	}
	if _, ok := d.identity[entry.Email]; ok {
		return
	}
	d.identity[entry.Email] = traineeIdentity{
		FirstName:  entry.FirstName,
		LastName:   entry.LastName,
		Program:    entry.Program,
		AdminEmail: entry.AdminEmail,
	}
}

// ScanPeriod runs the three detections over the entries whose shift start
// falls inside the period. Entries without a parsable start are ignored.
func (d *Detector) ScanPeriod(entries []HoursEntry, period Period) {
	seen := map[string]bool{}
	coveredDays := map[string]map[string]bool{}

	for _, entry := range entries {
		if entry.Start.IsZero() || !period.contains(entry.Start) {
			continue
		}
		if entry.Email == "" {
			continue
		}
		d.rememberIdentity(entry)
		seen[entry.Email] = true

		if d.onCallMarker != "" && strings.Contains(strings.ToLower(entry.WorkType), d.onCallMarker) {
			d.issueFor(entry.Email).OnCall = true
		}

		switch strings.ToLower(strings.TrimSpace(entry.InViolation)) {
		case "yes", "y":
			message := strings.TrimSpace(entry.Start.Format("01/02/2006") + " " + strings.TrimSpace(entry.RulesViolated))
			d.issueFor(entry.Email).Violations[message] = true
		}

		days := coveredDays[entry.Email]
		if days == nil {
			days = map[string]bool{}
			coveredDays[entry.Email] = days
		}
		for _, day := range shiftDays(entry) {
			days[day] = true
		}
	}

	// Roster trainees with no entries at all this period.
	for email := range d.rosterEmails {
		if !seen[email] {
			d.issueFor(email).MissingWeeks[period.Label] = true
		}
	}

	// Trainees with entries but too few distinct covered days.
	for email, days := range coveredDays {
		if len(days) < d.minCoveredDays {
			d.issueFor(email).MissingWeeks[period.Label] = true
		}
	}
}

// shiftDays expands a shift into the calendar days it spans, inclusive of
// both endpoints. An end before the start counts as a single day; a shift
// without a parsable end covers no days.
func shiftDays(entry HoursEntry) []string {
	if entry.Start.IsZero() || entry.End.IsZero() {
		return nil
	}
	start := dateOnly(entry.Start)
	end := dateOnly(entry.End)
	if end.Before(start) {
		return []string{start.Format("2006-01-02")}
	}
	var days []string
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day.Format("2006-01-02"))
	}
	return days
}

// Flagged returns every trainee with at least one finding, sorted by
// email, with violation and missing-week sets rendered sorted.
func (d *Detector) Flagged() []FlaggedTrainee {
	emails := make([]string, 0, len(d.issues))
	for email, record := range d.issues {
		if record.hasIssue() {
			emails = append(emails, email)
		}
	}
	sort.Strings(emails)

	flagged := make([]FlaggedTrainee, 0, len(emails))
	for _, email := range emails {
		record := d.issues[email]
		flagged = append(flagged, FlaggedTrainee{
			Email:        email,
			Identity:     d.identity[email],
			OnCall:       record.OnCall,
			Violations:   sortedKeys(record.Violations),
			MissingWeeks: sortedKeys(record.MissingWeeks),
		})
	}
	return flagged
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
