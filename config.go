package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	rosterFileName    = "active.xlsx"
	hoursFileName     = "hours.xlsx"
	directoryFileName = "PD_and_PA_report_list.xlsx"

	defaultOnCallMarker   = "ResQ"
	defaultExcludedStatus = "Chief Resident"
	defaultMinCoveredDays = 5
)

// Config is the environment-driven configuration surface. Flags may
// override individual fields after loading.
type Config struct {
	BaseDir        string
	OutputPrefix   string
	OnCallMarker   string
	ExcludedStatus string
	MinCoveredDays int
	PilotOnly      bool
	PilotPrograms  []string
	ProgramMarker  string
	ExcludeEmails  []string
}

func loadConfig() (Config, error) {
	cfg := Config{
		BaseDir:        strings.TrimSpace(os.Getenv("GME_COMPLIANCE_DIR")),
		OutputPrefix:   strings.TrimSpace(os.Getenv("GME_OUTPUT_PREFIX")),
		OnCallMarker:   defaultOnCallMarker,
		ExcludedStatus: defaultExcludedStatus,
		MinCoveredDays: defaultMinCoveredDays,
	}

	if value := strings.TrimSpace(os.Getenv("GME_ONCALL_MARKER")); value != "" {
		cfg.OnCallMarker = value
	}
	if value := strings.TrimSpace(os.Getenv("GME_EXCLUDED_STATUS")); value != "" {
		cfg.ExcludedStatus = value
	}
	if value := strings.TrimSpace(os.Getenv("GME_MIN_COVERED_DAYS")); value != "" {
		days, err := strconv.Atoi(value)
		if err != nil || days <= 0 {
			return Config{}, fmt.Errorf("invalid GME_MIN_COVERED_DAYS: %s", value)
		}
		cfg.MinCoveredDays = days
	}

	cfg.PilotOnly = envBool("GME_PILOT_ONLY")
	cfg.PilotPrograms = envList("GME_PILOT_PROGRAMS")
	if cfg.PilotOnly && len(cfg.PilotPrograms) == 0 {
		return Config{}, errors.New("GME_PILOT_ONLY is set but GME_PILOT_PROGRAMS is empty")
	}

	cfg.ProgramMarker = strings.TrimSpace(os.Getenv("GME_PROGRAM_MARKER"))
	for _, email := range envList("GME_EXCLUDE_EMAILS") {
		cfg.ExcludeEmails = append(cfg.ExcludeEmails, strings.ToLower(email))
	}

	return cfg, nil
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func envList(name string) []string {
	raw := os.Getenv(name)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func dbURLFromEnv() string {
	if value := strings.TrimSpace(os.Getenv("GME_COMPLIANCE_DB_URL")); value != "" {
		return value
	}
	return strings.TrimSpace(os.Getenv("DATABASE_URL"))
}
