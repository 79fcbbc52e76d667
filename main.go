package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	modeWeekly  = "weekly"
	modeMonthly = "monthly"

	defaultWeeklyPrefix  = "weekly_compliance_email_list"
	defaultMonthlyPrefix = "monthly_compliance_email_list"
)

func main() {
	mode := flag.String("mode", modeWeekly, "Report mode: weekly or monthly")
	dir := flag.String("dir", "", "Base working directory (overrides GME_COMPLIANCE_DIR)")
	asOf := flag.String("as-of", "", "Run as-of date (YYYY-MM-DD); defaults to today")
	dbEnabled := flag.Bool("db", false, "Store the run in Postgres (requires GME_COMPLIANCE_DB_URL or DATABASE_URL)")
	dbSchema := flag.String("db-schema", "gme_compliance", "Postgres schema for run-history tables")
	dbTag := flag.String("db-tag", "", "Optional label for this run")
	initDB := flag.Bool("init-db", false, "Initialize database schema and seed with this run if empty")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		exitWithError(err)
	}
	if *dir != "" {
		cfg.BaseDir = *dir
	}
	if cfg.BaseDir == "" {
		exitWithError(errors.New("base directory missing; set GME_COMPLIANCE_DIR or pass -dir"))
	}

	if *mode != modeWeekly && *mode != modeMonthly {
		exitWithError(fmt.Errorf("invalid -mode value: %s", *mode))
	}

	today := time.Now()
	if *asOf != "" {
		parsed, err := time.Parse("2006-01-02", *asOf)
		if err != nil {
			exitWithError(fmt.Errorf("invalid -as-of date: %w", err))
		}
		today = parsed
	}
	today = dateOnly(today)

	slog.Info("starting compliance processing", "mode", *mode, "as_of", today.Format("2006-01-02"))

	report, info, outputPath, err := run(cfg, *mode, today)
	if err != nil {
		exitWithError(err)
	}

	printRunReport(report, info, outputPath)

	if *dbEnabled || *initDB {
		dbURL := dbURLFromEnv()
		if dbURL == "" {
			exitWithError(errors.New("database URL missing; set GME_COMPLIANCE_DB_URL or DATABASE_URL"))
		}
		dbCfg := DBConfig{URL: dbURL, Schema: *dbSchema, Tag: *dbTag}
		seeded := false
		if *initDB {
			runID, err := seedDatabase(report, info, dbCfg)
			if err != nil {
				exitWithError(err)
			}
			if runID != "" {
				seeded = true
				fmt.Printf("\nSeeded Postgres with initial compliance run (run_id=%s)\n", runID)
			} else {
				fmt.Println("Run data already present; skipping seed.")
			}
		}
		if *dbEnabled {
			if seeded {
				fmt.Println("Skipped duplicate insert; current run already used for seed.")
			} else {
				runID, err := storeRunInDB(report, info, dbCfg)
				if err != nil {
					exitWithError(err)
				}
				fmt.Printf("\nStored compliance run in Postgres (run_id=%s)\n", runID)
			}
		}
	}

	slog.Info("processing complete")
}

// run executes the full pipeline: read and normalize the three extracts,
// compute the reporting periods, detect issues, consolidate, write the
// workbook, then archive the consumed files.
func run(cfg Config, mode string, today time.Time) (Report, RunInfo, string, error) {
	rosterSheet, err := readWorkbook(filepath.Join(cfg.BaseDir, rosterFileName))
	if err != nil {
		return Report{}, RunInfo{}, "", err
	}
	hoursSheet, err := readWorkbook(filepath.Join(cfg.BaseDir, hoursFileName))
	if err != nil {
		return Report{}, RunInfo{}, "", err
	}
	directorySheet, err := readWorkbook(filepath.Join(cfg.BaseDir, directoryFileName))
	if err != nil {
		return Report{}, RunInfo{}, "", err
	}

	roster, err := parseRoster(rosterSheet, cfg.ExcludedStatus)
	if err != nil {
		return Report{}, RunInfo{}, "", err
	}
	hours, err := parseHours(hoursSheet)
	if err != nil {
		return Report{}, RunInfo{}, "", err
	}
	directory, err := parseDirectory(directorySheet)
	if err != nil {
		return Report{}, RunInfo{}, "", err
	}

	var periods []Period
	var info RunInfo
	var outputName string
	switch mode {
	case modeWeekly:
		week := previousWeek(today)
		periods = []Period{week}
		info = RunInfo{Mode: mode, PeriodStart: week.Start, PeriodEnd: week.End}
		outputName = outputPrefix(cfg, defaultWeeklyPrefix) + ".xlsx"
	case modeMonthly:
		monthStart, monthEnd := previousMonth(today)
		periods = monthlyWeeks(monthStart, monthEnd)
		info = RunInfo{Mode: mode, PeriodStart: monthStart, PeriodEnd: monthEnd}
		outputName = fmt.Sprintf("%s_%s.xlsx", outputPrefix(cfg, defaultMonthlyPrefix), monthStart.Format("01_2006"))
	}
	slog.Info("reporting period",
		"start", info.PeriodStart.Format("2006-01-02"),
		"end", info.PeriodEnd.Format("2006-01-02"),
		"weeks", len(periods))

	detector := newDetector(roster, cfg.OnCallMarker, cfg.MinCoveredDays)
	for _, period := range periods {
		detector.ScanPeriod(hours, period)
	}
	report := buildReport(detector.Flagged(), directory, cfg)

	if err := ensureArchiveDirs(cfg.BaseDir); err != nil {
		return Report{}, RunInfo{}, "", err
	}
	archivePreviousOutput(cfg.BaseDir, outputName, referenceDate(today))

	outputPath := filepath.Join(cfg.BaseDir, outputName)
	if err := writeWorkbook(report, outputPath); err != nil {
		return Report{}, RunInfo{}, "", err
	}
	probeWritable(outputPath)

	archiveInputs(cfg.BaseDir, today)

	return report, info, outputPath, nil
}

func outputPrefix(cfg Config, fallback string) string {
	if cfg.OutputPrefix != "" {
		return cfg.OutputPrefix
	}
	return fallback
}

func printRunReport(report Report, info RunInfo, outputPath string) {
	fmt.Println("GME Duty-Hour Compliance Report")
	fmt.Println(strings.Repeat("=", 38))
	fmt.Printf("Mode: %s\n", info.Mode)
	fmt.Printf("Period: %s to %s\n", info.PeriodStart.Format("2006-01-02"), info.PeriodEnd.Format("2006-01-02"))
	fmt.Printf("Flagged trainees: %d\n", len(report.Rows))
	fmt.Printf("Output: %s\n", outputPath)

	if report.Summary != "" {
		fmt.Println("\nProgram summary")
		fmt.Println(strings.Repeat("-", 38))
		fmt.Println(report.Summary)
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
