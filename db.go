package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DBConfig configures the optional run-history store.
type DBConfig struct {
	URL    string
	Schema string
	Tag    string
}

// RunInfo describes the run being stored alongside its report.
type RunInfo struct {
	Mode        string
	PeriodStart time.Time
	PeriodEnd   time.Time
}

var validSchema = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func sanitizeSchema(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New("db schema is required")
	}
	if !validSchema.MatchString(value) {
		return "", fmt.Errorf("invalid schema name: %s", value)
	}
	return value, nil
}

// seedDatabase initializes the schema and stores the current report only
// when no prior runs exist.
func seedDatabase(report Report, info RunInfo, cfg DBConfig) (string, error) {
	schema, err := sanitizeSchema(cfg.Schema)
	if err != nil {
		return "", err
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return "", err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return "", err
	}
	if err := ensureSchema(ctx, db, schema); err != nil {
		return "", err
	}

	var count int
	if err := db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s.compliance_runs`, schema)).Scan(&count); err != nil {
		return "", err
	}
	if count > 0 {
		return "", nil
	}

	return storeRunTx(ctx, db, report, info, schema, cfg.Tag)
}

func storeRunInDB(report Report, info RunInfo, cfg DBConfig) (string, error) {
	schema, err := sanitizeSchema(cfg.Schema)
	if err != nil {
		return "", err
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return "", err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return "", err
	}
	if err := ensureSchema(ctx, db, schema); err != nil {
		return "", err
	}

	return storeRunTx(ctx, db, report, info, schema, cfg.Tag)
}

func storeRunTx(ctx context.Context, db *sql.DB, report Report, info RunInfo, schema string, tag string) (string, error) {
	runID := uuid.New()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s.compliance_runs (
			id, mode, period_start, period_end, flagged_trainees, run_tag
		) VALUES (
			$1,$2,$3,$4,$5,$6
		)`, schema),
		runID,
		info.Mode,
		dateOnly(info.PeriodStart),
		dateOnly(info.PeriodEnd),
		len(report.Rows),
		nullString(tag),
	)
	if err != nil {
		return "", err
	}

	insertTraineeSQL := fmt.Sprintf(`
		INSERT INTO %s.compliance_flagged_trainees (
			id, run_id, email, first_name, last_name, program,
			on_call, violations, missing_weeks
		) VALUES (
			$1,$2,$3,$4,$5,$6,
			$7,$8,$9
		)`, schema)

	for _, row := range report.Rows {
		_, err = tx.ExecContext(ctx, insertTraineeSQL,
			uuid.New(),
			runID,
			row.Email,
			nullString(row.FirstName),
			nullString(row.LastName),
			nullString(row.Program),
			row.OnCall,
			nullString(row.Violations),
			nullString(row.MissingWeeks),
		)
		if err != nil {
			return "", err
		}
	}

	insertCountSQL := fmt.Sprintf(`
		INSERT INTO %s.compliance_program_counts (
			id, run_id, program, trainee_count
		) VALUES (
			$1,$2,$3,$4
		)`, schema)

	for _, entry := range report.ProgramCounts {
		_, err = tx.ExecContext(ctx, insertCountSQL,
			uuid.New(),
			runID,
			entry.Program,
			entry.Count,
		)
		if err != nil {
			return "", err
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return runID.String(), nil
}

func ensureSchema(ctx context.Context, db *sql.DB, schema string) error {
	if _, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, schema)); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.compliance_runs (
			id uuid PRIMARY KEY,
			mode text NOT NULL,
			period_start date NOT NULL,
			period_end date NOT NULL,
			flagged_trainees integer NOT NULL,
			run_tag text,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schema))
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.compliance_flagged_trainees (
			id uuid PRIMARY KEY,
			run_id uuid NOT NULL REFERENCES %s.compliance_runs(id) ON DELETE CASCADE,
			email text NOT NULL,
			first_name text,
			last_name text,
			program text,
			on_call boolean NOT NULL,
			violations text,
			missing_weeks text,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schema, schema))
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.compliance_program_counts (
			id uuid PRIMARY KEY,
			run_id uuid NOT NULL REFERENCES %s.compliance_runs(id) ON DELETE CASCADE,
			program text NOT NULL,
			trainee_count integer NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schema, schema))
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_flagged_trainees_run_idx ON %s.compliance_flagged_trainees (run_id)`, schema, schema))
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_program_counts_run_idx ON %s.compliance_program_counts (run_id)`, schema, schema))
	return err
}

func nullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
