package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	archiveRoot         = "past_lists"
	archiveRosterFolder = "old_active_list"
	archiveHoursFolder  = "old_hours_list"
	archiveOutputFolder = "old_compliance_list"
	archiveDateLayout   = "01_02_2006"
)

// ensureArchiveDirs creates the dated archive folder structure on demand.
func ensureArchiveDirs(baseDir string) error {
	for _, folder := range []string{archiveRosterFolder, archiveHoursFolder, archiveOutputFolder} {
		path := filepath.Join(baseDir, archiveRoot, folder)
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("create archive dir %s: %w", path, err)
		}
	}
	return nil
}

// archivePreviousOutput moves the prior run's output into the archive,
// suffixed with the reference date. Nothing to move is normal on a first
// run or after a filename change.
func archivePreviousOutput(baseDir string, outputName string, refDate time.Time) {
	src := filepath.Join(baseDir, outputName)
	if _, err := os.Stat(src); err != nil {
		slog.Info("no previous output to archive", "path", src)
		return
	}
	dst := filepath.Join(baseDir, archiveRoot, archiveOutputFolder, datedName(outputName, refDate))
	moveFile(src, dst)
}

// archiveInputs relocates the consumed extracts so a rerun without fresh
// input fails fast instead of reusing stale data. Archiving is
// best-effort; a missing source is only a warning.
func archiveInputs(baseDir string, today time.Time) {
	moves := []struct {
		name   string
		folder string
	}{
		{rosterFileName, archiveRosterFolder},
		{hoursFileName, archiveHoursFolder},
	}
	for _, move := range moves {
		src := filepath.Join(baseDir, move.name)
		if _, err := os.Stat(src); err != nil {
			slog.Warn("file not found, not moved", "path", src)
			continue
		}
		dst := filepath.Join(baseDir, archiveRoot, move.folder, datedName(move.name, today))
		moveFile(src, dst)
	}
}

func moveFile(src string, dst string) {
	if err := os.Rename(src, dst); err != nil {
		slog.Warn("unable to archive file", "src", src, "dst", dst, "error", err)
		return
	}
	slog.Info("archived file", "src", src, "dst", dst)
}

func datedName(name string, date time.Time) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%s%s", base, date.Format(archiveDateLayout), ext)
}
