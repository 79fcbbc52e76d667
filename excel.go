package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"
)

var detailHeaders = []string{
	"Trainee Email",
	"Trainee First Name",
	"Trainee Last Name",
	"Program",
	"Program Admin Email",
	"ResQ Violations",
	"Violations",
	"Week(s) of Missing Hours",
	"Program Director First Name",
	"Program Director Last Name",
	"Program Director Email",
	"Program Admin First Name",
	"Program Admin Last Name",
}

var programCountHeaders = []string{
	"Program",
	"Count",
	"Program Director First Name",
	"Program Director Last Name",
	"Program Director Email",
	"Program Admin First Name",
	"Program Admin Last Name",
	"Program Admin Email",
}

// readWorkbook loads the first worksheet of an xlsx file.
func readWorkbook(path string) (*sheetData, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	rows, err := file.GetRows(file.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	sheet, err := newSheetData(rows)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return sheet, nil
}

// writeWorkbook renders the report as a three-sheet workbook: detail rows,
// the one-cell program summary, and the per-program count table, each
// carrying a styled table for downstream filtering.
func writeWorkbook(report Report, path string) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := writeDetailSheet(file, "Sheet1", report.Rows); err != nil {
		return err
	}
	if err := writeSummarySheet(file, "Sheet2", report.Summary); err != nil {
		return err
	}
	if err := writeCountSheet(file, "Program Counts", report.ProgramCounts); err != nil {
		return err
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeDetailSheet(file *excelize.File, sheet string, rows []ReportRow) error {
	if err := setRow(file, sheet, 1, detailHeaders); err != nil {
		return err
	}
	for i, row := range rows {
		onCall := ""
		if row.OnCall {
			onCall = "Yes"
		}
		values := []string{
			row.Email,
			row.FirstName,
			row.LastName,
			row.Program,
			row.AdminEmail,
			onCall,
			row.Violations,
			row.MissingWeeks,
			row.DirectorFirst,
			row.DirectorLast,
			row.DirectorEmail,
			row.CoordFirst,
			row.CoordLast,
		}
		if err := setRow(file, sheet, i+2, values); err != nil {
			return err
		}
	}
	return addSheetTable(file, sheet, "Table1", len(detailHeaders), len(rows))
}

func writeSummarySheet(file *excelize.File, sheet string, summary string) error {
	if _, err := file.NewSheet(sheet); err != nil {
		return err
	}
	if err := setRow(file, sheet, 1, []string{"FullSummary"}); err != nil {
		return err
	}
	if err := setRow(file, sheet, 2, []string{summary}); err != nil {
		return err
	}
	return addSheetTable(file, sheet, "Table2", 1, 1)
}

func writeCountSheet(file *excelize.File, sheet string, counts []ProgramCount) error {
	if _, err := file.NewSheet(sheet); err != nil {
		return err
	}
	if err := setRow(file, sheet, 1, programCountHeaders); err != nil {
		return err
	}
	for i, entry := range counts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			entry.Program,
			entry.Count,
			entry.Contact.DirectorFirst,
			entry.Contact.DirectorLast,
			entry.Contact.DirectorEmail,
			entry.Contact.AdminFirst,
			entry.Contact.AdminLast,
			entry.Contact.AdminEmail,
		}
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return addSheetTable(file, sheet, "Table3", len(programCountHeaders), len(counts))
}

func setRow(file *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, value := range values {
		cells[i] = value
	}
	return file.SetSheetRow(sheet, cell, &cells)
}

// addSheetTable overlays a styled table on the populated range. A sheet
// with no data rows gets no table; a header-only range is not a valid
// table reference.
func addSheetTable(file *excelize.File, sheet string, name string, cols int, dataRows int) error {
	if dataRows == 0 {
		return nil
	}
	endCell, err := excelize.CoordinatesToCellName(cols, dataRows+1)
	if err != nil {
		return err
	}
	rowStripes := true
	return file.AddTable(sheet, &excelize.Table{
		Range:          fmt.Sprintf("A1:%s", endCell),
		Name:           name,
		StyleName:      "TableStyleMedium9",
		ShowRowStripes: &rowStripes,
	})
}

// probeWritable checks that the saved output is not still locked by
// another process. A locked file is an operator problem, not a run
// failure.
func probeWritable(path string) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		slog.Warn("output file still locked", "path", path, "error", err)
		return
	}
	file.Close()
	slog.Info("output file is writable and ready for sync", "path", path)
}
