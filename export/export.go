// Package export writes result sets to CSV and XLSX files.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/nonsonwune/hirehub/logger"
	"github.com/nonsonwune/hirehub/models"
)

var ErrNothingToExport = errors.New("nothing to export")

const sheetName = "Candidates"

// Result names the files that were written. XLSX is empty when the
// spreadsheet could not be produced.
type Result struct {
	CSV  string
	XLSX string
	Rows int
}

// Write saves rs as <prefix>.csv and, best effort, <prefix>.xlsx. The
// workbook is attempted even when the CSV fails. Only a CSV failure is
// returned.
func Write(rs models.ResultSet, prefix string) (Result, error) {
	if rs.Empty() {
		return Result{}, ErrNothingToExport
	}
	if prefix == "" {
		prefix = "hirehub_export"
	}

	res := Result{Rows: len(rs)}
	csvPath := prefix + ".csv"
	csvErr := WriteCSV(rs, csvPath)
	if csvErr == nil {
		res.CSV = csvPath
	}

	xlsxPath := prefix + ".xlsx"
	if err := WriteXLSX(rs, xlsxPath); err != nil {
		logger.Log.Debug("xlsx export skipped", "path", xlsxPath, "error", err)
	} else {
		res.XLSX = xlsxPath
	}
	return res, csvErr
}

// WriteCSV writes a header row and one line per record, UTF-8, no index column.
func WriteCSV(rs models.ResultSet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, c := range rs {
		if err := w.Write(record(c)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return f.Close()
}

// WriteXLSX writes the same layout as WriteCSV into a single-sheet workbook.
func WriteXLSX(rs models.ResultSet, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	for i, h := range header() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(models.StoreColumns), 1)
		f.SetCellStyle(sheetName, "A1", endCell, headerStyle)
	}

	for rowIdx, c := range rs {
		for colIdx, col := range models.StoreColumns {
			v := c.Value(col)
			if !v.Valid {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellStr(sheetName, cell, v.String); err != nil {
				return err
			}
		}
	}

	for i := range models.StoreColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write excel file: %w", err)
	}
	return nil
}

func header() []string {
	h := make([]string, len(models.StoreColumns))
	for i, col := range models.StoreColumns {
		h[i] = string(col)
	}
	return h
}

func record(c models.Candidate) []string {
	r := make([]string, len(models.StoreColumns))
	for i, col := range models.StoreColumns {
		r[i] = c.Get(col)
	}
	return r
}
