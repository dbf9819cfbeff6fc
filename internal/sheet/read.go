package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadCSV reads a header row plus data rows.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(all) < 1 {
		return []Row{}, nil
	}
	return FromRecords(all[0], all[1:]), nil
}

// ReadXLSX reads one worksheet; sheetName "" selects the first sheet.
func ReadXLSX(path, sheetName string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) < 1 {
		return []Row{}, nil
	}
	return FromRecords(rows[0], rows[1:]), nil
}

// ReadFile dispatches on the file extension.
func ReadFile(path, sheetName string) ([]Row, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, sheetName)
	default:
		return nil, fmt.Errorf("unsupported sheet format %q (want .csv or .xlsx)", ext)
	}
}

// columnOrder is the union of row keys in first-seen order.
func columnOrder(rows []Row) []string {
	var headers []string
	seen := make(map[string]bool)
	for _, r := range rows {
		for _, k := range r.keys {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	return headers
}

// WriteCSV writes rows under the union of their keys.
func WriteCSV(w io.Writer, rows []Row) error {
	headers := columnOrder(rows)
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, r := range rows {
		rec := make([]string, len(headers))
		for i, h := range headers {
			rec[i] = r.Value(h)
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes rows to the first sheet of a new workbook.
func WriteXLSX(path string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()
	sheetName := f.GetSheetName(0)

	headers := columnOrder(rows)
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return err
	}
	for i, r := range rows {
		row := make([]any, len(headers))
		for j, h := range headers {
			c := r.Get(h)
			switch c.Kind() {
			case Number:
				row[j], _ = c.Float()
			case Bool:
				row[j], _ = c.Bool()
			case Blank:
				row[j] = nil
			default:
				row[j] = c.String()
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
