// Package workbook reads downloaded model artifacts for local verification.
// The backend owns the Excel layout; this only surfaces what a model contains.
package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetInfo summarizes one worksheet of a generated model.
type SheetInfo struct {
	Name string
	Rows int
}

// Summary is what a quick pass over a generated model reveals.
type Summary struct {
	Path        string
	CompanyName string
	Industry    string
	Sheets      []SheetInfo
}

// Inspect opens a generated .xlsx and summarizes its sheets and cover data.
func Inspect(path string) (*Summary, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	summary := &Summary{Path: path}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		count := 0
		for _, row := range rows {
			for _, cell := range row {
				if strings.TrimSpace(cell) != "" {
					count++
					break
				}
			}
		}
		summary.Sheets = append(summary.Sheets, SheetInfo{Name: name, Rows: count})
	}

	if len(summary.Sheets) > 0 {
		summary.CompanyName, summary.Industry = coverFields(f, summary.Sheets[0].Name)
	}
	return summary, nil
}

// coverFields scans the cover sheet for the Company / Industry label rows the
// generators emit and returns the adjacent values.
func coverFields(f *excelize.File, sheet string) (company, industry string) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", ""
	}
	for _, row := range rows {
		for i, cell := range row {
			label := strings.ToLower(strings.TrimSpace(cell))
			if i+1 >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[i+1])
			switch label {
			case "company", "company name", "company:":
				if company == "" {
					company = value
				}
			case "industry", "industry:":
				if industry == "" {
					industry = value
				}
			}
		}
	}
	return company, industry
}

// Verify checks that a downloaded artifact is a readable workbook with at
// least one non-empty sheet. Used by download --verify.
func Verify(path string) error {
	summary, err := Inspect(path)
	if err != nil {
		return err
	}
	for _, sheet := range summary.Sheets {
		if sheet.Rows > 0 {
			return nil
		}
	}
	return fmt.Errorf("workbook %s has no populated sheets", path)
}
