// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/vcf-converter/pkg/types"
)

const (
	defaultSheet = "Sheet1"

	// numFmtText is the built-in "@" format; it keeps phone numbers from
	// being reinterpreted as numbers.
	numFmtText = 49
)

// XLSXWriter writes an Excel workbook with a bold, frozen header row and a
// text-formatted phone column.
type XLSXWriter struct {
	Layout Layout
}

// Write renders rows into a new workbook and writes it to w.
func (x *XLSXWriter) Write(w io.Writer, rows []types.NormalizedRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := x.Layout.SheetName
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("naming sheet %q: %w", sheet, err)
	}

	if err := x.writeHeader(f, sheet); err != nil {
		return err
	}

	textStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtText})
	if err != nil {
		return fmt.Errorf("creating text style: %w", err)
	}
	if err := f.SetColStyle(sheet, "B", textStyle); err != nil {
		return fmt.Errorf("styling phone column: %w", err)
	}

	for i, r := range rows {
		row := i + 2
		if err := f.SetCellStr(sheet, cell(1, row), r.Name); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
		if err := f.SetCellStr(sheet, cell(2, row), r.Phone); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
		if err := f.SetCellStyle(sheet, cell(2, row), cell(2, row), textStyle); err != nil {
			return fmt.Errorf("styling row %d: %w", row, err)
		}
	}

	for i, width := range ColumnWidths(x.Layout.header(), rows) {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if x.Layout.RightToLeft {
		rtl := true
		if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
			return fmt.Errorf("setting right-to-left view: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func (x *XLSXWriter) writeHeader(f *excelize.File, sheet string) error {
	header := x.Layout.header()
	values := make([]interface{}, len(header))
	for i, h := range header {
		values[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &values); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", cell(len(header), 1), bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	return nil
}

// cell returns the A1-style name for a 1-based column and row. Both are
// always in range here.
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
