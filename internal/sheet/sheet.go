// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sheet writes normalized contact rows as a spreadsheet with a
// header row and columns sized to their content.
package sheet

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pdiddy/vcf-converter/pkg/types"
)

const (
	// widthMargin and widthFactor turn a display width into a column width:
	// (maxWidth + widthMargin) * widthFactor.
	widthMargin = 2
	widthFactor = 1.2

	// maxColumnWidth is the largest width spreadsheet applications accept.
	maxColumnWidth = 255
)

// Writer renders rows to w. XLSX and CSV writers implement it.
type Writer interface {
	Write(w io.Writer, rows []types.NormalizedRow) error
}

// Layout holds the presentation settings shared by writers.
type Layout struct {
	SheetName   string
	NameHeader  string
	PhoneHeader string
	RightToLeft bool
}

// LayoutFrom builds a Layout from out, filling defaults for empty fields.
func LayoutFrom(out types.OutputConfig) Layout {
	out = types.ConversionConfig{Output: out}.WithDefaults().Output
	return Layout{
		SheetName:   out.SheetName,
		NameHeader:  out.NameHeader,
		PhoneHeader: out.PhoneHeader,
		RightToLeft: out.RightToLeft,
	}
}

func (l Layout) header() []string {
	return []string{l.NameHeader, l.PhoneHeader}
}

// ForPath returns the writer matching path's extension: .xlsx (also the
// default for paths without an extension) or .csv.
func ForPath(path string, out types.OutputConfig) (Writer, error) {
	layout := LayoutFrom(out)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", "":
		return &XLSXWriter{Layout: layout}, nil
	case ".csv":
		return &CSVWriter{Layout: layout, BOM: true}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q: use .xlsx or .csv", ext)
	}
}

// ColumnWidths returns the width of each column: the widest display width
// among the header and all rows, plus a margin.
func ColumnWidths(header []string, rows []types.NormalizedRow) []float64 {
	max := make([]int, len(header))
	for i, h := range header {
		max[i] = runewidth.StringWidth(h)
	}
	for _, r := range rows {
		for i, v := range []string{r.Name, r.Phone} {
			if i >= len(max) {
				break
			}
			if w := runewidth.StringWidth(v); w > max[i] {
				max[i] = w
			}
		}
	}

	widths := make([]float64, len(max))
	for i, m := range max {
		w := float64(m+widthMargin) * widthFactor
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		widths[i] = w
	}
	return widths
}
