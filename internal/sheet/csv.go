// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sheet

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pdiddy/vcf-converter/pkg/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes a header row and one record per row. Column widths do
// not apply to CSV.
type CSVWriter struct {
	Layout Layout

	// BOM prefixes the output with a UTF-8 byte-order mark so spreadsheet
	// applications detect the encoding.
	BOM bool
}

// Write renders rows as CSV to w.
func (c *CSVWriter) Write(w io.Writer, rows []types.NormalizedRow) error {
	if c.BOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("writing BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(c.Layout.header()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write([]string{r.Name, r.Phone}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
