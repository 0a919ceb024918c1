// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/vcf-converter/pkg/types"
)

var sampleRows = []types.NormalizedRow{
	{Name: "Alexander", Phone: "+15551234567"},
	{Name: "王小明", Phone: "0555123456"},
	{Name: "Bo", Phone: "+442079460958"},
}

func TestColumnWidths(t *testing.T) {
	widths := ColumnWidths([]string{"Name", "Phone"}, sampleRows)
	require.Len(t, widths, 2)
	// "Alexander" is 9 cells wide, "+442079460958" is 13.
	assert.InDelta(t, 13.2, widths[0], 0.001)
	assert.InDelta(t, 18.0, widths[1], 0.001)

	// Wide characters count double.
	widths = ColumnWidths([]string{"N", "P"}, []types.NormalizedRow{{Name: "王小明王小明", Phone: "1"}})
	assert.InDelta(t, 16.8, widths[0], 0.001)

	// Header only.
	widths = ColumnWidths([]string{"Name", "Phone"}, nil)
	assert.InDelta(t, 7.2, widths[0], 0.001)
	assert.InDelta(t, 8.4, widths[1], 0.001)

	widths = ColumnWidths([]string{"N", "P"}, []types.NormalizedRow{{Name: strings.Repeat("x", 400)}})
	assert.Equal(t, float64(maxColumnWidth), widths[0])
}

func TestXLSXWriter(t *testing.T) {
	w := &XLSXWriter{Layout: LayoutFrom(types.OutputConfig{})}

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, sampleRows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Contacts"}, f.GetSheetList())

	rows, err := f.GetRows("Contacts")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Name", "Phone"},
		{"Alexander", "+15551234567"},
		{"王小明", "0555123456"},
		{"Bo", "+442079460958"},
	}, rows)

	widthA, err := f.GetColWidth("Contacts", "A")
	require.NoError(t, err)
	assert.InDelta(t, 13.2, widthA, 0.01)

	widthB, err := f.GetColWidth("Contacts", "B")
	require.NoError(t, err)
	assert.InDelta(t, 18.0, widthB, 0.01)
}

func TestXLSXWriter_Layout(t *testing.T) {
	w := &XLSXWriter{Layout: LayoutFrom(types.OutputConfig{
		SheetName:   "جهات",
		NameHeader:  "الاسم",
		PhoneHeader: "الرقم",
		RightToLeft: true,
	})}

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, sampleRows[:1]))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("جهات")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"الاسم", "الرقم"}, rows[0])

	view, err := f.GetSheetView("جهات", 0)
	require.NoError(t, err)
	require.NotNil(t, view.RightToLeft)
	assert.True(t, *view.RightToLeft)
}

func TestXLSXWriter_Deterministic(t *testing.T) {
	w := &XLSXWriter{Layout: LayoutFrom(types.OutputConfig{})}

	read := func() [][]string {
		var buf bytes.Buffer
		require.NoError(t, w.Write(&buf, sampleRows))
		f, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Contacts")
		require.NoError(t, err)
		return rows
	}

	assert.Equal(t, read(), read())
}

func TestCSVWriter(t *testing.T) {
	w := &CSVWriter{Layout: LayoutFrom(types.OutputConfig{})}

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, []types.NormalizedRow{
		{Name: "Doe, John", Phone: "+15551234567"},
		{Name: "Ann", Phone: ""},
	}))
	assert.Equal(t, "Name,Phone\n\"Doe, John\",+15551234567\nAnn,\n", buf.String())

	buf.Reset()
	w.BOM = true
	require.NoError(t, w.Write(&buf, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), utf8BOM))
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"out.xlsx", "xlsx", false},
		{"OUT.XLSX", "xlsx", false},
		{"out", "xlsx", false},
		{"out.csv", "csv", false},
		{"out.ods", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w, err := ForPath(tt.path, types.OutputConfig{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			switch tt.want {
			case "xlsx":
				assert.IsType(t, &XLSXWriter{}, w)
			case "csv":
				assert.IsType(t, &CSVWriter{}, w)
			}
		})
	}
}
