// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func encodeWith(t *testing.T, enc interface {
	String(string) (string, error)
}, s string) []byte {
	t.Helper()
	out, err := enc.String(s)
	require.NoError(t, err)
	return []byte(out)
}

func TestDecode(t *testing.T) {
	arabic := "محمد"

	tests := []struct {
		name         string
		raw          []byte
		declared     string
		want         string
		wantCharset  string
		wantFallback bool
	}{
		{
			name:        "plain utf-8",
			raw:         []byte("FN:Zoë\n"),
			want:        "FN:Zoë\n",
			wantCharset: "UTF-8",
		},
		{
			name:        "utf-8 bom stripped",
			raw:         append([]byte{0xEF, 0xBB, 0xBF}, []byte("FN:A")...),
			want:        "FN:A",
			wantCharset: "UTF-8",
		},
		{
			name:        "declared windows-1256",
			raw:         encodeWith(t, charmap.Windows1256.NewEncoder(), "FN:"+arabic),
			declared:    "windows-1256",
			want:        "FN:" + arabic,
			wantCharset: "windows-1256",
		},
		{
			name:         "unsupported declared charset falls back",
			raw:          []byte("FN:A"),
			declared:     "x-not-a-charset",
			want:         "FN:A",
			wantCharset:  "UTF-8",
			wantFallback: true,
		},
		{
			name:         "declared utf-8 with invalid bytes replaces them",
			raw:          []byte{'F', 'N', ':', 0xFF, 'A'},
			declared:     "utf-8",
			want:         "FN:�A",
			wantCharset:  "UTF-8",
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, report := Decode(tt.raw, tt.declared)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCharset, report.Charset)
			assert.Equal(t, tt.wantFallback, report.Fallback)
			if tt.wantFallback {
				assert.NotEmpty(t, report.Reason)
			}
		})
	}
}

func TestDecode_UTF16BOM(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	raw := encodeWith(t, enc, "BEGIN:VCARD\r\nFN:Ana\r\nEND:VCARD\r\n")

	got, report := Decode(raw, "")
	assert.Equal(t, "UTF-16LE", report.Charset)
	assert.False(t, report.Fallback)
	assert.True(t, strings.HasPrefix(got, "BEGIN:VCARD"))
	assert.Contains(t, got, "FN:Ana")
}

func TestDecode_NeverFails(t *testing.T) {
	raw := []byte{0x80, 0x81, 0xFE, 'B', 'E', 'G', 'I', 'N', 0xC3}
	got, report := Decode(raw, "")
	assert.NotEmpty(t, report.Charset)
	assert.True(t, strings.Contains(got, "BEGIN") || report.Detected,
		"decoded text %q should keep ASCII content", got)
}

func TestDecode_DetectsUndeclaredArabic(t *testing.T) {
	text := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:محمد علي\r\nTEL:0555 12 34 56\r\nEND:VCARD\r\n" +
		"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:فاطمة الزهراء\r\nTEL:0661 23 45 67\r\nEND:VCARD\r\n"
	raw := encodeWith(t, charmap.Windows1256.NewEncoder(), text)

	got, report := Decode(raw, "")
	assert.Equal(t, text, got)
	assert.Equal(t, "windows-1256", report.Charset)
	assert.True(t, report.Detected)
	assert.False(t, report.Fallback)
}

func TestLooksArabic(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"FN:محمد علي", true},
		{"FN:فاطمة الزهراء، ٢", true},
		{"FN:Martيnez", false},
		{"FN:Garcي", false},
		{"FN:José", false},
		{"plain ascii", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, looksArabic(tt.in), "looksArabic(%q)", tt.in)
	}
}

func TestDecodeBytes(t *testing.T) {
	latin := encodeWith(t, charmap.Windows1252.NewEncoder(), "José")

	got, err := DecodeBytes(latin, "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, "José", got)

	got, err = DecodeBytes([]byte("plain"), "x-unknown")
	assert.Error(t, err)
	assert.Equal(t, "plain", got)

	got, err = DecodeBytes([]byte{'a', 0xFF}, "UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "a�", got)
}

func TestLookup(t *testing.T) {
	tests := []struct {
		label    string
		wantName string
		wantErr  bool
	}{
		{"utf8", "UTF-8", false},
		{"UTF-8", "UTF-8", false},
		{"windows-1256", "windows-1256", false},
		{"latin1", "windows-1252", false},
		{"iso-8859-6", "iso-8859-6", false},
		{"klingon", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			_, name, err := Lookup(tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
		})
	}
}
