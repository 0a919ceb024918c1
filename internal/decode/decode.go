// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package decode turns raw vCard bytes into UTF-8 text. It honors byte-order
// marks and declared charsets, detects legacy encodings statistically, and
// falls back to a permissive UTF-8 decode rather than failing.
package decode

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/pdiddy/vcf-converter/pkg/types"
)

const (
	charsetUTF8 = "UTF-8"

	// minConfidence is the chardet confidence (0-100) below which a
	// detection result is not trusted.
	minConfidence = 30
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts raw to UTF-8 text. declared is the caller-supplied charset
// name; empty means detect. Decode never fails: when no charset fits, it
// replaces undecodable bytes with U+FFFD and sets Report.Fallback.
func Decode(raw []byte, declared string) (string, types.DecodeReport) {
	if text, name, ok := decodeBOM(raw); ok {
		return text, types.DecodeReport{Charset: name}
	}

	var report types.DecodeReport
	if declared != "" {
		enc, name, err := Lookup(declared)
		if err == nil {
			if name == charsetUTF8 && !utf8.Valid(raw) {
				return permissive(raw, fmt.Sprintf("declared %s but input has invalid UTF-8 bytes", declared))
			}
			if text, err := enc.NewDecoder().Bytes(raw); err == nil {
				return string(text), types.DecodeReport{Charset: name}
			}
		}
		report.Fallback = true
		report.Reason = fmt.Sprintf("unsupported charset %q", declared)
	}

	if utf8.Valid(raw) {
		report.Charset = charsetUTF8
		return string(raw), report
	}

	if text, name, ok := detect(raw); ok {
		report.Charset = name
		report.Detected = true
		return text, report
	}

	reason := "input is not valid UTF-8 and no charset could be detected"
	if report.Reason != "" {
		reason = report.Reason + "; " + reason
	}
	return permissive(raw, reason)
}

// DecodeBytes decodes b from the named charset. An unknown charset returns
// the permissive UTF-8 rendering of b together with the lookup error.
func DecodeBytes(b []byte, charset string) (string, error) {
	enc, name, err := Lookup(charset)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError)), err
	}
	if name == charsetUTF8 {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError)), nil
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError)), fmt.Errorf("decoding %s: %w", charset, err)
	}
	return string(out), nil
}

// Lookup resolves a charset label (e.g. "windows-1256", "latin1", "utf8")
// to an encoding and its canonical name.
func Lookup(label string) (encoding.Encoding, string, error) {
	label = strings.TrimSpace(label)
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, "", fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = strings.ToUpper(label)
	}
	if strings.EqualFold(name, "utf-8") {
		name = charsetUTF8
	}
	return enc, name, nil
}

func decodeBOM(raw []byte) (string, string, bool) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		rest := raw[len(bomUTF8):]
		return strings.ToValidUTF8(string(rest), string(utf8.RuneError)), charsetUTF8, true
	case bytes.HasPrefix(raw, bomUTF16LE):
		return decodeUTF16(raw, unicode.LittleEndian, "UTF-16LE")
	case bytes.HasPrefix(raw, bomUTF16BE):
		return decodeUTF16(raw, unicode.BigEndian, "UTF-16BE")
	}
	return "", "", false
}

func decodeUTF16(raw []byte, order unicode.Endianness, name string) (string, string, bool) {
	out, err := unicode.UTF16(order, unicode.ExpectBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", false
	}
	return string(out), name, true
}

// detect picks a charset for raw. Arabic charsets are tried before the
// statistical candidates, since short cp1256 files usually score as
// windows-1252; they are only taken when the result reads as Arabic text.
func detect(raw []byte) (string, string, bool) {
	for _, cs := range arabicCharsets {
		if text, name, ok := decodeAs(raw, cs); ok && looksArabic(text) {
			return text, name, true
		}
	}

	results, _ := chardet.NewTextDetector().DetectAll(raw)
	for _, r := range results {
		if r.Confidence < minConfidence {
			continue
		}
		if text, name, ok := decodeAs(raw, r.Charset); ok {
			return text, name, true
		}
	}
	return "", "", false
}

// decodeAs decodes raw with the named legacy charset. UTF-8 is refused as
// raw is known not to be valid UTF-8.
func decodeAs(raw []byte, charset string) (string, string, bool) {
	enc, name, err := Lookup(charset)
	if err != nil || name == charsetUTF8 {
		return "", "", false
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", false
	}
	return string(out), name, true
}

func permissive(raw []byte, reason string) (string, types.DecodeReport) {
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError)), types.DecodeReport{
		Charset:  charsetUTF8,
		Fallback: true,
		Reason:   reason,
	}
}
