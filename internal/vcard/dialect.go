// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vcard

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/quotedprintable"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/vcf-converter/internal/decode"
	"github.com/pdiddy/vcf-converter/pkg/types"
)

// dialect captures the per-version differences in property syntax. It is
// chosen once per block when the VERSION line is read.
type dialect interface {
	version() types.Version

	// decode turns a property's raw value into text, applying the
	// transfer encoding and charset the version allows.
	decode(p property) (string, error)

	// phone returns the phone number carried by a decoded TEL value.
	phone(p property, value string) string
}

// selectDialect picks the dialect from the block's VERSION property. A
// missing VERSION reads as 3.0; an unknown one also reads as 3.0 and returns
// an error describing the substitution.
func selectDialect(props []property) (dialect, error) {
	for _, p := range props {
		if p.name != "VERSION" {
			continue
		}
		switch v := strings.TrimSpace(p.value); v {
		case "2.1":
			return v21{}, nil
		case "3.0":
			return v30{}, nil
		case "4.0":
			return v40{}, nil
		default:
			return v30{}, fmt.Errorf("unsupported VERSION %q; read as 3.0", v)
		}
	}
	return v30{}, nil
}

// v21 handles vCard 2.1: bare parameters (TEL;CELL;QUOTED-PRINTABLE:),
// quoted-printable and base64 values, and per-property CHARSET.
type v21 struct{}

func (v21) version() types.Version { return types.Version21 }

func (v21) decode(p property) (string, error) {
	enc := strings.ToUpper(p.paramValue("ENCODING"))
	if enc == "" {
		for _, pr := range p.params {
			if pr.key == "" && isTransferEncoding(pr.value) {
				enc = strings.ToUpper(pr.value)
				break
			}
		}
	}

	raw, err := decodeTransfer(p, enc)
	if err != nil {
		return validUTF8(p.value), err
	}
	// An unencoded value was already decoded with the file; only bytes out
	// of a transfer decode are still in the property's charset.
	if enc != "QUOTED-PRINTABLE" && enc != "BASE64" && enc != "B" {
		return validUTF8(p.value), nil
	}
	if cs := p.paramValue("CHARSET"); cs != "" {
		s, err := decode.DecodeBytes(raw, cs)
		if err != nil {
			return s, fmt.Errorf("line %d: %w", p.line, err)
		}
		return s, nil
	}
	return validUTF8(string(raw)), nil
}

func (v21) phone(_ property, value string) string {
	return strings.TrimSpace(value)
}

// v30 handles vCard 3.0: TYPE= parameters, ENCODING=b for binary values.
// Quoted-printable is accepted as some exporters still emit it.
type v30 struct{}

func (v30) version() types.Version { return types.Version30 }

func (v30) decode(p property) (string, error) {
	raw, err := decodeTransfer(p, strings.ToUpper(p.paramValue("ENCODING")))
	if err != nil {
		return validUTF8(p.value), err
	}
	return validUTF8(string(raw)), nil
}

func (v30) phone(_ property, value string) string {
	return strings.TrimSpace(value)
}

// v40 handles vCard 4.0: no transfer encodings, UTF-8 only, and TEL values
// that may be tel: URIs (VALUE=uri).
type v40 struct{}

func (v40) version() types.Version { return types.Version40 }

func (v40) decode(p property) (string, error) {
	return validUTF8(p.value), nil
}

func (v40) phone(_ property, value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 4 && strings.EqualFold(value[:4], "tel:") {
		value = value[4:]
		// Drop URI parameters such as ;ext=123.
		value, _, _ = strings.Cut(value, ";")
	}
	return strings.TrimSpace(value)
}

func isTransferEncoding(s string) bool {
	switch strings.ToUpper(s) {
	case "QUOTED-PRINTABLE", "BASE64", "B", "8BIT", "7BIT":
		return true
	}
	return false
}

// decodeTransfer undoes the transfer encoding named by enc.
func decodeTransfer(p property, enc string) ([]byte, error) {
	switch enc {
	case "QUOTED-PRINTABLE":
		s := strings.TrimSuffix(p.value, "=")
		b, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(s)))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad quoted-printable value: %w", p.line, err)
		}
		return b, nil
	case "BASE64", "B":
		s := strings.Join(strings.Fields(p.value), "")
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad base64 value: %w", p.line, err)
		}
		return b, nil
	}
	return []byte(p.value), nil
}

func validUTF8(s string) string {
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// extractor pulls the display name and phones out of a block's properties
// using the block's dialect, collecting value-level warnings.
type extractor struct {
	dialect  dialect
	warnings []types.ParseWarning
}

func (e *extractor) text(p property) string {
	s, err := e.dialect.decode(p)
	if err != nil {
		e.warnings = append(e.warnings, types.ParseWarning{Line: p.line, Reason: err.Error()})
	}
	return s
}

// name prefers FN, then the given/additional/family parts of N, then the
// first ORG component.
func (e *extractor) name(props []property) string {
	for _, p := range props {
		if p.name == "FN" {
			if n := collapse(unescape(e.text(p))); n != "" {
				return n
			}
		}
	}

	for _, p := range props {
		if p.name != "N" {
			continue
		}
		parts := splitStructured(e.text(p), ';')
		for len(parts) < 3 {
			parts = append(parts, "")
		}
		// N is family;given;additional;prefix;suffix.
		var names []string
		for _, part := range []string{parts[1], parts[2], parts[0]} {
			for _, item := range splitStructured(part, ',') {
				if s := collapse(unescape(item)); s != "" {
					names = append(names, s)
				}
			}
		}
		if len(names) > 0 {
			return strings.Join(names, " ")
		}
	}

	for _, p := range props {
		if p.name == "ORG" {
			parts := splitStructured(e.text(p), ';')
			if n := collapse(unescape(parts[0])); n != "" {
				return n
			}
		}
	}

	return ""
}

// phones returns every non-empty TEL value in order, whatever its type.
func (e *extractor) phones(props []property) []string {
	var out []string
	for _, p := range props {
		if p.name != "TEL" {
			continue
		}
		if v := e.dialect.phone(p, e.text(p)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
