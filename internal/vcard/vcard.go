// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vcard splits vCard 2.1/3.0/4.0 text into contact records carrying
// a display name and the raw phone numbers. Malformed blocks are skipped with
// a warning; the remaining blocks still parse.
package vcard

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/vcf-converter/pkg/types"
)

// Options controls name extraction.
type Options struct {
	// UnknownName is used for records that carry phones but no FN, N or
	// ORG value.
	UnknownName string
}

// Result holds the records parsed from one input, in source order, and the
// warnings raised along the way.
type Result struct {
	Records  []types.ContactRecord
	Warnings []types.ParseWarning
}

// line is one logical (unfolded) line and the physical line it started on.
type line struct {
	n    int
	text string
}

// block is the content between a BEGIN:VCARD and its END:VCARD.
type block struct {
	start int
	lines []line
}

// Parse splits text into vCard blocks and extracts one ContactRecord per
// block. Blocks without a name or phone are dropped.
func Parse(text string, opts Options) Result {
	res, _ := ParseContext(context.Background(), text, opts)
	return res
}

// ParseContext is Parse with ctx checked before each block. On cancellation
// it returns the records parsed so far and ctx's error.
func ParseContext(ctx context.Context, text string, opts Options) (Result, error) {
	var (
		res Result
		cur *block
	)

	warn := func(n int, format string, args ...any) {
		res.Warnings = append(res.Warnings, types.ParseWarning{Line: n, Reason: fmt.Sprintf(format, args...)})
	}

	for _, l := range unfold(text) {
		switch {
		case isMarker(l.text, "BEGIN"):
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if cur != nil {
				warn(cur.start, "vCard starting at line %d has no END:VCARD before line %d; skipped", cur.start, l.n)
			}
			cur = &block{start: l.n}
		case isMarker(l.text, "END"):
			if cur == nil {
				warn(l.n, "END:VCARD without matching BEGIN:VCARD")
				continue
			}
			rec, warnings := parseBlock(cur, opts)
			res.Warnings = append(res.Warnings, warnings...)
			if rec.HasData() {
				res.Records = append(res.Records, rec)
			}
			cur = nil
		default:
			if cur != nil {
				cur.lines = append(cur.lines, l)
			}
		}
	}

	if cur != nil {
		warn(cur.start, "vCard starting at line %d has no END:VCARD before end of input; skipped", cur.start)
	}

	return res, nil
}

// unfold joins continuation lines. A physical line starting with a space or
// tab continues the previous logical line; a quoted-printable value ending
// in '=' continues on the next physical line. Blank lines are dropped.
func unfold(text string) []line {
	physical := strings.Split(text, "\n")
	out := make([]line, 0, len(physical))

	for i, raw := range physical {
		s := strings.TrimRight(raw, "\r")
		if n := len(out); n > 0 {
			last := &out[n-1]
			if softBreak(last.text) && !isMarker(s, "BEGIN") && !isMarker(s, "END") {
				last.text = last.text[:len(last.text)-1] + s
				continue
			}
			if (strings.HasPrefix(s, " ") || strings.HasPrefix(s, "\t")) &&
				!isMarker(last.text, "BEGIN") && !isMarker(last.text, "END") {
				last.text += s[1:]
				continue
			}
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, line{n: i + 1, text: s})
	}
	return out
}

// softBreak reports whether s is a quoted-printable property line whose value
// ends with a soft line break.
func softBreak(s string) bool {
	if !strings.HasSuffix(s, "=") {
		return false
	}
	head, _, ok := strings.Cut(s, ":")
	return ok && strings.Contains(strings.ToUpper(head), "QUOTED-PRINTABLE")
}

// isMarker reports whether s is "<kind>:VCARD", ignoring case and
// surrounding whitespace.
func isMarker(s, kind string) bool {
	return strings.EqualFold(strings.TrimSpace(s), kind+":VCARD")
}

// parseBlock selects the dialect from the block's VERSION line and extracts
// the record.
func parseBlock(b *block, opts Options) (types.ContactRecord, []types.ParseWarning) {
	var warnings []types.ParseWarning

	props := make([]property, 0, len(b.lines))
	for _, l := range b.lines {
		p, err := parseProperty(l)
		if err != nil {
			warnings = append(warnings, types.ParseWarning{Line: l.n, Reason: err.Error()})
			continue
		}
		props = append(props, p)
	}

	d, err := selectDialect(props)
	if err != nil {
		warnings = append(warnings, types.ParseWarning{Line: b.start, Reason: err.Error()})
	}

	ex := extractor{dialect: d}
	rec := types.ContactRecord{
		Name:    ex.name(props),
		Phones:  ex.phones(props),
		Version: d.version(),
		Line:    b.start,
	}
	warnings = append(warnings, ex.warnings...)

	if rec.Name == "" && len(rec.Phones) > 0 {
		rec.Name = opts.UnknownName
	}
	return rec, warnings
}
