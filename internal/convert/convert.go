// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements the vCard-to-spreadsheet conversion: read the
// input, decode it, parse contacts, normalize phone numbers, and write the
// output file atomically.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/facebookgo/atomicfile"
	"go.uber.org/zap"

	"github.com/pdiddy/vcf-converter/internal/decode"
	"github.com/pdiddy/vcf-converter/internal/phone"
	"github.com/pdiddy/vcf-converter/internal/sheet"
	"github.com/pdiddy/vcf-converter/internal/vcard"
	"github.com/pdiddy/vcf-converter/pkg/types"
)

// outputMode is the permission of written spreadsheets.
const outputMode = 0o644

// IOError reports that the source could not be read or the destination
// could not be written. It is the only fatal error kind of a conversion.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Converter runs conversions with a fixed set of options.
type Converter struct {
	cfg        types.ConversionConfig
	normalizer *phone.Normalizer
	log        *zap.Logger
}

// New validates cfg and returns a Converter. A nil log discards log output.
func New(cfg types.ConversionConfig, log *zap.Logger) (*Converter, error) {
	cfg = cfg.WithDefaults()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	n, err := phone.NewNormalizer(cfg.Phone)
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{cfg: cfg, normalizer: n, log: log}, nil
}

// Convert is the single-call entry point: it converts inputPath to
// outputPath with cfg and no logging or progress output.
func Convert(ctx context.Context, inputPath, outputPath string, cfg types.ConversionConfig) (types.ConversionResult, error) {
	c, err := New(cfg, nil)
	if err != nil {
		return types.ConversionResult{InputPath: inputPath}, err
	}
	return c.Convert(ctx, inputPath, outputPath, io.Discard)
}

// Convert reads the vCard file at inputPath and writes the spreadsheet to
// outputPath, printing progress lines to w. When no contact yields a row the
// result has status no_contacts, nothing is written, and the error is nil.
// Parse problems are reported as warnings in the result; only I/O failures
// return an *IOError.
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string, w io.Writer) (types.ConversionResult, error) {
	res := types.ConversionResult{InputPath: inputPath}

	writer, err := sheet.ForPath(outputPath, c.cfg.Output)
	if err != nil {
		return res, err
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return res, &IOError{Op: "read", Path: inputPath, Err: err}
	}

	text, report := decode.Decode(raw, c.cfg.Encoding)
	res.Decode = report
	if report.Fallback {
		c.log.Warn("decode fallback",
			zap.String("input", inputPath),
			zap.String("charset", report.Charset),
			zap.String("reason", report.Reason))
	}

	parsed, err := vcard.ParseContext(ctx, text, vcard.Options{UnknownName: c.cfg.UnknownName})
	if err != nil {
		return res, err
	}
	res.Records = len(parsed.Records)
	res.Warnings = parsed.Warnings
	for _, pw := range parsed.Warnings {
		c.log.Warn("parse warning",
			zap.String("input", inputPath),
			zap.Int("line", pw.Line),
			zap.String("reason", pw.Reason))
	}
	fmt.Fprintf(w, "parsed: %d contact(s) from %s (%s)\n", res.Records, filepath.Base(inputPath), report.Charset)
	if n := len(parsed.Warnings); n > 0 {
		fmt.Fprintf(w, "warnings: %d malformed block(s) or value(s) skipped\n", n)
	}

	rows, stats := c.normalizer.Rows(parsed.Records, c.cfg.Output)
	res.Skipped = stats.Skipped
	res.Normalized = stats.Normalized
	res.Fallbacks = stats.Fallbacks
	c.log.Debug("normalized phones",
		zap.Int("e164", stats.Normalized),
		zap.Int("fallback", stats.Fallbacks),
		zap.String("region", c.normalizer.Region()))

	if len(rows) == 0 {
		res.Status = types.ConversionNoContacts
		fmt.Fprintf(w, "skipped: %s (no contacts with phone numbers)\n", filepath.Base(inputPath))
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	size, err := writeAtomic(outputPath, writer, rows)
	if err != nil {
		return res, &IOError{Op: "write", Path: outputPath, Err: err}
	}

	res.Status = types.ConversionDone
	res.OutputPath = outputPath
	res.Rows = len(rows)
	res.Bytes = size
	fmt.Fprintf(w, "wrote: %d row(s) to %s (%s)\n", res.Rows, outputPath, humanize.Bytes(uint64(size)))
	return res, nil
}

// DefaultOutputPath returns inputPath with its extension replaced by .xlsx.
func DefaultOutputPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".xlsx"
}

// writeAtomic renders rows into a temporary file next to path and renames
// it into place, so path is only replaced by a complete file.
func writeAtomic(path string, wr sheet.Writer, rows []types.NormalizedRow) (int64, error) {
	f, err := atomicfile.New(path, outputMode)
	if err != nil {
		return 0, err
	}

	cw := &countingWriter{w: f}
	if err := wr.Write(cw, rows); err != nil {
		f.Abort()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
