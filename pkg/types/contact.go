// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records and configuration shared across the
// conversion stages.
package types

// Version identifies the vCard format version a block declared.
type Version string

const (
	Version21 Version = "2.1"
	Version30 Version = "3.0"
	Version40 Version = "4.0"
)

// ContactRecord is one vCard entry as produced by the parser.
type ContactRecord struct {
	// Name is the best available display name. It may be empty.
	Name string `json:"name" yaml:"name"`

	// Phones lists the raw TEL values in source order. Duplicates are kept.
	Phones []string `json:"phones" yaml:"phones"`

	// Version is the vCard version the block declared (or defaulted to).
	Version Version `json:"version" yaml:"version"`

	// Line is the 1-based line of the block's BEGIN marker.
	Line int `json:"line" yaml:"line"`
}

// HasData reports whether the record carries a name or at least one phone.
func (r ContactRecord) HasData() bool {
	return r.Name != "" || len(r.Phones) > 0
}

// NormalizedRow is one output row.
type NormalizedRow struct {
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
}

// ParseWarning describes a block or property that was skipped or degraded
// during parsing. Warnings never abort a conversion.
type ParseWarning struct {
	// Line is the 1-based line where the problem was detected.
	Line int `json:"line" yaml:"line"`

	// Reason is a short human-readable description.
	Reason string `json:"reason" yaml:"reason"`
}

// DecodeReport describes how the input bytes were turned into text.
type DecodeReport struct {
	// Charset is the name of the encoding that produced the text.
	Charset string `json:"charset" yaml:"charset"`

	// Detected is true when the charset came from statistical detection.
	Detected bool `json:"detected,omitempty" yaml:"detected,omitempty"`

	// Fallback is true when a permissive decode replaced undecodable bytes.
	Fallback bool `json:"fallback,omitempty" yaml:"fallback,omitempty"`

	// Reason explains why the fallback fired.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// ConversionStatus indicates the outcome of a conversion run.
type ConversionStatus string

const (
	ConversionDone       ConversionStatus = "converted"
	ConversionNoContacts ConversionStatus = "no_contacts"
)

// ConversionResult summarizes a single conversion run.
type ConversionResult struct {
	Status     ConversionStatus `json:"status" yaml:"status"`
	InputPath  string           `json:"input_path" yaml:"input_path"`
	OutputPath string           `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Records is the number of contact records the parser produced.
	Records int `json:"records" yaml:"records"`

	// Rows is the number of data rows written (header excluded).
	Rows int `json:"rows" yaml:"rows"`

	// Skipped counts records that had no usable data for the output.
	Skipped int `json:"skipped" yaml:"skipped"`

	// Normalized counts phone numbers formatted as E.164.
	Normalized int `json:"normalized" yaml:"normalized"`

	// Fallbacks counts phone numbers kept in cleaned or raw form.
	Fallbacks int `json:"fallbacks" yaml:"fallbacks"`

	// Bytes is the size of the written output file.
	Bytes int64 `json:"bytes,omitempty" yaml:"bytes,omitempty"`

	Decode   DecodeReport   `json:"decode" yaml:"decode"`
	Warnings []ParseWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NoContacts reports whether the input yielded no usable rows.
func (r ConversionResult) NoContacts() bool {
	return r.Status == ConversionNoContacts
}
