// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RowPolicy selects how a record with several phone numbers maps to rows.
type RowPolicy string

const (
	// RowPerPhone emits one row per phone number in record order.
	RowPerPhone RowPolicy = "per-phone"
	// RowJoined emits one row per record with phones joined by ", ".
	RowJoined RowPolicy = "joined"
)

// PhoneConfig holds phone normalization settings.
type PhoneConfig struct {
	// DefaultRegion is the ISO 3166-1 alpha-2 region applied to numbers
	// without a leading country code (e.g. "DZ", "US").
	DefaultRegion string `json:"default_region" yaml:"default_region" mapstructure:"default_region" validate:"omitempty,len=2,alpha"`

	// DefaultCountryCode is the calling code applied when DefaultRegion is
	// empty (e.g. "1", "213"). Takes the main region for that code.
	DefaultCountryCode string `json:"default_country_code" yaml:"default_country_code" mapstructure:"default_country_code" validate:"omitempty,numeric,max=3"`
}

// OutputConfig holds spreadsheet layout settings.
type OutputConfig struct {
	// Policy selects per-phone or joined rows (default per-phone).
	Policy RowPolicy `json:"policy" yaml:"policy" mapstructure:"policy" validate:"omitempty,oneof=per-phone joined"`

	// UniquePhones collapses repeated normalized numbers within one record.
	UniquePhones bool `json:"unique_phones" yaml:"unique_phones" mapstructure:"unique_phones"`

	// IncludeWithoutPhone writes name-only rows for records without phones.
	IncludeWithoutPhone bool `json:"include_without_phone" yaml:"include_without_phone" mapstructure:"include_without_phone"`

	// SheetName is the worksheet title (default "Contacts"). Excel rejects
	// the characters : \ / ? * [ ] in it.
	SheetName string `json:"sheet_name" yaml:"sheet_name" mapstructure:"sheet_name" validate:"max=31,excludesall=:\\/?*[]"`

	// NameHeader and PhoneHeader label the header row (default "Name", "Phone").
	NameHeader  string `json:"name_header" yaml:"name_header" mapstructure:"name_header"`
	PhoneHeader string `json:"phone_header" yaml:"phone_header" mapstructure:"phone_header"`

	// RightToLeft renders the sheet right-to-left.
	RightToLeft bool `json:"right_to_left" yaml:"right_to_left" mapstructure:"right_to_left"`
}

// ConversionConfig holds all options accepted by a conversion run.
type ConversionConfig struct {
	Phone  PhoneConfig  `json:"phone" yaml:"phone" mapstructure:"phone"`
	Output OutputConfig `json:"output" yaml:"output" mapstructure:"output"`

	// Encoding is the declared input charset. Empty means detect.
	Encoding string `json:"encoding" yaml:"encoding" mapstructure:"encoding"`

	// UnknownName is the display name used when a record has phones but
	// no FN, N or ORG value. Defaults to the empty string.
	UnknownName string `json:"unknown_name" yaml:"unknown_name" mapstructure:"unknown_name"`
}

const (
	DefaultSheetName   = "Contacts"
	DefaultNameHeader  = "Name"
	DefaultPhoneHeader = "Phone"
)

// WithDefaults returns a copy of c with empty layout fields filled in.
func (c ConversionConfig) WithDefaults() ConversionConfig {
	if c.Output.Policy == "" {
		c.Output.Policy = RowPerPhone
	}
	if c.Output.SheetName == "" {
		c.Output.SheetName = DefaultSheetName
	}
	if c.Output.NameHeader == "" {
		c.Output.NameHeader = DefaultNameHeader
	}
	if c.Output.PhoneHeader == "" {
		c.Output.PhoneHeader = DefaultPhoneHeader
	}
	return c
}
