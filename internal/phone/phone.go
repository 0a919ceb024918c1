// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package phone normalizes contact phone numbers to E.164 and maps parsed
// contact records to output rows.
package phone

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/pdiddy/vcf-converter/pkg/types"
)

// unknownRegion is what phonenumbers returns for a calling code it does not
// know.
const unknownRegion = "ZZ"

// Normalizer formats phone numbers as E.164 using an optional default
// region for numbers written without a country code.
type Normalizer struct {
	region string
}

// Result is the outcome of normalizing one phone number.
type Result struct {
	// Phone is the E.164 number, or the cleaned (or raw) fallback.
	Phone string

	// Formatted is true when Phone is E.164.
	Formatted bool
}

// NewNormalizer builds a Normalizer from cfg. DefaultRegion takes precedence
// over DefaultCountryCode; both empty means only numbers that already carry
// a '+' country code can be formatted.
func NewNormalizer(cfg types.PhoneConfig) (*Normalizer, error) {
	region, err := resolveRegion(cfg)
	if err != nil {
		return nil, err
	}
	return &Normalizer{region: region}, nil
}

// Region returns the default region in use ("" when none).
func (n *Normalizer) Region() string {
	return n.region
}

func resolveRegion(cfg types.PhoneConfig) (string, error) {
	if r := strings.ToUpper(strings.TrimSpace(cfg.DefaultRegion)); r != "" {
		if phonenumbers.GetCountryCodeForRegion(r) == 0 {
			return "", fmt.Errorf("unknown region %q", cfg.DefaultRegion)
		}
		return r, nil
	}

	cc := strings.TrimPrefix(strings.TrimSpace(cfg.DefaultCountryCode), "+")
	if cc == "" {
		return "", nil
	}
	code, err := strconv.Atoi(cc)
	if err != nil {
		return "", fmt.Errorf("invalid country code %q: %w", cfg.DefaultCountryCode, err)
	}
	region := phonenumbers.GetRegionCodeForCountryCode(code)
	if region == "" || region == unknownRegion {
		return "", fmt.Errorf("unknown country code %q", cfg.DefaultCountryCode)
	}
	return region, nil
}

// Normalize cleans raw and formats it as E.164 when the number parses and
// is valid, or at least has a possible length, for its country. Otherwise
// the cleaned digits are returned, or the trimmed raw value if cleaning
// leaves nothing. A non-blank raw value never yields an empty Phone.
//
// The possible-length check accepts numbers from unassigned ranges such as
// 555 area codes, and also national numbers that do not fit the default
// country: "0555 12 34 56" with country code 1 becomes +10555123456 although
// no NANP area code starts with 0.
func (n *Normalizer) Normalize(raw string) Result {
	cleaned := Clean(raw)
	if cleaned == "" || cleaned == "+" {
		return Result{Phone: strings.TrimSpace(raw)}
	}

	num, err := phonenumbers.Parse(cleaned, n.region)
	if err == nil && (phonenumbers.IsValidNumber(num) || phonenumbers.IsPossibleNumber(num)) {
		return Result{Phone: phonenumbers.Format(num, phonenumbers.E164), Formatted: true}
	}
	return Result{Phone: cleaned}
}

// Clean strips formatting from raw, keeping digits and a leading '+'.
// Non-ASCII decimal digits are mapped to ASCII and a leading international
// "00" prefix becomes '+'. An extension ("ext 12", "x12", ";ext=12") is
// dropped.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	// "ext" is cut at its 'x'; the leftover 'e' is not a digit.
	if i := strings.IndexAny(s, ";xX"); i >= 0 {
		s = s[:i]
	}
	plus := strings.HasPrefix(s, "+") || strings.HasPrefix(s, "＋")

	digits := phonenumbers.NormalizeDigitsOnly(s)
	if !plus && strings.HasPrefix(digits, "00") && len(digits) > 4 {
		return "+" + digits[2:]
	}
	if plus {
		return "+" + digits
	}
	return digits
}
