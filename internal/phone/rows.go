// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package phone

import (
	"strings"

	"github.com/pdiddy/vcf-converter/pkg/types"
)

// joinSeparator separates phone numbers under the joined row policy.
const joinSeparator = ", "

// Stats counts phone outcomes while building rows.
type Stats struct {
	// Skipped counts records that produced no row.
	Skipped int

	// Normalized and Fallbacks count source phone numbers by outcome.
	Normalized int
	Fallbacks  int
}

// Rows maps records to output rows in record order. A record with at least
// one phone yields at least one row; a record without phones yields a
// name-only row when out.IncludeWithoutPhone is set and is skipped otherwise.
func (n *Normalizer) Rows(records []types.ContactRecord, out types.OutputConfig) ([]types.NormalizedRow, Stats) {
	var (
		rows  []types.NormalizedRow
		stats Stats
	)

	for _, rec := range records {
		phones := n.normalizeAll(rec.Phones, out.UniquePhones, &stats)

		if len(phones) == 0 {
			if out.IncludeWithoutPhone && rec.Name != "" {
				rows = append(rows, types.NormalizedRow{Name: rec.Name})
				continue
			}
			stats.Skipped++
			continue
		}

		if out.Policy == types.RowJoined {
			rows = append(rows, types.NormalizedRow{Name: rec.Name, Phone: strings.Join(phones, joinSeparator)})
			continue
		}
		for _, p := range phones {
			rows = append(rows, types.NormalizedRow{Name: rec.Name, Phone: p})
		}
	}

	return rows, stats
}

func (n *Normalizer) normalizeAll(raw []string, unique bool, stats *Stats) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, r := range raw {
		res := n.Normalize(r)
		if res.Phone == "" {
			continue
		}
		if res.Formatted {
			stats.Normalized++
		} else {
			stats.Fallbacks++
		}
		if unique {
			if seen[res.Phone] {
				continue
			}
			seen[res.Phone] = true
		}
		out = append(out, res.Phone)
	}
	return out
}
