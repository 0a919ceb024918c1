//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/sh"
)

const sampleInput = "testdata/sample.vcf"

// convertSample runs bin against the sample vCard, writing both output formats.
func convertSample(bin string) error {
	for _, ext := range []string{".xlsx", ".csv"} {
		out := filepath.Join(binDir, "sample"+ext)
		if err := sh.RunV(bin, "convert", sampleInput, "-o", out, "--country-code", "1"); err != nil {
			return fmt.Errorf("converting %s: %w", sampleInput, err)
		}
	}
	return nil
}
