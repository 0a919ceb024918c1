// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vcf-converter/pkg/types"
)

func TestConversionConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vcf-converter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
phone:
  default_region: DZ
encoding: windows-1256
unknown_name: Unknown
output:
  policy: joined
  unique_phones: true
  sheet_name: Contacts
  right_to_left: true
`), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := conversionConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "DZ", cfg.Phone.DefaultRegion)
	assert.Equal(t, "windows-1256", cfg.Encoding)
	assert.Equal(t, "Unknown", cfg.UnknownName)
	assert.Equal(t, types.RowJoined, cfg.Output.Policy)
	assert.True(t, cfg.Output.UniquePhones)
	assert.True(t, cfg.Output.RightToLeft)
	assert.False(t, cfg.Output.IncludeWithoutPhone)
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "contacts.vcf")
	require.NoError(t, os.WriteFile(in, []byte("BEGIN:VCARD\nVERSION:3.0\nFN:Jane\nTEL:555-123-4567\nEND:VCARD\n"), 0o644))
	out := filepath.Join(dir, "contacts.csv")
	report := filepath.Join(dir, "report.yaml")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"convert", in, "-o", out, "--country-code", "1", "--report", report})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stdout.String(), "wrote: 1 row(s)")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Jane,+15551234567")

	_, err = os.Stat(report)
	assert.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "vcf-converter dev\n", stdout.String())
}
