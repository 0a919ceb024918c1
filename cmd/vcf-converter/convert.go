// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vcf-converter/internal/convert"
	"github.com/pdiddy/vcf-converter/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.vcf>",
	Short: "Convert a vCard file to an Excel or CSV spreadsheet",
	Long: `Convert reads one vCard file and writes a spreadsheet with a "Name" and a
"Phone" column. Phone numbers that carry a country code, or that can take
the configured default region or country code, are written in E.164 form
(+15551234567); others are kept as cleaned digits.

The output format follows the output file extension (.xlsx or .csv). When
--output is omitted the input path with an .xlsx extension is used. Blocks
that cannot be parsed are skipped and reported; an input with no contact
phone numbers writes nothing and exits with an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output file (.xlsx or .csv); default: input name with .xlsx")
	convertCmd.Flags().String("report", "", "write a YAML conversion report to this path")

	convertCmd.Flags().String("region", "", "default region for numbers without a country code (ISO 3166, e.g. DZ)")
	convertCmd.Flags().String("country-code", "", "default calling code when --region is unset (e.g. 1)")
	convertCmd.Flags().String("encoding", "", "input charset (e.g. windows-1256); default: detect")
	convertCmd.Flags().String("policy", string(types.RowPerPhone), "row policy: per-phone or joined")
	convertCmd.Flags().Bool("unique-phones", false, "drop repeated numbers within one contact")
	convertCmd.Flags().Bool("include-without-phone", false, "write name-only rows for contacts without phones")
	convertCmd.Flags().String("sheet", types.DefaultSheetName, "worksheet name")
	convertCmd.Flags().String("name-header", types.DefaultNameHeader, "header of the name column")
	convertCmd.Flags().String("phone-header", types.DefaultPhoneHeader, "header of the phone column")
	convertCmd.Flags().Bool("rtl", false, "lay the sheet out right-to-left")
	convertCmd.Flags().String("unknown-name", "", "name used for contacts without FN, N or ORG")

	for key, flag := range map[string]string{
		"phone.default_region":         "region",
		"phone.default_country_code":   "country-code",
		"encoding":                     "encoding",
		"output.policy":                "policy",
		"output.unique_phones":         "unique-phones",
		"output.include_without_phone": "include-without-phone",
		"output.sheet_name":            "sheet",
		"output.name_header":           "name-header",
		"output.phone_header":          "phone-header",
		"output.right_to_left":         "rtl",
		"unknown_name":                 "unknown-name",
	} {
		mustBind(convertCmd, key, flag)
	}

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = convert.DefaultOutputPath(input)
	}

	cfg, err := conversionConfig(viper.GetViper())
	if err != nil {
		return err
	}

	c, err := convert.New(cfg, logger)
	if err != nil {
		return err
	}

	res, err := c.Convert(cmd.Context(), input, output, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if report, _ := cmd.Flags().GetString("report"); report != "" {
		if err := convert.WriteReport(report, res); err != nil {
			return err
		}
	}

	if res.NoContacts() {
		return fmt.Errorf("no contacts with phone numbers found in %s", input)
	}
	return nil
}

// conversionConfig decodes the resolved flag, environment and file values.
func conversionConfig(v *viper.Viper) (types.ConversionConfig, error) {
	var cfg types.ConversionConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading options: %w", err)
	}
	return cfg, nil
}
