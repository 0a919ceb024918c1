// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the vcf-converter CLI. It is the shell
// around internal/convert: it resolves options from flags, environment and
// the config file, and reports the outcome.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/vcf-converter/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE once flags and config are resolved.
var logger = zap.NewNop()

// rootCmd is the base command for the vcf-converter CLI.
var rootCmd = &cobra.Command{
	Use:   "vcf-converter",
	Short: "Convert vCard contact files into spreadsheets",
	Long: `vcf-converter reads vCard files (.vcf, versions 2.1, 3.0 and 4.0) and
writes a spreadsheet with one row per contact phone number. Phone numbers
are normalized to E.164 when a country code is present or configured.

Options can be set with flags, VCF_CONVERTER_* environment variables, or a
vcf-converter.yaml config file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(viper.GetString("log.level"), logging.Format(viper.GetString("log.format")))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.SafeSync(logger)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./vcf-converter.yaml or ~/.config/vcf-converter/vcf-converter.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")

	mustBind(rootCmd, "log.level", "log-level")
	mustBind(rootCmd, "log.format", "log-format")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vcf-converter")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "vcf-converter"))
		}
	}

	viper.SetEnvPrefix("VCF_CONVERTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// mustBind binds a config key to a persistent or local flag of cmd.
func mustBind(cmd *cobra.Command, key, flag string) {
	f := cmd.PersistentFlags().Lookup(flag)
	if f == nil {
		f = cmd.Flags().Lookup(flag)
	}
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag, err))
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
