// Package cmd implements the diceman CLI subcommands.
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/diceman/internal/config"
	"github.com/cory-johannsen/diceman/internal/dice"
	"github.com/cory-johannsen/diceman/internal/observability"
	"github.com/cory-johannsen/diceman/internal/presets"
)

var (
	cfgFile string
	seed    uint64
)

var rootCmd = &cobra.Command{
	Use:           "diceman",
	Short:         "A dice notation parser and roller for TTRPGs",
	Long: `diceman parses tabletop dice notation and rolls or simulates it.

Expressions support keep/drop (4d6kh3), exploding dice (1d6!),
rerolls (2d6r<3), success counting (5d10>=8), percentile and fudge
dice (d%, dF), and full arithmetic with grouping ((1d6 + 2) * 3).

Run "diceman notation" for the complete notation reference.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to configuration file (optional)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "seed for deterministic rolls")
}

// app bundles the dependencies every subcommand needs. Built per invocation
// from config, flags, and the presets directory.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	presets *presets.Table
	src     dice.Source
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	table, err := loadPresets(cfg)
	if err != nil {
		return nil, err
	}

	src := dice.NewSource()
	if cmd.Flags().Changed("seed") {
		src = dice.NewSeededSource(seed)
	}

	return &app{cfg: cfg, logger: logger, presets: table, src: src}, nil
}

func loadPresets(cfg config.Config) (*presets.Table, error) {
	if cfg.Presets.Dir == "" {
		return presets.NewTable(nil)
	}
	return presets.LoadFromDir(cfg.Presets.Dir)
}
