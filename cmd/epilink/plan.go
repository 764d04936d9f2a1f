package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/strokecare/epilink/internal/exitcode"
	"github.com/strokecare/epilink/internal/logging"
	"github.com/strokecare/epilink/internal/run"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry run: link everything and print statistics, write nothing",
	RunE:  runPlan,
}

func init() {
	addInputFlags(planCmd.Flags())
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := loadConfigFile(); err != nil {
		log.Error().Err(err).Msg("config file failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	res, err := run.Build(cfg, log)
	if err != nil {
		var pe *run.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("plan failed")
			if pe.Phase == "load" {
				os.Exit(exitcode.LoadError)
			}
			os.Exit(exitcode.LinkError)
		}
		log.Error().Err(err).Msg("plan failed")
		os.Exit(exitcode.LinkError)
	}

	run.PrintTiming(os.Stdout, res.Summary)
	run.PrintStats(os.Stdout, res.Summary)
	return nil
}
