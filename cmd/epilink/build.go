package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/strokecare/epilink/internal/db"
	"github.com/strokecare/epilink/internal/exitcode"
	"github.com/strokecare/epilink/internal/logging"
	"github.com/strokecare/epilink/internal/run"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Reconstruct episodes and persist them to Postgres",
	RunE:  runBuild,
}

func init() {
	f := buildCmd.Flags()
	addInputFlags(f)
	f.StringVar(&cfg.ActivityParquet, "activity-parquet", "", "Also write the activity log to this Parquet file")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := loadConfigFile(); err != nil {
		log.Error().Err(err).Msg("config file failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summary, err := run.Run(ctx, pool, log, cfg)
	if err != nil {
		var pe *run.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("build failed")
			switch pe.Phase {
			case "load":
				os.Exit(exitcode.LoadError)
			case "persist":
				os.Exit(exitcode.PersistError)
			default:
				os.Exit(exitcode.LinkError)
			}
		}
		log.Error().Err(err).Msg("build failed")
		os.Exit(exitcode.LinkError)
	}

	run.PrintTiming(os.Stdout, summary)
	run.PrintStats(os.Stdout, summary)
	return nil
}
