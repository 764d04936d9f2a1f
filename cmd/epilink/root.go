package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/strokecare/epilink/internal/config"
)

var (
	cfg        = config.New()
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "epilink",
	Short: "Stroke care-episode reconstruction from RWD extracts",
	Long: "Reads hospital, urgent-care and patient CSV extracts, reconstructs " +
		"continuous stroke-care episodes and loads the patient/episode graph " +
		"and activity log into Postgres.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&configFile, "config", "", "Optional YAML config file (study window, stroke codes path)")
}

// addInputFlags registers the four input files on a linking command.
func addInputFlags(f *pflag.FlagSet) {
	f.StringVar(&cfg.HospitalEvents, "hospital-events", "", "Hospital events CSV (required)")
	f.StringVar(&cfg.UrgentCareEvents, "urgent-care-events", "", "Urgent care events CSV (required)")
	f.StringVar(&cfg.PatientsData, "patients", "", "Patient identity CSV (required)")
	f.StringVar(&cfg.StrokeCodes, "stroke-codes", "data/stroke_codes.csv", "Stroke reference codes CSV")
}

// loadConfigFile merges the optional YAML file into cfg.
func loadConfigFile() error {
	if configFile == "" {
		return nil
	}
	return cfg.LoadFromFile(configFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
