package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/strokecare/epilink/internal/normalize"
)

// Default study window when no config file overrides it.
const (
	defaultFirstDay = "2017-01-01"
	defaultLastDay  = "2017-12-31"
)

// Config holds all runtime configuration for an epilink run.
type Config struct {
	DSN       string
	LogFormat string // "text" or "json"

	HospitalEvents   string
	UrgentCareEvents string
	PatientsData     string
	StrokeCodes      string

	// Optional Parquet copy of the activity log.
	ActivityParquet string

	FirstDayOfStudy time.Time
	LastDayOfStudy  time.Time
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	StudyWindow struct {
		FirstDay string `yaml:"first_day"`
		LastDay  string `yaml:"last_day"`
	} `yaml:"study_window"`
	StrokeCodes string `yaml:"stroke_codes"`
}

// New returns a Config with the default study window applied.
func New() *Config {
	c := &Config{}
	c.FirstDayOfStudy = mustDate(defaultFirstDay)
	c.LastDayOfStudy = mustDate(defaultLastDay)
	return c
}

func mustDate(s string) time.Time {
	t := normalize.ParseDate(s)
	if t == nil {
		panic(fmt.Sprintf("bad built-in date %q", s))
	}
	return *t
}

// LoadFromFile reads a YAML config file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if yc.StudyWindow.FirstDay != "" {
		t := normalize.ParseDate(yc.StudyWindow.FirstDay)
		if t == nil {
			return fmt.Errorf("bad study_window.first_day %q", yc.StudyWindow.FirstDay)
		}
		c.FirstDayOfStudy = *t
	}
	if yc.StudyWindow.LastDay != "" {
		t := normalize.ParseDate(yc.StudyWindow.LastDay)
		if t == nil {
			return fmt.Errorf("bad study_window.last_day %q", yc.StudyWindow.LastDay)
		}
		c.LastDayOfStudy = *t
	}
	if yc.StrokeCodes != "" {
		c.StrokeCodes = yc.StrokeCodes
	}
	return nil
}

// Validate checks the input files and the study window.
func (c *Config) Validate() error {
	inputs := map[string]string{
		"--hospital-events":    c.HospitalEvents,
		"--urgent-care-events": c.UrgentCareEvents,
		"--patients":           c.PatientsData,
		"--stroke-codes":       c.StrokeCodes,
	}
	for flag, path := range inputs {
		if path == "" {
			return fmt.Errorf("%s is required", flag)
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%s not accessible: %w", flag, err)
		}
	}
	if !c.LastDayOfStudy.IsZero() && !c.FirstDayOfStudy.IsZero() &&
		c.LastDayOfStudy.Before(c.FirstDayOfStudy) {
		return fmt.Errorf("study window ends (%s) before it starts (%s)",
			c.LastDayOfStudy.Format("2006-01-02"), c.FirstDayOfStudy.Format("2006-01-02"))
	}
	return nil
}

// ValidateWithDSN checks both the inputs and the DSN.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}
