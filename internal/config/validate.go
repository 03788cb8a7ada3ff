package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScanner(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScanner() error {
	if c.Scanner.Workers < 1 {
		return errors.New("scanner.workers must be at least 1")
	}
	if c.Scanner.SaveBatchSize < 1 {
		return errors.New("scanner.save_batch_size must be at least 1")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.WindowSeconds < 5 || c.Analysis.WindowSeconds > 120 {
		return errors.New("analysis.window_seconds must be between 5 and 120")
	}
	if c.Analysis.MinBPM >= c.Analysis.MaxBPM {
		return fmt.Errorf("analysis.min_bpm (%d) must be below analysis.max_bpm (%d)", c.Analysis.MinBPM, c.Analysis.MaxBPM)
	}
	if c.Analysis.MinBPM < 30 || c.Analysis.MaxBPM > 300 {
		return errors.New("analysis BPM range must stay within 30-300")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
