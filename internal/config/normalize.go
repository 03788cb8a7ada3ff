package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	c.normalizeScanner()
	c.normalizeAnalysis()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeLibrary() error {
	roots := make([]string, 0, len(c.Library.Roots))
	for _, root := range c.Library.Roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		expanded, err := expandPath(root)
		if err != nil {
			return fmt.Errorf("library.roots: %w", err)
		}
		roots = append(roots, expanded)
	}
	c.Library.Roots = roots

	if len(c.Library.Extensions) == 0 {
		c.Library.Extensions = defaultExtensions()
	}
	exts := make([]string, 0, len(c.Library.Extensions))
	for _, ext := range c.Library.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	c.Library.Extensions = exts

	if c.Library.WatchDebounceSeconds <= 0 {
		c.Library.WatchDebounceSeconds = defaultWatchDebounceSeconds
	}
	return nil
}

func (c *Config) normalizeScanner() {
	if c.Scanner.Workers <= 0 {
		c.Scanner.Workers = defaultScannerWorkers
	}
	if c.Scanner.SaveBatchSize <= 0 {
		c.Scanner.SaveBatchSize = defaultSaveBatchSize
	}
}

func (c *Config) normalizeAnalysis() {
	if c.Analysis.WindowSeconds <= 0 {
		c.Analysis.WindowSeconds = defaultWindowSeconds
	}
	if c.Analysis.MinBPM <= 0 {
		c.Analysis.MinBPM = defaultMinBPM
	}
	if c.Analysis.MaxBPM <= 0 {
		c.Analysis.MaxBPM = defaultMaxBPM
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
