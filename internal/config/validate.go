package config

import (
	"errors"
	"fmt"
	"slices"
)

const (
	minOverscanPercent = 1
	maxOverscanPercent = 1000
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateHost(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateHost() error {
	switch c.Host.Backend {
	case BackendWorkfile:
		if c.Host.NativeDocuments {
			return errors.New("host.native_documents requires host.backend = \"sqlite\"")
		}
	case BackendSQLite:
		if c.Paths.ProjectDB == "" {
			return errors.New("paths.project_db must be set when host.backend is \"sqlite\"")
		}
	default:
		return fmt.Errorf("host.backend: unsupported value %q (want %q or %q)", c.Host.Backend, BackendWorkfile, BackendSQLite)
	}
	return nil
}

func (c *Config) validatePublish() error {
	extract := c.Publish.ExtractMatchmoveScript
	if extract.OverscanPercentWidth < minOverscanPercent || extract.OverscanPercentWidth > maxOverscanPercent {
		return fmt.Errorf("publish.extract_matchmove_script.overscan_percent_width must be between %d and %d", minOverscanPercent, maxOverscanPercent)
	}
	if extract.OverscanPercentHeight < minOverscanPercent || extract.OverscanPercentHeight > maxOverscanPercent {
		return fmt.Errorf("publish.extract_matchmove_script.overscan_percent_height must be between %d and %d", minOverscanPercent, maxOverscanPercent)
	}
	if !slices.Contains(Units, extract.Units) {
		return fmt.Errorf("publish.extract_matchmove_script.units: unsupported value %q", extract.Units)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
