package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envOverrides are read after the TOML file so launch environments can tune a
// shared config without editing it.
type envOverrides struct {
	LogLevel          string `env:"EQUALIZER_LOG_LEVEL"`
	LogFormat         string `env:"EQUALIZER_LOG_FORMAT"`
	Backend           string `env:"EQUALIZER_HOST_BACKEND"`
	ProjectDB         string `env:"EQUALIZER_PROJECT_DB"`
	HeartbeatInterval int    `env:"AYON_TDE4_HEARTBEAT_INTERVAL"`
}

func (c *Config) normalize() error {
	if err := c.applyEnv(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeHost()
	c.normalizeCreate()
	c.normalizePublish()
	c.normalizeLogging()
	return nil
}

func (c *Config) applyEnv() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if v := strings.TrimSpace(overrides.LogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(overrides.LogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := strings.TrimSpace(overrides.Backend); v != "" {
		c.Host.Backend = v
	}
	if v := strings.TrimSpace(overrides.ProjectDB); v != "" {
		c.Paths.ProjectDB = v
	}
	if overrides.HeartbeatInterval > 0 {
		c.Addon.HeartbeatInterval = overrides.HeartbeatInterval
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ProjectDB) == "" {
		c.Paths.ProjectDB = defaultProjectDB
	}
	if c.Paths.ProjectDB, err = expandPath(c.Paths.ProjectDB); err != nil {
		return fmt.Errorf("paths.project_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeHost() {
	c.Host.Backend = strings.ToLower(strings.TrimSpace(c.Host.Backend))
	if c.Host.Backend == "" {
		c.Host.Backend = BackendWorkfile
	}
	exts := make([]string, 0, len(c.Host.WorkfileExtensions))
	seen := make(map[string]struct{}, len(c.Host.WorkfileExtensions))
	for _, ext := range c.Host.WorkfileExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		exts = []string{defaultWorkfileExtension}
	}
	c.Host.WorkfileExtensions = exts
	if c.Addon.HeartbeatInterval <= 0 {
		c.Addon.HeartbeatInterval = defaultHeartbeatInterval
	}
}

func (c *Config) normalizeCreate() {
	c.Create.MatchMove.DefaultVariants = cleanVariants(c.Create.MatchMove.DefaultVariants)
	c.Create.LensDistortion.DefaultVariants = cleanVariants(c.Create.LensDistortion.DefaultVariants)
}

func cleanVariants(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (c *Config) normalizePublish() {
	c.Publish.ExtractMatchmoveScript.Units = strings.ToLower(strings.TrimSpace(c.Publish.ExtractMatchmoveScript.Units))
	if c.Publish.ExtractMatchmoveScript.Units == "" {
		c.Publish.ExtractMatchmoveScript.Units = defaultUnits
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
