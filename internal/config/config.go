package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains local state locations.
type Paths struct {
	LogDir    string `toml:"log_dir"`
	ProjectDB string `toml:"project_db"`
}

// Host selects where the project notes live.
type Host struct {
	// Backend is "workfile" (notes are the project file on disk) or "sqlite"
	// (notes rows in the project database).
	Backend string `toml:"backend"`
	// NativeDocuments stores the AYON document as key/value rows instead of
	// embedding it in the notes text. Only meaningful for the sqlite backend.
	NativeDocuments    bool     `toml:"native_documents"`
	WorkfileExtensions []string `toml:"workfile_extensions"`
}

// Addon contains host integration settings.
type Addon struct {
	// HeartbeatInterval is the interval in milliseconds at which the host
	// hands control to the pipeline UI event loop.
	HeartbeatInterval int `toml:"heartbeat_interval"`
}

// Creator contains settings shared by every creator plugin.
type Creator struct {
	Enabled         bool     `toml:"enabled"`
	DefaultVariants []string `toml:"default_variants"`
}

// Create groups creator plugin settings.
type Create struct {
	MatchMove      Creator `toml:"matchmove"`
	LensDistortion Creator `toml:"lens_distortion"`
}

// ExtractMatchmoveScript contains export options for matchmove scripts.
type ExtractMatchmoveScript struct {
	HideReferenceFrame    bool   `toml:"hide_reference_frame"`
	ExportUVTextures      bool   `toml:"export_uv_textures"`
	OverscanPercentWidth  int    `toml:"overscan_percent_width"`
	OverscanPercentHeight int    `toml:"overscan_percent_height"`
	Units                 string `toml:"units"`
}

// Publish groups publish plugin settings.
type Publish struct {
	ExtractMatchmoveScript ExtractMatchmoveScript `toml:"extract_matchmove_script"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values.
//
// Sections:
//   - Paths: log directory and project database location
//   - Host: notes backend selection
//   - Addon: heartbeat interval passed to the host at launch
//   - Create: creator plugin defaults
//   - Publish: extractor options
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Host    Host    `toml:"host"`
	Addon   Addon   `toml:"addon"`
	Create  Create  `toml:"create"`
	Publish Publish `toml:"publish"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and environment overrides applied.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("equalizer.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories local state is written to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.Host.Backend == BackendSQLite && c.Paths.ProjectDB != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.ProjectDB))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Encode renders the config as TOML, used by `config show`.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
