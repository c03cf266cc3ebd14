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

// Paths contains directory configuration.
type Paths struct {
	InboxDir      string `toml:"inbox_dir"`
	VaultDir      string `toml:"vault_dir"`
	LogDir        string `toml:"log_dir"`
	QuarantineDir string `toml:"quarantine_dir"`
	DuplicatesDir string `toml:"duplicates_dir"`
}

// Categories maps classification categories to vault folder names.
type Categories struct {
	Photos    string `toml:"photos"`
	Documents string `toml:"documents"`
	Videos    string `toml:"videos"`
	Audio     string `toml:"audio"`
	Archives  string `toml:"archives"`
	Other     string `toml:"other"`
}

// Naming contains filename generation settings.
type Naming struct {
	Pattern           string `toml:"pattern"`
	MaxFilenameLength int    `toml:"max_filename_length"`
	MaxPathLength     int    `toml:"max_path_length"`
}

// Integrity contains content hashing settings.
type Integrity struct {
	HashAlgorithm string `toml:"hash_algorithm"`
}

// Run contains batch execution settings.
type Run struct {
	Workers            int     `toml:"workers"`
	AmbiguityThreshold float64 `toml:"ambiguity_threshold"`
	WatchSchedule      string  `toml:"watch_schedule"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for curator.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Categories Categories `toml:"categories"`
	Naming     Naming     `toml:"naming"`
	Integrity  Integrity  `toml:"integrity"`
	Run        Run        `toml:"run"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/curator/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
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
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("curator.toml")
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

// EnsureDirectories creates the directories a run needs. The vault directory is
// created on a best-effort basis so preview runs work when storage is offline.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.InboxDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.VaultDir) != "" {
		_ = os.MkdirAll(c.Paths.VaultDir, 0o755)
	}
	return nil
}

// QuarantineRoot returns the quarantine directory, defaulting under the vault.
func (c *Config) QuarantineRoot() string {
	if strings.TrimSpace(c.Paths.QuarantineDir) != "" {
		return c.Paths.QuarantineDir
	}
	return filepath.Join(c.Paths.VaultDir, "quarantine")
}

// DuplicatesRoot returns the duplicates directory, defaulting under the vault.
func (c *Config) DuplicatesRoot() string {
	if strings.TrimSpace(c.Paths.DuplicatesDir) != "" {
		return c.Paths.DuplicatesDir
	}
	return filepath.Join(c.Paths.VaultDir, "duplicates")
}

// CategoryFolder returns the configured vault folder name for a category key.
func (c *Config) CategoryFolder(category string) string {
	switch category {
	case "photos":
		return c.Categories.Photos
	case "documents":
		return c.Categories.Documents
	case "videos":
		return c.Categories.Videos
	case "audio":
		return c.Categories.Audio
	case "archives":
		return c.Categories.Archives
	default:
		return c.Categories.Other
	}
}

// ExpandPath resolves ~ prefixes and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
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
