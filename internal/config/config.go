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

// Paths contains the directories the pipeline reads from and writes to.
type Paths struct {
	CatalogFile string `toml:"catalog_file"`
	InputsDir   string `toml:"inputs_dir"`
	TmpDir      string `toml:"tmp_dir"`
	OutputDir   string `toml:"output_dir"`
	LogDir      string `toml:"log_dir"`
}

// Catalog describes the CSV layout and row filters.
type Catalog struct {
	IDColumn       string `toml:"id_column"`
	TitleColumn    string `toml:"title_column"`
	AuthorsColumn  string `toml:"authors_column"`
	SessionColumn  string `toml:"session_column"`
	FormatColumn   string `toml:"format_column"`
	PresenceColumn string `toml:"presence_column"`
	// FormatFilter/PresenceFilter restrict rows to matching values.
	// An empty filter keeps every row.
	FormatFilter   string `toml:"format_filter"`
	PresenceFilter string `toml:"presence_filter"`
}

// Encode contains the fixed encode settings applied to every clip.
type Encode struct {
	Width      int      `toml:"width"`
	Height     int      `toml:"height"`
	Framerate  int      `toml:"framerate"`
	FontSize   int      `toml:"font_size"`
	Font       string   `toml:"font"`
	PadColor   string   `toml:"pad_color"`
	OutputExt  string   `toml:"output_ext"`
	Extensions []string `toml:"extensions"`
}

// Loudnorm contains EBU R128 normalization targets.
type Loudnorm struct {
	Integrated float64 `toml:"integrated"`
	Range      float64 `toml:"range"`
	TruePeak   float64 `toml:"true_peak"`
}

// Workflow contains timing knobs for watch mode and history reporting.
type Workflow struct {
	WatchDebounceSeconds int `toml:"watch_debounce_seconds"`
	HistoryLimit         int `toml:"history_limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the stitcher.
//
// Configuration sections by subsystem:
//   - Paths: catalog file plus input/tmp/output/log directories
//   - Catalog: CSV column names and row filters
//   - Encode: canvas size, framerate, and title overlay settings
//   - Loudnorm: loudness normalization targets
//   - Workflow: watch-mode debounce and history listing limits
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Catalog  Catalog  `toml:"catalog"`
	Encode   Encode   `toml:"encode"`
	Loudnorm Loudnorm `toml:"loudnorm"`
	Workflow Workflow `toml:"workflow"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/stitcher/config.toml")
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
		expanded, err := expandPath(path)
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

	projectPath, err := filepath.Abs("stitcher.toml")
	if err != nil {
		return "", false, err
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the working directories the pipeline requires,
// including the catalog file's parent so watch mode can wait for the catalog
// to appear.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.InputsDir, c.Paths.TmpDir, c.Paths.OutputDir, c.Paths.LogDir}
	if c.Paths.CatalogFile != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.CatalogFile))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
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
