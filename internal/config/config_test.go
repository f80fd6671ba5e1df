package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smcclab/video-stitcher/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if !filepath.IsAbs(cfg.Paths.InputsDir) {
		t.Fatalf("expected absolute inputs dir, got %q", cfg.Paths.InputsDir)
	}
	if cfg.Encode.Width != 1920 || cfg.Encode.Height != 1080 {
		t.Fatalf("unexpected canvas: %dx%d", cfg.Encode.Width, cfg.Encode.Height)
	}
	if cfg.Loudnorm.Integrated != -23 {
		t.Fatalf("unexpected integrated target: %g", cfg.Loudnorm.Integrated)
	}
	if cfg.Catalog.FormatFilter != "poster" || cfg.Catalog.PresenceFilter != "remote" {
		t.Fatalf("unexpected filters: %q/%q", cfg.Catalog.FormatFilter, cfg.Catalog.PresenceFilter)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
}

func TestLoadExplicitFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stitcher.toml")
	content := `
[paths]
catalog_file = "` + filepath.Join(dir, "data", "data.csv") + `"
inputs_dir = "` + filepath.Join(dir, "in") + `"
tmp_dir = "` + filepath.Join(dir, "tmp") + `"
output_dir = "` + filepath.Join(dir, "out") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[encode]
framerate = 25
extensions = ["MKV", ".mp4", "mkv"]

[catalog]
format_filter = ""
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected %q to resolve, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Encode.Framerate != 25 {
		t.Fatalf("unexpected framerate: %d", cfg.Encode.Framerate)
	}
	want := []string{".mkv", ".mp4"}
	if len(cfg.Encode.Extensions) != len(want) {
		t.Fatalf("unexpected extensions: %v", cfg.Encode.Extensions)
	}
	for i, ext := range want {
		if cfg.Encode.Extensions[i] != ext {
			t.Fatalf("unexpected extensions: %v", cfg.Encode.Extensions)
		}
	}
	if cfg.Catalog.FormatFilter != "" {
		t.Fatalf("expected empty format filter, got %q", cfg.Catalog.FormatFilter)
	}
	// Untouched sections keep defaults.
	if cfg.Encode.Width != 1920 {
		t.Fatalf("unexpected width: %d", cfg.Encode.Width)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.InputsDir, cfg.Paths.TmpDir, cfg.Paths.OutputDir, cfg.Paths.LogDir, filepath.Dir(cfg.Paths.CatalogFile)} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "zero framerate",
			mutate: func(c *config.Config) { c.Encode.Framerate = 0 },
			want:   "framerate",
		},
		{
			name:   "oversized font",
			mutate: func(c *config.Config) { c.Encode.FontSize = 600 },
			want:   "font_size",
		},
		{
			name:   "positive integrated target",
			mutate: func(c *config.Config) { c.Loudnorm.Integrated = 5 },
			want:   "integrated",
		},
		{
			name:   "tmp equals output",
			mutate: func(c *config.Config) { c.Paths.TmpDir = c.Paths.OutputDir },
			want:   "must differ",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadMissingExplicitPathUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "absent.toml")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected missing file to report exists=false")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Encode.OutputExt != ".mp4" {
		t.Fatalf("unexpected output ext: %q", cfg.Encode.OutputExt)
	}
}
