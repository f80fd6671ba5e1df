package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smcclab/video-stitcher/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CatalogFile = filepath.Join(base, "data", "data.csv")
	cfgVal.Paths.InputsDir = filepath.Join(base, "videos", "inputs")
	cfgVal.Paths.TmpDir = filepath.Join(base, "videos", "tmp")
	cfgVal.Paths.OutputDir = filepath.Join(base, "videos", "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "videos", "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed
// with scripts that exit successfully.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		for _, name := range names {
			StubBinary(b.t, b.cfg, name, "exit 0\n")
		}
	}
}

// StubBinary installs a stub executable with the given shell body into the
// bin directory of the config's workspace and prepends that directory to
// PATH for the remainder of the test.
func StubBinary(t testing.TB, cfg *config.Config, name, script string) {
	t.Helper()

	binDir := filepath.Join(BaseDir(cfg), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}

	oldPath := os.Getenv("PATH")
	if strings.HasPrefix(oldPath, binDir+string(os.PathListSeparator)) {
		return
	}
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Paths.InputsDir))
}
