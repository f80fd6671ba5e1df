package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/smcclab/video-stitcher/internal/logging"
)

func writeStub(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestRunSuccess(t *testing.T) {
	stub := writeStub(t, "exit 0\n")
	runner := NewRunner(stub, logging.NewNop())
	if err := runner.Run(context.Background(), "-version"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

func TestRunFailureCarriesStderrTail(t *testing.T) {
	stub := writeStub(t, "echo 'clip.mp4: Invalid data found when processing input' >&2\nexit 1\n")
	runner := NewRunner(stub, logging.NewNop())

	err := runner.Run(context.Background(), "-i", "clip.mp4")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("error missing stderr tail: %v", err)
	}
}

func TestRunDryRunSkipsExecution(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "ran")
	stub := writeStub(t, "touch "+marker+"\n")
	runner := NewRunner(stub, logging.NewNop()).DryRun()

	if err := runner.Run(context.Background(), "-i", "a.mp4"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatal("dry run should not execute the binary")
	}
}

func TestRunCanceledContext(t *testing.T) {
	stub := writeStub(t, "sleep 10\n")
	runner := NewRunner(stub, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := runner.Run(ctx, "-i", "a.mp4")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
