package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/smcclab/video-stitcher/internal/logging"
)

// ErrExternalTool marks failures reported by the ffmpeg process itself, as
// opposed to failures launching it.
var ErrExternalTool = errors.New("external tool error")

// Runner executes ffmpeg with logging and optional dry-run behavior.
type Runner struct {
	binary string
	logger *slog.Logger
	dryRun bool
}

// NewRunner constructs a Runner for the given ffmpeg binary.
func NewRunner(binary string, logger *slog.Logger) *Runner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{binary: binary, logger: logging.WithComponent(logger, "ffmpeg")}
}

// DryRun returns a copy of the runner that logs commands without executing them.
func (r *Runner) DryRun() *Runner {
	clone := *r
	clone.dryRun = true
	return &clone
}

// Run invokes ffmpeg with the given arguments. Stderr is captured and its
// tail is folded into the returned error on failure.
func (r *Runner) Run(ctx context.Context, args ...string) error {
	r.logger.Debug("running ffmpeg", logging.String("args", strings.Join(args, " ")))
	if r.dryRun {
		r.logger.Info("dry run, skipping ffmpeg invocation", logging.String("args", strings.Join(args, " ")))
		return nil
	}

	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited with %d: %s", ErrExternalTool, r.binary, exitErr.ExitCode(), stderrTail(stderr.String()))
		}
		return fmt.Errorf("run %s: %w", r.binary, err)
	}
	return nil
}

// stderrTail keeps the last few lines of ffmpeg chatter, which is where the
// actual failure reason lands.
func stderrTail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.TrimSpace(strings.Join(lines, " | "))
}
