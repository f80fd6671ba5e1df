package loudness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Targets holds EBU R128 normalization targets for the loudnorm filter.
type Targets struct {
	Integrated float64
	Range      float64
	TruePeak   float64
}

// Params carries the measurements from the first loudnorm pass. Values are
// kept as the exact strings ffmpeg reported so the second pass echoes them
// back verbatim.
type Params struct {
	InputI       string `json:"input_i"`
	InputTP      string `json:"input_tp"`
	InputLRA     string `json:"input_lra"`
	InputThresh  string `json:"input_thresh"`
	TargetOffset string `json:"target_offset"`

	silent bool
}

// Silent reports whether the measured file carried no usable audio signal.
func (p Params) Silent() bool {
	return p.silent
}

// ErrNoMeasurement indicates the loudnorm JSON block was missing from the
// ffmpeg output.
var ErrNoMeasurement = errors.New("loudnorm measurement not found in ffmpeg output")

const measurementMarker = "[Parsed_loudnorm"

// MeasureFilter renders the first-pass loudnorm filter string.
func (t Targets) MeasureFilter() string {
	return fmt.Sprintf("loudnorm=I=%s:LRA=%s:tp=%s:print_format=json",
		formatTarget(t.Integrated), formatTarget(t.Range), formatTarget(t.TruePeak))
}

// ApplyFilter renders the second-pass loudnorm filter string using measured
// parameters from the first pass.
func (t Targets) ApplyFilter(p Params) string {
	return fmt.Sprintf("loudnorm=I=%s:LRA=%s:tp=%s:measured_I=%s:measured_LRA=%s:measured_tp=%s:measured_thresh=%s:offset=%s",
		formatTarget(t.Integrated), formatTarget(t.Range), formatTarget(t.TruePeak),
		p.InputI, p.InputLRA, p.InputTP, p.InputThresh, p.TargetOffset)
}

// Measure runs the first loudnorm pass over path and returns the measured
// parameters. Silent files are clamped to sentinel values so the second pass
// does not apply infinite gain.
func Measure(ctx context.Context, binary, path string, targets Targets) (Params, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if strings.TrimSpace(path) == "" {
		return Params{}, errors.New("loudness measure: empty path")
	}

	cmd := exec.CommandContext(ctx, binary,
		"-hide_banner",
		"-i", path,
		"-af", targets.MeasureFilter(),
		"-f", "null", "-",
	)
	// The loudnorm filter prints its JSON block to stderr.
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Params{}, fmt.Errorf("loudness measure %s: %w: %s", path, err, tail(string(output), 400))
	}

	params, err := Parse(string(output))
	if err != nil {
		return Params{}, fmt.Errorf("loudness measure %s: %w", path, err)
	}
	return params, nil
}

// Parse extracts and decodes the loudnorm JSON block from raw ffmpeg output
// and applies the sentinel clamping for silent files.
func Parse(output string) (Params, error) {
	block, err := extractJSON(output)
	if err != nil {
		return Params{}, err
	}

	var params Params
	if err := json.Unmarshal([]byte(block), &params); err != nil {
		return Params{}, fmt.Errorf("decode loudnorm output: %w", err)
	}
	params.clamp()
	return params, nil
}

func extractJSON(output string) (string, error) {
	idx := strings.Index(output, measurementMarker)
	if idx < 0 {
		return "", ErrNoMeasurement
	}
	rest := output[idx:]
	open := strings.IndexByte(rest, '{')
	if open < 0 {
		return "", ErrNoMeasurement
	}
	// The loudnorm block is flat JSON, so the first closing brace ends it.
	end := strings.IndexByte(rest[open:], '}')
	if end < 0 {
		return "", ErrNoMeasurement
	}
	return rest[open : open+end+1], nil
}

// clamp caps measured loudness at 0 LUFS and replaces the readings of a
// silent file (integrated loudness of -inf) with sentinel values.
func (p *Params) clamp() {
	measured, err := strconv.ParseFloat(strings.TrimSpace(p.InputI), 64)
	switch {
	case err != nil:
		return
	case math.IsInf(measured, -1):
		p.silent = true
		p.InputI = "-99"
		p.InputTP = "-99"
		p.TargetOffset = "0"
	case measured > 0:
		p.InputI = "0"
	}
}

func formatTarget(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
