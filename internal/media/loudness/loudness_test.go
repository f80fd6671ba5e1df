package loudness

import (
	"errors"
	"strings"
	"testing"
)

const measuredOutput = `Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'clip.mp4':
  Duration: 00:01:33.16, start: 0.000000, bitrate: 2711 kb/s
Output #0, null, to 'pipe:':
[Parsed_loudnorm_0 @ 0x55e9ddd9e0c0]
{
	"input_i" : "-17.82",
	"input_tp" : "-0.94",
	"input_lra" : "11.30",
	"input_thresh" : "-28.36",
	"output_i" : "-23.79",
	"output_tp" : "-6.38",
	"output_lra" : "9.00",
	"output_thresh" : "-34.23",
	"normalization_type" : "dynamic",
	"target_offset" : "0.79"
}
[out#0/null @ 0x55e9ddcf4a00] video:43749KiB audio:17458KiB
`

func TestParseMeasuredOutput(t *testing.T) {
	params, err := Parse(measuredOutput)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if params.InputI != "-17.82" {
		t.Fatalf("input_i: got %q", params.InputI)
	}
	if params.InputTP != "-0.94" {
		t.Fatalf("input_tp: got %q", params.InputTP)
	}
	if params.InputLRA != "11.30" {
		t.Fatalf("input_lra: got %q", params.InputLRA)
	}
	if params.InputThresh != "-28.36" {
		t.Fatalf("input_thresh: got %q", params.InputThresh)
	}
	if params.TargetOffset != "0.79" {
		t.Fatalf("target_offset: got %q", params.TargetOffset)
	}
	if params.Silent() {
		t.Fatal("expected non-silent params")
	}
}

func TestParseClampsSilentFile(t *testing.T) {
	output := strings.NewReplacer(
		`"-17.82"`, `"-inf"`,
		`"-0.94"`, `"-inf"`,
		`"0.79"`, `"inf"`,
	).Replace(measuredOutput)

	params, err := Parse(output)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !params.Silent() {
		t.Fatal("expected silent params")
	}
	if params.InputI != "-99" || params.InputTP != "-99" {
		t.Fatalf("expected sentinel clamping, got input_i=%q input_tp=%q", params.InputI, params.InputTP)
	}
	if params.TargetOffset != "0" {
		t.Fatalf("expected zero offset, got %q", params.TargetOffset)
	}
}

func TestParseClampsPositiveLoudness(t *testing.T) {
	output := strings.ReplaceAll(measuredOutput, `"-17.82"`, `"1.20"`)
	params, err := Parse(output)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if params.InputI != "0" {
		t.Fatalf("expected clamp to 0, got %q", params.InputI)
	}
}

func TestParseMissingBlock(t *testing.T) {
	_, err := Parse("frame=  100 fps= 30 q=-1.0 size=N/A")
	if !errors.Is(err, ErrNoMeasurement) {
		t.Fatalf("expected ErrNoMeasurement, got %v", err)
	}
}

func TestFilters(t *testing.T) {
	targets := Targets{Integrated: -23, Range: 7, TruePeak: -2}

	if got, want := targets.MeasureFilter(), "loudnorm=I=-23:LRA=7:tp=-2:print_format=json"; got != want {
		t.Fatalf("measure filter: got %q want %q", got, want)
	}

	params, err := Parse(measuredOutput)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := "loudnorm=I=-23:LRA=7:tp=-2:measured_I=-17.82:measured_LRA=11.30:measured_tp=-0.94:measured_thresh=-28.36:offset=0.79"
	if got := targets.ApplyFilter(params); got != want {
		t.Fatalf("apply filter:\n got %q\nwant %q", got, want)
	}
}
