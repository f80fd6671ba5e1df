package main

import (
	"bytes"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/smcclab/video-stitcher/internal/config"
	"github.com/smcclab/video-stitcher/internal/testsupport"
)

// ffmpegScript answers the loudness measurement pass with canned loudnorm
// JSON and fakes every other invocation by writing its final argument.
const ffmpegScript = `case "$*" in
*"-f null"*)
cat >&2 <<'EOF'
[Parsed_loudnorm_0 @ 0x0]
{
	"input_i" : "-17.82",
	"input_tp" : "-0.94",
	"input_lra" : "11.30",
	"input_thresh" : "-28.36",
	"target_offset" : "0.79"
}
EOF
;;
*)
for last; do :; done
echo encoded > "$last"
;;
esac
exit 0
`

const ffprobeScript = `echo '{"streams":[{"codec_type":"video","width":640,"height":480},{"codec_type":"audio","channels":2}],"format":{"duration":"10.500000"}}'
exit 0
`

const testCSV = `id,title,authors-names,session_code,format,presence
101,First Talk,Ada,S1,poster,remote
102,Second Talk,Grace,S1,poster,remote
201,Solo Talk,Alan,S2,poster,remote
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}

	cfg := testsupport.NewConfig(t)
	testsupport.StubBinary(t, cfg, "ffmpeg", ffmpegScript)
	testsupport.StubBinary(t, cfg, "ffprobe", ffprobeScript)

	testsupport.WriteFile(t, cfg.Paths.CatalogFile, []byte(testCSV))
	past := time.Now().Add(-time.Hour)
	for _, name := range []string{"101.mp4", "102.mkv", "201.mp4"} {
		path := filepath.Join(cfg.Paths.InputsDir, name)
		testsupport.WriteFile(t, path, []byte("source"))
		testsupport.Touch(t, path, past)
	}

	rendered, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	testsupport.WriteFile(t, configPath, rendered)

	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output missing %q:\n%s", needle, haystack)
	}
}

func TestRenderCommandRendersSessions(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "render")
	if err != nil {
		t.Fatalf("render: %v\n%s", err, out)
	}
	requireContains(t, out, "S1")
	requireContains(t, out, "S2")
	requireContains(t, out, "rendered")
	requireContains(t, out, "video_S1.mp4")

	// Second run hits the freshness check.
	out, err = runCLI(t, env, "render")
	if err != nil {
		t.Fatalf("second render: %v\n%s", err, out)
	}
	requireContains(t, out, "fresh")
}

func TestRenderCommandSessionFilterRejectsUnknownCode(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "render", "S9")
	if err == nil {
		t.Fatalf("expected error for unknown session, got output:\n%s", out)
	}
	if !strings.Contains(err.Error(), "S9") {
		t.Fatalf("error does not name the unknown session: %v", err)
	}
}

func TestRenderCommandDryRunCreatesNoOutputs(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "render", "--dry-run")
	if err != nil {
		t.Fatalf("render --dry-run: %v\n%s", err, out)
	}

	entries, err := filepath.Glob(filepath.Join(env.cfg.Paths.OutputDir, "*"))
	if err != nil {
		t.Fatalf("glob outputs: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("dry run created outputs: %v", entries)
	}
}

func TestStatusCommandShowsHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	if out, err := runCLI(t, env, "render", "S1"); err != nil {
		t.Fatalf("render: %v\n%s", err, out)
	}

	out, err := runCLI(t, env, "status")
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	requireContains(t, out, "S1")
	requireContains(t, out, "rendered")

	out, err = runCLI(t, env, "status", "--json")
	if err != nil {
		t.Fatalf("status --json: %v\n%s", err, out)
	}
	requireContains(t, out, `"Session": "S1"`)
}

func TestStatusCommandEmptyHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "status")
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	requireContains(t, out, "No render history yet")
}

func TestCatalogCommandListsRows(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "catalog")
	if err != nil {
		t.Fatalf("catalog: %v\n%s", err, out)
	}
	requireContains(t, out, "First Talk")
	requireContains(t, out, "102.mkv")
	requireContains(t, out, "S2")
}

func TestCatalogCommandFlagsMissingInputs(t *testing.T) {
	env := setupCLITestEnv(t)

	csv := testCSV + "301,Ghost Talk,Tove,S3,poster,remote\n"
	testsupport.WriteFile(t, env.cfg.Paths.CatalogFile, []byte(csv))

	out, err := runCLI(t, env, "catalog")
	if err != nil {
		t.Fatalf("catalog: %v\n%s", err, out)
	}
	requireContains(t, out, "Ghost Talk")
	requireContains(t, out, "missing")
}
