package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	offeringio "github.com/matzehuels/vmslayers/pkg/io"
	"github.com/matzehuels/vmslayers/pkg/layer"
	"github.com/matzehuels/vmslayers/pkg/pipeline"
)

const navOfferings = `
[[offering]]
publisher = "nav"

[[offering.dependency]]
layer = "1:2"
depends_on = ["3:4"]

[[offering.dependency]]
layer = "5:6"

[[offering.dependency]]
layer = "7:8"
depends_on = ["5:6"]
`

// isolate points every config and cache location at fresh temp dirs and
// returns the cache home.
func isolate(t *testing.T) string {
	t.Helper()
	cacheHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	t.Setenv(envConfig, "")
	t.Setenv(envCacheBackend, "")
	t.Setenv(envRedisURL, "")
	return cacheHome
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	isolate(t)
	file := writeFile(t, "nav.toml", navOfferings)

	out, err := execute(t, "resolve", file)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, want := range []string{"2 layers available", "5:6", "7:8", "2 layers unavailable", "1:2", "3:4", "(missing)", "fresh"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "resolve", file)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(out, "cached") {
		t.Errorf("second run not cached:\n%s", out)
	}
}

func TestResolveCommand_JSON(t *testing.T) {
	isolate(t)
	file := writeFile(t, "nav.toml", navOfferings)
	report := filepath.Join(t.TempDir(), "report.json")

	out, err := execute(t, "resolve", "--json", "--no-cache", "-o", report, file)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	result, err := offeringio.ReadReport(strings.NewReader(out))
	if err != nil {
		t.Fatalf("stdout is not a report: %v\n%s", err, out)
	}
	if !result.IsAvailable(layer.New(7, 8)) || result.IsAvailable(layer.New(1, 2)) {
		t.Errorf("Available() = %v", result.Available())
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("report file: %v", err)
	}
	if string(data) != out {
		t.Errorf("report file differs from stdout:\n%s\n---\n%s", data, out)
	}
}

func TestResolveCommand_UnionsFiles(t *testing.T) {
	isolate(t)
	nav := writeFile(t, "nav.toml", navOfferings)
	weather := writeFile(t, "weather.json", `{"offerings":[{"publisher":"weather","dependencies":[{"layer":"3:4"}]}]}`)

	out, err := execute(t, "resolve", "--no-cache", nav, weather)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(out, "4 layers available") {
		t.Errorf("output:\n%s", out)
	}
}

func TestResolveCommand_Errors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
	}{
		{"no files", []string{"resolve"}},
		{"missing file", []string{"resolve", filepath.Join(t.TempDir(), "none.toml")}},
		{"bad extension", []string{"resolve", writeFile(t, "o.yaml", "")}},
		{"bad layer", []string{"resolve", writeFile(t, "o.toml", "[[offering]]\n[[offering.dependency]]\nlayer = \"x\"\n")}},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "c.toml"), "resolve", writeFile(t, "ok.toml", navOfferings)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfigDisablesCache(t *testing.T) {
	isolate(t)
	file := writeFile(t, "nav.toml", navOfferings)
	config := writeFile(t, "config.toml", "[cache]\nbackend = \"none\"\n")

	for i := 0; i < 2; i++ {
		out, err := execute(t, "--config", config, "resolve", file)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if strings.Contains(out, "cached") {
			t.Errorf("run %d hit a disabled cache:\n%s", i, out)
		}
	}
}

func TestGraphCommand(t *testing.T) {
	isolate(t)
	file := writeFile(t, "nav.toml", navOfferings)

	out, err := execute(t, "graph", file)
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if !strings.HasPrefix(out, "digraph G {") || !strings.Contains(out, `"7:8" -> "5:6";`) {
		t.Errorf("unexpected DOT:\n%s", out)
	}

	svgPath := filepath.Join(t.TempDir(), "layers.svg")
	for i := 0; i < 2; i++ {
		if _, err := execute(t, "graph", "--detailed", "-o", svgPath, file); err != nil {
			t.Fatalf("graph svg: %v", err)
		}
	}
	data, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("%s is not SVG", svgPath)
	}
}

func TestGraphFormat(t *testing.T) {
	tests := []struct {
		flag, output string
		want         string
		wantErr      bool
	}{
		{"", "", pipeline.FormatDOT, false},
		{"", "out.svg", pipeline.FormatSVG, false},
		{"", "out.gv", pipeline.FormatDOT, false},
		{"dot", "out.svg", pipeline.FormatDOT, false},
		{"SVG", "", pipeline.FormatSVG, false},
		{"", "out.png", "", true},
		{"pdf", "", "", true},
	}
	for _, tt := range tests {
		got, err := graphFormat(tt.flag, tt.output)
		if (err != nil) != tt.wantErr {
			t.Errorf("graphFormat(%q, %q) error = %v, wantErr %v", tt.flag, tt.output, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("graphFormat(%q, %q) = %q, want %q", tt.flag, tt.output, got, tt.want)
		}
	}
}

func TestReplayCommand(t *testing.T) {
	isolate(t)
	boot := writeFile(t, "boot.toml", "[[offering]]\npublisher = \"a\"\n[[offering.dependency]]\nlayer = \"1:0\"\n")
	online := writeFile(t, "online.toml", "[[offering]]\npublisher = \"b\"\n[[offering.dependency]]\nlayer = \"2:0\"\ndepends_on = [\"1:0\"]\n")
	offline := writeFile(t, "offline.toml", "[[offering]]\npublisher = \"a\"\n")

	out, err := execute(t, "replay", "--no-cache", boot, online, offline)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	for _, want := range []string{"#1 +1:0", "#2 +2:0", "#3 -1:0 -2:0", "No layers available", "2 layers unavailable"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReplayCommand_AnonymousOfferings(t *testing.T) {
	isolate(t)
	first := writeFile(t, "cam.toml", "[[offering]]\n[[offering.dependency]]\nlayer = \"4:1\"\n")
	second := writeFile(t, "cam.json", `{"offerings":[{"dependencies":[{"layer":"4:2"}]}]}`)

	out, err := execute(t, "replay", "--no-cache", first, second)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	// Both files map to publisher "cam", so the second replaces the first.
	if !strings.Contains(out, "#2 +4:2 -4:1") {
		t.Errorf("output:\n%s", out)
	}
}

func TestCacheCommands(t *testing.T) {
	cacheHome := isolate(t)
	file := writeFile(t, "nav.toml", navOfferings)

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if want := filepath.Join(cacheHome, appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}

	if _, err := execute(t, "resolve", file); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	out, err = execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("cache clear output:\n%s", out)
	}

	out, err = execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("second clear output:\n%s", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := execute(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, appName) {
			t.Errorf("completion %s does not mention %s", shell, appName)
		}
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
