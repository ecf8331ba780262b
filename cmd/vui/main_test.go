package main

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/vui/internal/config"
	"github.com/vango-dev/vui/internal/errors"
)

// execute runs the CLI with args against a temporary config directory.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderCounter(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"initial", []string{"render", "--demo", "counter"}, `<span id="count">0</span>`},
		{"clicks", []string{"render", "--demo", "counter", "--clicks", "3"}, `<span id="count">3</span>`},
		{"batched clicks", []string{"render", "-d", "counter", "-n", "3", "--batch"}, `<span id="count">3</span>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, t.TempDir(), tt.args...)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %s:\n%s", tt.want, out)
			}
		})
	}
}

func TestRenderDocument(t *testing.T) {
	out, err := execute(t, t.TempDir(), "render", "--demo", "todo", "--clicks", "2", "--document")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"<body>", `id="item-1"`, `id="item-2"`, "2 remaining"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestUnknownDemo(t *testing.T) {
	_, err := execute(t, t.TempDir(), "render", "--demo", "nope")
	if err == nil || !strings.Contains(err.Error(), "available: boundary, counter, todo") {
		t.Errorf("error = %v", err)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, t.TempDir(), "--log-level", "loud", "render")
	if !errors.HasCode(err, errors.CodeConfigInvalid) {
		t.Errorf("error = %v, want %s", err, errors.CodeConfigInvalid)
	}

	var buf bytes.Buffer
	printError(&buf, err)
	if !strings.Contains(buf.String(), errors.CodeConfigInvalid) {
		t.Errorf("printError output = %q", buf.String())
	}

	buf.Reset()
	printError(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "plain") {
		t.Errorf("printError output = %q", buf.String())
	}
}

func TestSnapshotToDirectory(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out")

	out, err := execute(t, dir, "snapshot", "--demo", "counter", "--clicks", "2", "--dest", dest, "--name", "two")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	loc := strings.TrimSpace(out)
	if loc != filepath.Join(dest, "two.html") {
		t.Errorf("location = %q", loc)
	}
	data, err := os.ReadFile(loc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `<span id="count">2</span>`) {
		t.Errorf("snapshot = %s", data)
	}
}

func TestSnapshotDefaultsFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New()
	cfg.Snapshot.Dir = "snaps"
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, dir, "snapshot")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if want := filepath.Join(dir, "snaps", "todo.html"); strings.TrimSpace(out) != want {
		t.Errorf("location = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestDemosAndVersion(t *testing.T) {
	out, err := execute(t, t.TempDir(), "demos")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"boundary", "counter", "todo"} {
		if !strings.Contains(out, name) {
			t.Errorf("demos output missing %s", name)
		}
	}

	out, err = execute(t, t.TempDir(), "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q", out)
	}
}
