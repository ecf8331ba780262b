package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		code    string
		wantMsg string
		wantCat Category
	}{
		{CodeHookOutsideRender, "Hook called outside of a render pass", CategoryRuntime},
		{CodeRenderFailed, "Component render failed", CategoryRender},
		{CodeMountTarget, "Mount target not found", CategoryDisplay},
		{CodeConfigInvalid, "Invalid configuration", CategoryConfig},
		{CodeSnapshotStore, "Snapshot could not be stored", CategoryStorage},
		{"E999", "Unknown error", ""},
	}

	for _, tt := range tests {
		err := New(tt.code)
		if err.Code != tt.code || err.Message != tt.wantMsg || err.Category != tt.wantCat {
			t.Errorf("New(%s) = {%s %q %s}, want {%s %q %s}",
				tt.code, err.Code, err.Message, err.Category, tt.code, tt.wantMsg, tt.wantCat)
		}
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		err  *VuiError
		want string
	}{
		{New(CodeHookOrderChanged), "E002: Hook order changed between renders"},
		{New(CodeRenderFailed).WithComponent("Counter"), "E010: Component render failed (Counter)"},
		{Newf(CategoryCLI, "unknown demo %q", "x"), `unknown demo "x"`},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func writeSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counter.go")
	src := "package app\n\nvar Counter = vui.Func(\"Counter\", func(h *vui.Hooks, p vdom.Props) *vdom.VNode {\n\tn, _ := vui.UseState(h, 0)\n\treturn vdom.Textf(\"%d\", n)\n})\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWithLocation(t *testing.T) {
	path := writeSource(t)

	err := New(CodeRenderFailed).WithLocation(path, 3)
	if err.Location.String() != path+":3" {
		t.Errorf("Location = %s", err.Location)
	}
	// Lines 1 through 5.
	if len(err.Source) != 5 || !strings.Contains(err.Source[2], "vui.Func") {
		t.Errorf("Source = %q", err.Source)
	}

	missing := New(CodeRenderFailed).WithLocation(filepath.Join(t.TempDir(), "gone.go"), 10)
	if missing.Source != nil {
		t.Errorf("Source for missing file = %q", missing.Source)
	}
}

func TestWrapAndFromError(t *testing.T) {
	cause := stderrors.New("boom")
	err := New(CodeRenderFailed).Wrap(cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should see the wrapped cause")
	}

	if FromError(nil, CodeRenderFailed) != nil {
		t.Error("FromError(nil) should be nil")
	}
	if got := FromError(fmt.Errorf("ctx: %w", err), CodeSnapshotStore); got != err {
		t.Error("FromError should unwrap to the existing VuiError")
	}
	if got := FromError(cause, CodeSnapshotStore); got.Code != CodeSnapshotStore || got.Wrapped != cause {
		t.Errorf("FromError(plain) = %+v", got)
	}
}

func TestHasCode(t *testing.T) {
	inner := New(CodeAttributeFailed)
	outer := New(CodeRenderFailed).Wrap(fmt.Errorf("patch: %w", inner))

	tests := []struct {
		err  error
		code string
		want bool
	}{
		{outer, CodeRenderFailed, true},
		{outer, CodeAttributeFailed, true},
		{outer, CodeConfigInvalid, false},
		{fmt.Errorf("plain"), CodeRenderFailed, false},
		{nil, CodeRenderFailed, false},
	}
	for _, tt := range tests {
		if got := HasCode(tt.err, tt.code); got != tt.want {
			t.Errorf("HasCode(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	SetColors(false)
	defer SetColors(true)

	path := writeSource(t)
	stack := strings.Repeat("frame\n", 20)
	err := New(CodeRenderFailed).
		WithComponent("Counter").
		WithLocation(path, 4).
		WithStack(stack).
		WithSuggestion("Wrap the subtree in an error boundary.").
		Wrap(stderrors.New("index out of range"))

	out := err.Format()
	for _, want := range []string{
		"ERROR E010: Component render failed",
		"in Counter",
		path + ":4",
		">    4 | \tn, _ := vui.UseState(h, 0)",
		"cause: index out of range",
		"Hint: Wrap the subtree",
		"... 8 more lines",
		"Docs: https://vui.dev/docs/errors/E010",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format() contains ANSI codes with colors disabled")
	}
}

func TestFormatColors(t *testing.T) {
	SetColors(true)
	if out := New(CodeRenderFailed).Format(); !strings.Contains(out, string(ansiRed)) {
		t.Error("Format() should be styled with colors enabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New(CodeHookOutsideRender)
	err.Location = &Location{File: "app/counter.go", Line: 10}

	want := "app/counter.go:10: E001: Hook called outside of a render pass"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFprint(t *testing.T) {
	SetColors(false)
	defer SetColors(true)

	var buf bytes.Buffer
	Fprint(&buf, fmt.Errorf("loading: %w", New(CodeConfigRead)))
	if !strings.Contains(buf.String(), "ERROR E041") {
		t.Errorf("Fprint(coded) = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, stderrors.New("plain failure"))
	if got := buf.String(); !strings.Contains(got, "ERROR: plain failure") {
		t.Errorf("Fprint(plain) = %q", got)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  int
	}{
		{"", 10, 0},
		{"short text", 100, 1},
		{"this is a longer text that should be wrapped", 20, 3},
		{"unbreakablewordlongerthanwidth", 5, 1},
	}
	for _, tt := range tests {
		if got := wrap(tt.text, tt.width); len(got) != tt.want {
			t.Errorf("wrap(%q, %d) = %q, want %d lines", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestRegistry(t *testing.T) {
	codes := GetAllCodes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	for _, code := range codes {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || !strings.HasSuffix(tmpl.DocURL, code) {
			t.Errorf("template %s = %+v", code, tmpl)
		}
	}
	if _, ok := GetTemplate("E999"); ok {
		t.Error("E999 should not be registered")
	}

	Register("E999", ErrorTemplate{Category: CategoryCLI, Message: "Custom test error"})
	defer delete(registry, "E999")
	if got := New("E999").Message; got != "Custom test error" {
		t.Errorf("Message = %q", got)
	}
}
