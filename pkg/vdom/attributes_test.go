package vdom

import "testing"

func TestNormalizeClass(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "  a   b ", "a b"},
		{"slice", []string{"a", "", " b c "}, "a b c"},
		{"map", map[string]bool{"z": true, "a": true, "off": false}, "a z"},
		{"other", 5, "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeClass(tt.in); got != tt.want {
				t.Errorf("NormalizeClass() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeStyle(t *testing.T) {
	got := NormalizeStyle(map[string]string{"width": "10px", "color": "red"})
	if got != "color: red; width: 10px" {
		t.Errorf("NormalizeStyle() = %q", got)
	}
	if NormalizeStyle("display: none") != "display: none" {
		t.Error("string styles must pass through")
	}
}
