package macro

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDirective(t *testing.T) {
	type result struct {
		ID, Value string
		OK        bool
	}
	tests := []struct {
		name  string
		input string
		want  result
	}{
		{"simple", "#define VER 2", result{"VER", "2", true}},
		{"tabs", "#define\tVER\t\t2\n", result{"VER", "2", true}},
		{"value stops at blank", "#define A hello world", result{"A", "hello", true}},
		{"value stops at newline", "#define A 1\n", result{"A", "1", true}},
		{"value stops at carriage return", "#define A 1\r\n", result{"A", "1", true}},
		{"no value", "#define A", result{"A", "", true}},
		{"no value trailing blanks", "#define A   \n", result{"A", "", true}},
		{"no name", "#define", result{"", "", true}},
		{"name glued to keyword", "#defineFOO 1", result{"FOO", "1", true}},
		{"name stops at punctuation", "#define A(x) x", result{"A", "(x)", true}},
		{"indented is not a directive", "  #define A 1", result{}},
		{"other directive", "#include <x>", result{}},
		{"plain text", "build VER", result{}},
		{"short line", "#def", result{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, value, ok := ParseDirective(tt.input)
			if diff := cmp.Diff(tt.want, result{id, value, ok}); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
			if IsDirective(tt.input) != ok {
				t.Errorf("IsDirective disagrees with ParseDirective")
			}
		})
	}
}

func TestValidIdentifier(t *testing.T) {
	for s, want := range map[string]bool{
		"A": true, "_": true, "a1_B": true, "9": true,
		"": false, "A-B": false, "A B": false, "é": false, "A=": false,
	} {
		if got := ValidIdentifier(s); got != want {
			t.Errorf("ValidIdentifier(%q) = %v, want %v", s, got, want)
		}
	}
}
