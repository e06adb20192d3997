package parody

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "goodbye cruel sea", "goodbye cruel sea"},
		{"surrounding whitespace", "  goodbye cruel sea  ", "goodbye cruel sea"},
		{"double quoted", `"goodbye cruel sea"`, "goodbye cruel sea"},
		{"single quoted", "'goodbye cruel sea'", "goodbye cruel sea"},
		{"contraction not stripped", "don't stop believing", "don't stop believing"},
		{"double then single quoted", `"'goodbye cruel sea'"`, "goodbye cruel sea"},
		{"double quoted containing contraction", `"don't stop believing"`, "don't stop believing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
