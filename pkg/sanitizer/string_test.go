package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic trim",
			input: "  Jupiter  ",
			want:  "Jupiter",
		},
		{
			name:  "multiple spaces between words",
			input: "Board    Room",
			want:  "Board Room",
		},
		{
			name:  "tabs and newlines",
			input: "Board\t\nRoom",
			want:  "Board Room",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve non-ascii",
			input: " 会议室 一层西 ",
			want:  "会议室 一层西",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSearchTerm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain term unchanged",
			input: "jupiter",
			want:  "jupiter",
		},
		{
			name:  "regex metacharacters escaped",
			input: "(a+)+b",
			want:  `\(a\+\)\+b`,
		},
		{
			name:  "dot escaped",
			input: "floor.west",
			want:  `floor\.west`,
		},
		{
			name:  "control characters stripped",
			input: "jup\x00iter",
			want:  "jupiter",
		},
		{
			name:  "whitespace collapsed before escaping",
			input: "  board   room  ",
			want:  "board room",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchTerm(tt.input)
			if got != tt.want {
				t.Errorf("SearchTerm(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
