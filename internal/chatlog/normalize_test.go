package chatlog

import "testing"

func TestNormalizeForDedup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "안녕",
			want:  "안녕",
		},
		{
			name:  "trailing spaces stripped per line",
			input: "hello   \nworld\t",
			want:  "hello\nworld",
		},
		{
			name:  "crlf canonicalized",
			input: "a\r\nb",
			want:  "a\nb",
		},
		{
			name:  "bare cr canonicalized",
			input: "a\rb",
			want:  "a\nb",
		},
		{
			name:  "leading whitespace preserved",
			input: "  indented",
			want:  "  indented",
		},
		{
			name:  "interior blank lines preserved",
			input: "a\n\nb",
			want:  "a\n\nb",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeForDedup(tt.input); got != tt.want {
				t.Errorf("NormalizeForDedup(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
