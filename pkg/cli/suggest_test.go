package cli

import "testing"

func TestSuggest(t *testing.T) {
	candidates := []string{"verbose", "version", "name", "output"}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "one typo", input: "--verbos", want: "verbose"},
		{name: "transposition", input: "--nmae", want: "name"},
		{name: "strips value", input: "--ouput=x", want: "output"},
		{name: "exact match gives nothing", input: "--name", want: ""},
		{name: "too far", input: "--zzzzzzzz", want: ""},
		{name: "empty", input: "--", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Suggest(tt.input, candidates); got != tt.want {
				t.Errorf("Suggest(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
