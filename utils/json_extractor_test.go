package utils

import (
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain object",
			input: `{"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "json fence",
			input: "```json\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "bare fence",
			input: "```\n[1,2,3]\n```",
			want:  `[1,2,3]`,
		},
		{
			name:  "leading prose",
			input: "Here is the result you asked for: {\"a\":1}",
			want:  `{"a":1}`,
		},
		{
			name:  "trailing prose",
			input: "{\"a\":1}\nLet me know if you need anything else.",
			want:  `{"a":1}`,
		},
		{
			name:  "braces inside strings",
			input: `prefix {"text":"a } inside \" quote"} suffix`,
			want:  `{"text":"a } inside \" quote"}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSON(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractJSONNoJSON(t *testing.T) {
	for _, input := range []string{"", "no json here", "{ broken"} {
		if _, err := ExtractJSON(input); !errors.Is(err, ErrNoJSONFound) {
			t.Errorf("input %q: err = %v, want ErrNoJSONFound", input, err)
		}
	}
}

func TestExtractJSONTo(t *testing.T) {
	var target struct {
		Notes string `json:"notes"`
	}
	if err := ExtractJSONTo("```json\n{\"notes\":\"ok\"}\n```", &target); err != nil {
		t.Fatal(err)
	}
	if target.Notes != "ok" {
		t.Errorf("notes = %q", target.Notes)
	}

	if err := ExtractJSONTo("not json", &target); err == nil {
		t.Error("expected an error for non-JSON input")
	}
}
