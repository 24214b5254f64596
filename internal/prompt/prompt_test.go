package prompt

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func newTestPrompter(input string) *Prompter {
	return New(strings.NewReader(input), io.Discard)
}

func TestImageName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "first answer", input: "nginx:1.25\n", want: "nginx:1.25"},
		{name: "whitespace trimmed", input: "  nginx  \n", want: "nginx"},
		{name: "empty lines re-prompt", input: "\n\nnginx\n", want: "nginx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestPrompter(tt.input).ImageName()
			if err != nil {
				t.Fatalf("ImageName: %v", err)
			}
			if got != tt.want {
				t.Errorf("ImageName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImageNameInputClosed(t *testing.T) {
	if _, err := newTestPrompter("").ImageName(); !errors.Is(err, ErrInputClosed) {
		t.Fatalf("err = %v, want ErrInputClosed", err)
	}
}

func TestArchitecture(t *testing.T) {
	archs := []string{"amd64", "arm64", "arm/v7"}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "numbered choice", input: "2\n", want: "arm64"},
		{name: "last entry", input: "3\n", want: "arm/v7"},
		{name: "empty selects default", input: "\n", want: "amd64"},
		{name: "out of range re-prompts", input: "9\n1\n", want: "amd64"},
		{name: "garbage re-prompts", input: "abc\n2\n", want: "arm64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestPrompter(tt.input).Architecture(archs)
			if err != nil {
				t.Fatalf("Architecture: %v", err)
			}
			if got != tt.want {
				t.Errorf("Architecture = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMirror(t *testing.T) {
	mirrors := []string{"https://a.example.com", "https://b.example.com"}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "numbered choice", input: "1\n", want: "https://a.example.com"},
		{name: "second entry", input: "2\n", want: "https://b.example.com"},
		{name: "N declines", input: "N\n", want: ""},
		{name: "lowercase n declines", input: "n\n", want: ""},
		{name: "empty declines", input: "\n", want: ""},
		{name: "out of range re-prompts", input: "5\n1\n", want: "https://a.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestPrompter(tt.input).Mirror(mirrors)
			if err != nil {
				t.Fatalf("Mirror: %v", err)
			}
			if got != tt.want {
				t.Errorf("Mirror = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMirrorNoMirrorsConfigured(t *testing.T) {
	// No menu, no read: must not touch the (empty) input.
	got, err := newTestPrompter("").Mirror(nil)
	if err != nil {
		t.Fatalf("Mirror: %v", err)
	}
	if got != "" {
		t.Errorf("Mirror = %q, want empty", got)
	}
}

func TestMenuOutput(t *testing.T) {
	var out strings.Builder
	p := New(strings.NewReader("1\n"), &out)

	if _, err := p.Architecture([]string{"amd64", "arm64"}); err != nil {
		t.Fatalf("Architecture: %v", err)
	}

	menu := out.String()
	for _, want := range []string{"1. amd64 (default)", "2. arm64"} {
		if !strings.Contains(menu, want) {
			t.Errorf("menu output missing %q:\n%s", want, menu)
		}
	}
}
