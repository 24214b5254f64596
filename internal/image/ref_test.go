package image

import (
	"errors"
	"testing"
	"time"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantTag  string
	}{
		{
			name:     "bare name gets default tag",
			input:    "nginx",
			wantName: "nginx",
			wantTag:  "latest",
		},
		{
			name:     "name with tag",
			input:    "nginx:1.25",
			wantName: "nginx",
			wantTag:  "1.25",
		},
		{
			name:     "namespaced name",
			input:    "grafana/loki:2.9",
			wantName: "grafana/loki",
			wantTag:  "2.9",
		},
		{
			name:     "split at first colon only",
			input:    "registry.example.com:5000/app:v1",
			wantName: "registry.example.com",
			wantTag:  "5000/app:v1",
		},
		{
			name:     "unsafe characters replaced",
			input:    "my image!:tag",
			wantName: "my_image_",
			wantTag:  "tag",
		},
		{
			name:     "allowed punctuation preserved",
			input:    "a-b_c.d/e:1",
			wantName: "a-b_c.d/e",
			wantTag:  "1",
		},
		{
			name:     "trailing colon gets default tag",
			input:    "nginx:",
			wantName: "nginx",
			wantTag:  "latest",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  nginx:1.25  ",
			wantName: "nginx",
			wantTag:  "1.25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseRef(tt.input)
			if err != nil {
				t.Fatalf("ParseRef(%q): %v", tt.input, err)
			}
			if ref.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", ref.Name, tt.wantName)
			}
			if ref.Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", ref.Tag, tt.wantTag)
			}
		})
	}
}

func TestParseRefRejectsEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", ":latest"} {
		if _, err := ParseRef(input); !errors.Is(err, ErrInvalidReference) {
			t.Errorf("ParseRef(%q) err = %v, want ErrInvalidReference", input, err)
		}
	}
}

func TestPullRef(t *testing.T) {
	tests := []struct {
		name   string
		ref    Ref
		mirror string
		want   string
	}{
		{
			name:   "no mirror",
			ref:    Ref{Name: "nginx", Tag: "latest"},
			mirror: "",
			want:   "nginx:latest",
		},
		{
			name:   "official image routed through library",
			ref:    Ref{Name: "nginx", Tag: "1.25"},
			mirror: "mirror.example.com",
			want:   "mirror.example.com/library/nginx:1.25",
		},
		{
			name:   "namespaced image prefixed directly",
			ref:    Ref{Name: "grafana/loki", Tag: "2.9"},
			mirror: "mirror.example.com",
			want:   "mirror.example.com/grafana/loki:2.9",
		},
		{
			name:   "https scheme stripped",
			ref:    Ref{Name: "nginx", Tag: "latest"},
			mirror: "https://mirror.example.com",
			want:   "mirror.example.com/library/nginx:latest",
		},
		{
			name:   "http scheme stripped",
			ref:    Ref{Name: "nginx", Tag: "latest"},
			mirror: "http://mirror.example.com",
			want:   "mirror.example.com/library/nginx:latest",
		},
		{
			name:   "trailing slash stripped",
			ref:    Ref{Name: "nginx", Tag: "latest"},
			mirror: "https://mirror.example.com/",
			want:   "mirror.example.com/library/nginx:latest",
		},
		{
			name:   "mirror with port",
			ref:    Ref{Name: "grafana/loki", Tag: "2.9"},
			mirror: "mirror.example.com:5000",
			want:   "mirror.example.com:5000/grafana/loki:2.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.PullRef(tt.mirror); got != tt.want {
				t.Errorf("PullRef(%q) = %q, want %q", tt.mirror, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := []string{
		"nginx:latest",
		"grafana/loki:2.9",
		"mirror.example.com/library/nginx:1.25",
		"mirror.example.com:5000/grafana/loki:2.9",
	}
	for _, ref := range valid {
		if err := Validate(ref); err != nil {
			t.Errorf("Validate(%q): %v", ref, err)
		}
	}

	invalid := []string{
		"Nginx:latest",
		"nginx:la test",
		"mirror//nginx:latest",
	}
	for _, ref := range invalid {
		if err := Validate(ref); !errors.Is(err, ErrInvalidReference) {
			t.Errorf("Validate(%q) err = %v, want ErrInvalidReference", ref, err)
		}
	}
}

func TestFileBase(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC)

	tests := []struct {
		name string
		ref  Ref
		arch string
		want string
	}{
		{
			name: "simple name",
			ref:  Ref{Name: "nginx", Tag: "1.25"},
			arch: "amd64",
			want: "nginx_1.25_amd64_20240315_093045",
		},
		{
			name: "namespace slash replaced",
			ref:  Ref{Name: "grafana/loki", Tag: "2.9"},
			arch: "arm64",
			want: "grafana_loki_2.9_arm64_20240315_093045",
		},
		{
			name: "arch variant slug",
			ref:  Ref{Name: "nginx", Tag: "latest"},
			arch: "arm/v7",
			want: "nginx_latest_arm-v7_20240315_093045",
		},
		{
			name: "colon in tag replaced",
			ref:  Ref{Name: "app", Tag: "v1:beta"},
			arch: "amd64",
			want: "app_v1_beta_amd64_20240315_093045",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.FileBase(tt.arch, now); got != tt.want {
				t.Errorf("FileBase = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileBaseDistinctTimestamps(t *testing.T) {
	ref := Ref{Name: "nginx", Tag: "latest"}
	a := ref.FileBase("amd64", time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC))
	b := ref.FileBase("amd64", time.Date(2024, 3, 15, 9, 30, 46, 0, time.UTC))
	if a == b {
		t.Fatalf("file names for different times collide: %q", a)
	}
}

func TestOfficial(t *testing.T) {
	if !(Ref{Name: "nginx"}).Official() {
		t.Error("nginx should be official")
	}
	if (Ref{Name: "grafana/loki"}).Official() {
		t.Error("grafana/loki should not be official")
	}
}

func TestSupported(t *testing.T) {
	for _, arch := range Architectures {
		if !Supported(arch) {
			t.Errorf("Supported(%q) = false, want true", arch)
		}
	}
	if Supported("s390x") {
		t.Error("Supported(s390x) = true, want false")
	}
}

func TestPlatform(t *testing.T) {
	if got := Platform("arm/v7"); got != "linux/arm/v7" {
		t.Errorf("Platform = %q, want %q", got, "linux/arm/v7")
	}
}
