package cmd

import (
	"testing"

	"github.com/k-hicham/dailybrief/internal/config"
)

func TestResolveWatch(t *testing.T) {
	cfg := &config.Config{Watch: "from-config"}

	tests := []struct {
		name string
		args []string
		flag string
		env  string
		want string
	}{
		{"args win", []string{"acme", "corp"}, "flagged", "enved", "acme corp"},
		{"flag next", nil, "flagged", "enved", "flagged"},
		{"env next", nil, "", "enved", "enved"},
		{"config last", nil, "", "", "from-config"},
		{"env whitespace ignored", nil, "", "   ", "from-config"},
	}
	for _, tt := range tests {
		flagWatch = tt.flag
		t.Setenv("WATCH_KEYWORD", tt.env)
		if got := resolveWatch(tt.args, cfg); got != tt.want {
			t.Errorf("%s: resolveWatch = %q, want %q", tt.name, got, tt.want)
		}
	}
	flagWatch = ""
}

func TestPatchOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{}
	opts := patchOptions(cfg)
	if opts.StartMarker != "<!-- DAILY BRIEF START -->" || opts.EndMarker != "<!-- DAILY BRIEF END -->" {
		t.Errorf("unexpected markers: %+v", opts)
	}
	if opts.SectionID != "posts" || opts.AnchorTag != "main" {
		t.Errorf("unexpected anchors: %+v", opts)
	}
}
