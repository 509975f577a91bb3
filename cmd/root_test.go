package cmd

import (
	"testing"
	"time"

	"github.com/ttakei/newsarc/internal/archive"
	"github.com/ttakei/newsarc/internal/config"
)

func TestParseSince(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		err   bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"24h", 24 * time.Hour, false},
		{"30m", 30 * time.Minute, false},
		{"2h30m", 2*time.Hour + 30*time.Minute, false},
		{"invalid", 0, true},
		{"", 0, true},
		{"d", 0, true},
	}

	for _, tt := range tests {
		got, err := parseSince(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("parseSince(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseSince(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseSince(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewFetcherPicksTransport(t *testing.T) {
	defer func() { flagData = "" }()

	flagData = "https://news.example.jp"
	f, err := newFetcher(&config.Config{})
	if err != nil {
		t.Fatalf("http target: %v", err)
	}
	if _, ok := f.(*archive.HTTPFetcher); !ok {
		t.Errorf("got %T, want HTTPFetcher", f)
	}

	flagData = "/tmp/archive-root"
	f, err = newFetcher(&config.Config{})
	if err != nil {
		t.Fatalf("dir target: %v", err)
	}
	if _, ok := f.(*archive.DirFetcher); !ok {
		t.Errorf("got %T, want DirFetcher", f)
	}
}

func TestResolveMonths(t *testing.T) {
	defer func() { flagMonths = -1 }()

	cfg := &config.Config{LatestMonths: 6}

	flagMonths = -1
	if got := resolveMonths(cfg); got != 6 {
		t.Errorf("default months = %d, want config value", got)
	}

	flagMonths = 0
	if got := resolveMonths(cfg); got != 0 {
		t.Errorf("months = %d, want 0 (whole archive)", got)
	}

	flagMonths = 12
	if got := resolveMonths(cfg); got != 12 {
		t.Errorf("months = %d, want flag value", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
