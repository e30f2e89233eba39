package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"xposter/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "xposter")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7519" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Share.Template != "%title% %link%" {
		t.Fatalf("unexpected template: %q", cfg.Share.Template)
	}
	if cfg.Share.Interval != 300 {
		t.Fatalf("unexpected share interval: %d", cfg.Share.Interval)
	}
	if cfg.Share.ExcerptWords != 10 {
		t.Fatalf("unexpected excerpt words: %d", cfg.Share.ExcerptWords)
	}
	if cfg.Source.MediaCacheDir != filepath.Join(wantData, "media") {
		t.Fatalf("unexpected media cache dir: %q", cfg.Source.MediaCacheDir)
	}
	if cfg.TwitterConfigured() {
		t.Fatal("expected no twitter credentials by default")
	}
	if cfg.QueueDBPath() != filepath.Join(wantData, "queue.db") {
		t.Fatalf("unexpected queue db path: %q", cfg.QueueDBPath())
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	body := `[paths]
data_dir = "` + filepath.Join(base, "data") + `"
log_dir = "` + filepath.Join(base, "logs") + `"

[source]
base_url = "https://blog.example.test/"

[twitter]
bearer_token = "  token-with-spaces  "

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Source.BaseURL != "https://blog.example.test" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Source.BaseURL)
	}
	if cfg.Twitter.BearerToken != "token-with-spaces" {
		t.Fatalf("expected token trimmed, got %q", cfg.Twitter.BearerToken)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging fields, got %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "empty template",
			body: "[share]\ntemplate = \" \"\n",
			want: "share.template",
		},
		{
			name: "non-positive interval",
			body: "[share]\ninterval = 0\n",
			want: "share.interval",
		},
		{
			name: "negative poll interval",
			body: "[source]\npoll_interval = -1\n",
			want: "source.poll_interval",
		},
		{
			name: "zero request timeout",
			body: "[source]\nrequest_timeout = 0\n",
			want: "source.request_timeout",
		},
		{
			name: "bad log format",
			body: "[logging]\nformat = \"xml\"\n",
			want: "logging.format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Share.Template != "%title% %link%" {
		t.Fatalf("unexpected sample template %q", cfg.Share.Template)
	}
}
