package testsupport

import (
	"path/filepath"
	"testing"

	"xposter/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Source.BaseURL = "https://blog.example.test"
	cfgVal.Source.MediaCacheDir = filepath.Join(base, "media")
	cfgVal.Twitter.BearerToken = "test-token"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTemplate overrides the share template on the test config.
func WithTemplate(template string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Share.Template = template
	}
}

// WithBearerToken sets the publisher bearer token on the test config.
func WithBearerToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Twitter.BearerToken = token
	}
}

// WithSourceBaseURL points the content source at the provided base URL,
// typically an httptest server.
func WithSourceBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Source.BaseURL = url
	}
}
