package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateTwitter(); err != nil {
		return err
	}
	if err := c.validateShare(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateSource() error {
	if c.Source.PollInterval < 0 {
		return errors.New("source.poll_interval must be >= 0 (0 disables the watcher)")
	}
	if c.Source.RequestTimeout <= 0 {
		return errors.New("source.request_timeout must be positive")
	}
	// base_url is checked at daemon startup; the CLI manages the queue
	// without ever talking to the source.
	return nil
}

func (c *Config) validateTwitter() error {
	if c.Twitter.RequestTimeout <= 0 {
		return errors.New("twitter.request_timeout must be positive")
	}
	if strings.TrimSpace(c.Twitter.APIBaseURL) == "" {
		return errors.New("twitter.api_base_url must be set")
	}
	if strings.TrimSpace(c.Twitter.UploadBaseURL) == "" {
		return errors.New("twitter.upload_base_url must be set")
	}
	return nil
}

func (c *Config) validateShare() error {
	if strings.TrimSpace(c.Share.Template) == "" {
		return errors.New("share.template must not be empty")
	}
	if c.Share.Interval <= 0 {
		return errors.New("share.interval must be positive (seconds)")
	}
	if c.Share.ExcerptWords <= 0 {
		return fmt.Errorf("share.excerpt_words must be positive, got %d", c.Share.ExcerptWords)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
