package config

import (
	"path/filepath"
	"strings"
)

// normalize expands paths and fills derived defaults after decoding.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if strings.TrimSpace(c.Source.MediaCacheDir) == "" {
		c.Source.MediaCacheDir = filepath.Join(c.Paths.DataDir, "media")
	} else {
		if c.Source.MediaCacheDir, err = expandPath(c.Source.MediaCacheDir); err != nil {
			return err
		}
	}

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.Source.BaseURL = strings.TrimRight(strings.TrimSpace(c.Source.BaseURL), "/")
	c.Twitter.BearerToken = strings.TrimSpace(c.Twitter.BearerToken)
	c.Twitter.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.Twitter.APIBaseURL), "/")
	c.Twitter.UploadBaseURL = strings.TrimRight(strings.TrimSpace(c.Twitter.UploadBaseURL), "/")
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
