package config

const (
	defaultDataDir        = "~/.local/share/xposter"
	defaultLogDir         = "~/.local/share/xposter/logs"
	defaultAPIBind        = "127.0.0.1:7519"
	defaultAPIBaseURL     = "https://api.twitter.com"
	defaultUploadBaseURL  = "https://upload.twitter.com"
	defaultRequestTimeout = 15
	defaultSourceTimeout  = 10
	defaultPollInterval   = 60
	defaultTemplate       = "%title% %link%"
	defaultShareInterval  = 300
	defaultExcerptWords   = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Source: Source{
			PollInterval:   defaultPollInterval,
			RequestTimeout: defaultSourceTimeout,
		},
		Twitter: Twitter{
			APIBaseURL:     defaultAPIBaseURL,
			UploadBaseURL:  defaultUploadBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Share: Share{
			Template:     defaultTemplate,
			Interval:     defaultShareInterval,
			ExcerptWords: defaultExcerptWords,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
