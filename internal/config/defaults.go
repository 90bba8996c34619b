package config

const (
	defaultConfigPath       = "~/.config/humspine/config.toml"
	defaultProjectConfig    = "humspine.toml"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultRecipScale       = 4
	defaultFallbackEncoding = "latin1"
	defaultCacheFile        = "analysis.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Analysis: Analysis{
			Rhythm:           true,
			RecipScale:       defaultRecipScale,
			FallbackEncoding: defaultFallbackEncoding,
		},
		Cache: Cache{
			Enabled: false,
			Path:    defaultCachePath(),
		},
	}
}
