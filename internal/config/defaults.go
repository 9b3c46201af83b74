package config

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Parse: ParseConfig{
			SectionWorkers: 1,
			LoadRetries:    0,
		},
		Watch: WatchConfig{
			DebounceMillis: 500,
			Workers:        0, // one per CPU
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
