package config

const (
	defaultBind      = "0.0.0.0:8080"
	defaultScript    = "/scripts/extractor.sh"
	defaultLogLevel  = "info"
	defaultLogFormat = "" // resolved at logger construction: console on a TTY, json otherwise
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind: defaultBind,
		},
		Extractor: Extractor{
			Script: defaultScript,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
