package config

const (
	defaultLogDir      = "~/.local/share/unitypack/logs"
	defaultHistoryPath = "~/.local/share/unitypack/history.db"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Default returns a Config populated with repository defaults. Staging and
// output directories stay empty so the catalog applies its working-directory
// defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Extract: Extract{
			DeleteStaging: true,
		},
	}
}
