package config

const (
	defaultDataDir              = "~/.local/share/mixcrate"
	defaultLogDir               = "~/.local/share/mixcrate/logs"
	defaultAPIBind              = "127.0.0.1:7580"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultScannerWorkers       = 4
	defaultSaveBatchSize        = 25
	defaultWatchDebounceSeconds = 5
	defaultWindowSeconds        = 30
	defaultMinBPM               = 60
	defaultMaxBPM               = 180
	defaultNtfyTimeoutSeconds   = 10
)

func defaultExtensions() []string {
	return []string{".mp3", ".wav", ".flac", ".ogg", ".m4a", ".aac"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Library: Library{
			Extensions:           defaultExtensions(),
			WatchDebounceSeconds: defaultWatchDebounceSeconds,
		},
		Scanner: Scanner{
			AnalyzeLoudness: true,
			Workers:         defaultScannerWorkers,
			SaveBatchSize:   defaultSaveBatchSize,
		},
		Analysis: Analysis{
			WindowSeconds: defaultWindowSeconds,
			MinBPM:        defaultMinBPM,
			MaxBPM:        defaultMaxBPM,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeoutSeconds,
		},
	}
}
