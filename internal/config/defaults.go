package config

const (
	defaultDataDir              = "~/.local/share/voxlock"
	defaultLogDir               = "~/.local/share/voxlock/logs"
	defaultLogLevel             = "info"
	defaultLogFormat            = "console"
	defaultDistanceThreshold    = 500.0
	defaultSimilarityThreshold  = 90
	defaultMaxAttempts          = 3
	defaultListenTimeoutSeconds = 5
	defaultTranscriberTimeout   = 30
	defaultNtfyRequestTimeout   = 10
	defaultOTPTTLSeconds        = 300
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Matching: Matching{
			DistanceThreshold: defaultDistanceThreshold,
		},
		Phrase: Phrase{
			SimilarityThreshold: defaultSimilarityThreshold,
		},
		Login: Login{
			MaxAttempts:          defaultMaxAttempts,
			ListenTimeoutSeconds: defaultListenTimeoutSeconds,
		},
		Transcriber: Transcriber{
			TimeoutSeconds: defaultTranscriberTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
		},
		OTP: OTP{
			TTLSeconds: defaultOTPTTLSeconds,
		},
	}
}
