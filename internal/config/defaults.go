package config

const (
	defaultDatasetDir          = "dataset"
	defaultWorkDir             = "mfa_work"
	defaultLogDir              = "~/.local/share/phonalign/logs"
	defaultElevenLabsBaseURL   = "https://api.elevenlabs.io"
	defaultElevenLabsModelID   = "eleven_multilingual_v2"
	defaultElevenLabsFormat    = "mp3_44100_128"
	defaultElevenLabsTimeout   = 120
	defaultMFABinary           = "mfa"
	defaultMFAProfile          = ProfileMFA
	defaultMFAAlignTimeout     = 3600
	defaultMinPhoneMs          = 35
	defaultMergeThresholdMs    = 25
	defaultAnticipationMs      = 15
	defaultExportRoundDecimals = 4
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultNtfyRequestTimeout  = 10
	arpaAcousticModel          = "english_us_arpa"
	arpaDictionary             = "english_us_arpa"
	mfaAcousticModel           = "english_mfa"
	mfaDictionary              = "english_mfa"
	defaultSpeechNoiseLabel    = "spn"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DatasetDir: defaultDatasetDir,
			WorkDir:    defaultWorkDir,
			LogDir:     defaultLogDir,
		},
		ElevenLabs: ElevenLabs{
			BaseURL:        defaultElevenLabsBaseURL,
			ModelID:        defaultElevenLabsModelID,
			OutputFormat:   defaultElevenLabsFormat,
			TimeoutSeconds: defaultElevenLabsTimeout,
		},
		MFA: MFA{
			Binary:        defaultMFABinary,
			Profile:       defaultMFAProfile,
			SingleSpeaker: true,
			AlignTimeout:  defaultMFAAlignTimeout,
		},
		Postprocess: Postprocess{
			MinPhoneMs:         defaultMinPhoneMs,
			MergeThresholdMs:   defaultMergeThresholdMs,
			AnticipationMs:     defaultAnticipationMs,
			InsertReleaseSchwa: true,
			DropLabels:         []string{defaultSpeechNoiseLabel},
		},
		Export: Export{
			RoundDecimals:     defaultExportRoundDecimals,
			OverwriteExisting: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
		},
	}
}
