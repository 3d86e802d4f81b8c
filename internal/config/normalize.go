package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeElevenLabs(); err != nil {
		return err
	}
	c.normalizeMFA()
	c.normalizePostprocess()
	c.normalizeExport()
	c.normalizeLogging()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DatasetDir) == "" {
		c.Paths.DatasetDir = defaultDatasetDir
	}
	if c.Paths.DatasetDir, err = expandPath(c.Paths.DatasetDir); err != nil {
		return fmt.Errorf("paths.dataset_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeElevenLabs() error {
	c.ElevenLabs.APIKey = strings.TrimSpace(c.ElevenLabs.APIKey)
	if c.ElevenLabs.APIKey == "" {
		key, err := apiKeyFromEnv()
		if err != nil {
			return err
		}
		c.ElevenLabs.APIKey = key
	}
	c.ElevenLabs.BaseURL = strings.TrimRight(strings.TrimSpace(c.ElevenLabs.BaseURL), "/")
	if c.ElevenLabs.BaseURL == "" {
		c.ElevenLabs.BaseURL = defaultElevenLabsBaseURL
	}
	c.ElevenLabs.VoiceID = strings.TrimSpace(c.ElevenLabs.VoiceID)
	c.ElevenLabs.ModelID = strings.TrimSpace(c.ElevenLabs.ModelID)
	if c.ElevenLabs.ModelID == "" {
		c.ElevenLabs.ModelID = defaultElevenLabsModelID
	}
	c.ElevenLabs.OutputFormat = strings.TrimSpace(c.ElevenLabs.OutputFormat)
	if c.ElevenLabs.OutputFormat == "" {
		c.ElevenLabs.OutputFormat = defaultElevenLabsFormat
	}
	if c.ElevenLabs.TimeoutSeconds <= 0 {
		c.ElevenLabs.TimeoutSeconds = defaultElevenLabsTimeout
	}
	return nil
}

func (c *Config) normalizeMFA() {
	c.MFA.Binary = strings.TrimSpace(c.MFA.Binary)
	if c.MFA.Binary == "" {
		c.MFA.Binary = defaultMFABinary
	}
	c.MFA.Profile = strings.ToLower(strings.TrimSpace(c.MFA.Profile))
	if c.MFA.Profile == "" {
		c.MFA.Profile = defaultMFAProfile
	}
	c.MFA.AcousticModel = strings.TrimSpace(c.MFA.AcousticModel)
	c.MFA.Dictionary = strings.TrimSpace(c.MFA.Dictionary)
	if c.MFA.AcousticModel == "" {
		switch c.MFA.Profile {
		case ProfileARPA:
			c.MFA.AcousticModel = arpaAcousticModel
		default:
			c.MFA.AcousticModel = mfaAcousticModel
		}
	}
	if c.MFA.Dictionary == "" {
		switch c.MFA.Profile {
		case ProfileARPA:
			c.MFA.Dictionary = arpaDictionary
		default:
			c.MFA.Dictionary = mfaDictionary
		}
	}
	if c.MFA.AlignTimeout <= 0 {
		c.MFA.AlignTimeout = defaultMFAAlignTimeout
	}
}

func (c *Config) normalizePostprocess() {
	if c.Postprocess.MinPhoneMs <= 0 {
		c.Postprocess.MinPhoneMs = defaultMinPhoneMs
	}
	if c.Postprocess.MergeThresholdMs <= 0 {
		c.Postprocess.MergeThresholdMs = defaultMergeThresholdMs
	}
	if c.Postprocess.AnticipationMs < 0 {
		c.Postprocess.AnticipationMs = defaultAnticipationMs
	}
	labels := make([]string, 0, len(c.Postprocess.DropLabels))
	seen := make(map[string]struct{}, len(c.Postprocess.DropLabels))
	for _, label := range c.Postprocess.DropLabels {
		normalized := strings.ToLower(strings.TrimSpace(label))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		labels = append(labels, normalized)
	}
	if len(labels) == 0 {
		labels = []string{defaultSpeechNoiseLabel}
	}
	c.Postprocess.DropLabels = labels
}

func (c *Config) normalizeExport() {
	if c.Export.RoundDecimals <= 0 {
		c.Export.RoundDecimals = defaultExportRoundDecimals
	}
	if strings.TrimSpace(c.Export.SegmentsDir) != "" {
		if expanded, err := expandPath(c.Export.SegmentsDir); err == nil {
			c.Export.SegmentsDir = expanded
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyRequestTimeout
	}
}
