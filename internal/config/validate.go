package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMFA(); err != nil {
		return err
	}
	if err := c.validatePostprocess(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return nil
}

// RequireElevenLabs verifies the settings needed for synthesis requests. It is
// called by the synth path only; the rest of the pipeline works offline.
func (c *Config) RequireElevenLabs() error {
	if c.ElevenLabs.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/phonalign/config.toml"
		}
		return fmt.Errorf("elevenlabs.api_key is required. Set ELEVENLABS_API_KEY env var or edit %s (create with 'phonalign config init')", defaultPath)
	}
	if c.ElevenLabs.VoiceID == "" {
		return errors.New("elevenlabs.voice_id must be set for synthesis")
	}
	return nil
}

func (c *Config) validateMFA() error {
	switch c.MFA.Profile {
	case ProfileARPA, ProfileMFA:
	default:
		return fmt.Errorf("mfa.profile must be %q or %q", ProfileARPA, ProfileMFA)
	}
	if c.MFA.Beam < 0 {
		return errors.New("mfa.beam must be zero (default) or positive")
	}
	if c.MFA.AlignTimeout <= 0 {
		return errors.New("mfa.align_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validatePostprocess() error {
	if c.Postprocess.MergeThresholdMs > c.Postprocess.MinPhoneMs {
		return errors.New("postprocess.merge_threshold_ms must not exceed postprocess.min_phone_ms")
	}
	return nil
}

func (c *Config) validateExport() error {
	if c.Export.RoundDecimals > 9 {
		return errors.New("export.round_decimals must be at most 9")
	}
	return nil
}
