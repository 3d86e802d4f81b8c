package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DatasetDir string `toml:"dataset_dir"`
	WorkDir    string `toml:"work_dir"`
	LogDir     string `toml:"log_dir"`
}

// ElevenLabs contains configuration for the ElevenLabs text-to-speech API.
type ElevenLabs struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	VoiceID        string `toml:"voice_id"`
	ModelID        string `toml:"model_id"`
	OutputFormat   string `toml:"output_format"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// MFA contains configuration for the Montreal Forced Aligner invocation.
type MFA struct {
	Binary        string `toml:"binary"`
	Profile       string `toml:"profile"`
	AcousticModel string `toml:"acoustic_model"`
	Dictionary    string `toml:"dictionary"`
	Beam          int    `toml:"beam"`
	SingleSpeaker bool   `toml:"single_speaker"`
	AlignTimeout  int    `toml:"align_timeout"`
}

// Postprocess contains the phone interval cleanup thresholds.
type Postprocess struct {
	MinPhoneMs         int      `toml:"min_phone_ms"`
	MergeThresholdMs   int      `toml:"merge_threshold_ms"`
	AnticipationMs     int      `toml:"anticipation_ms"`
	InsertReleaseSchwa bool     `toml:"insert_release_schwa"`
	DropLabels         []string `toml:"drop_labels"`
}

// Export contains configuration for alignment output artifacts.
type Export struct {
	SegmentsEnabled   bool   `toml:"segments_enabled"`
	SegmentsDir       string `toml:"segments_dir"`
	RoundDecimals     int    `toml:"round_decimals"`
	OverwriteExisting bool   `toml:"overwrite_existing"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// MFA model profiles. The profile selects which pretrained acoustic model and
// dictionary pair is used, and which release schwa label postprocessing inserts.
const (
	ProfileARPA = "arpa"
	ProfileMFA  = "mfa"
)

// Config encapsulates all configuration values for phonalign.
//
// Configuration sections by subsystem:
//   - Paths: dataset, MFA work, and log directories
//   - ElevenLabs: TTS synthesis API connection
//   - MFA: aligner binary, model profile, and invocation knobs
//   - Postprocess: phone interval cleanup thresholds
//   - Export: JSON/segment output settings
//   - Logging: log format and level
//   - Notifications: optional ntfy push notifications
type Config struct {
	Paths         Paths         `toml:"paths"`
	ElevenLabs    ElevenLabs    `toml:"elevenlabs"`
	MFA           MFA           `toml:"mfa"`
	Postprocess   Postprocess   `toml:"postprocess"`
	Export        Export        `toml:"export"`
	Logging       Logging       `toml:"logging"`
	Notifications Notifications `toml:"notifications"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/phonalign/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	_, err = os.Stat(defaultPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultPath, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return defaultPath, true, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.DatasetDir,
		c.AudioDir(),
		c.PhonemesDir(),
		c.Paths.WorkDir,
		c.AlignedDir(),
		c.Paths.LogDir,
	}
	if c.Export.SegmentsEnabled {
		dirs = append(dirs, c.SegmentsDir())
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// AudioDir returns the directory holding fetched source audio clips.
func (c *Config) AudioDir() string {
	return filepath.Join(c.Paths.DatasetDir, "audio")
}

// AlignmentFile returns the path to the dataset interchange file.
func (c *Config) AlignmentFile() string {
	return filepath.Join(c.Paths.DatasetDir, "alignment.json")
}

// PhonemesDir returns the directory for per-entry phoneme JSON exports.
func (c *Config) PhonemesDir() string {
	return filepath.Join(c.Paths.DatasetDir, "phonemes_json")
}

// CorpusDir returns the MFA corpus directory (16kHz WAV + .lab pairs).
func (c *Config) CorpusDir() string {
	return c.Paths.WorkDir
}

// AlignedDir returns the directory MFA writes TextGrid files into.
func (c *Config) AlignedDir() string {
	return filepath.Join(c.Paths.WorkDir, "aligned")
}

// SegmentsDir returns the directory for per-phoneme audio segment exports.
func (c *Config) SegmentsDir() string {
	if strings.TrimSpace(c.Export.SegmentsDir) != "" {
		return c.Export.SegmentsDir
	}
	return filepath.Join(c.Paths.DatasetDir, "segments")
}

// UseProfile switches the MFA model profile and re-derives the pretrained
// acoustic model and dictionary names for it.
func (c *Config) UseProfile(profile string) error {
	switch profile {
	case ProfileARPA:
		c.MFA.Profile = ProfileARPA
		c.MFA.AcousticModel = arpaAcousticModel
		c.MFA.Dictionary = arpaDictionary
	case ProfileMFA:
		c.MFA.Profile = ProfileMFA
		c.MFA.AcousticModel = mfaAcousticModel
		c.MFA.Dictionary = mfaDictionary
	default:
		return fmt.Errorf("unknown mfa profile %q", profile)
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for audio conversion.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
