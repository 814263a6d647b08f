package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"recode/internal/deps"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir   string `toml:"log_dir"`
	StateDir string `toml:"state_dir"`
	// OutputDir receives recoded files; empty replaces files in place.
	OutputDir   string `toml:"output_dir"`
	SubtitleDir string `toml:"subtitle_dir"`
}

// Language contains the language policy for audio and subtitle tracks.
type Language struct {
	Target   string   `toml:"target"`
	Subtitle string   `toml:"subtitle"`
	Allowed  []string `toml:"allowed"`
}

// Video contains the target video codec settings.
type Video struct {
	Codec    string `toml:"codec"`
	BitDepth int    `toml:"bit_depth"`
	HWAccel  string `toml:"hwaccel"`
	Copy     bool   `toml:"copy"`
	Quality  int    `toml:"quality"`
}

// Audio contains the audio fallback codec and the optional priority override.
type Audio struct {
	FallbackCodec string         `toml:"fallback_codec"`
	Bitrate       string         `toml:"bitrate"`
	SampleRate    int            `toml:"sample_rate"`
	CodecPriority map[string]int `toml:"codec_priority"`
}

// Subtitles contains subtitle conversion and selection settings.
type Subtitles struct {
	FallbackCodec string   `toml:"fallback_codec"`
	TitleSelector string   `toml:"title_selector"`
	CopyCodecs    []string `toml:"copy_codecs"`
}

// Metadata contains settings for container metadata derived from file names.
type Metadata struct {
	TitleCase bool `toml:"title_case"`
}

// Tools names the external binaries.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for recode.
//
// Configuration sections by subsystem:
//   - Paths: log, state, output and auxiliary subtitle directories
//   - Language: target languages and the admitted language set
//   - Video: target codec, bit depth, hardware acceleration, quality
//   - Audio: fallback codec and encoder settings
//   - Subtitles: fallback codec, title selector, copy set
//   - Metadata: file-name derived container tags
//   - Tools: ffmpeg and ffprobe binaries
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Language  Language  `toml:"language"`
	Video     Video     `toml:"video"`
	Audio     Audio     `toml:"audio"`
	Subtitles Subtitles `toml:"subtitles"`
	Metadata  Metadata  `toml:"metadata"`
	Tools     Tools     `toml:"tools"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
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
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
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

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("recode.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		if err := os.MkdirAll(c.Paths.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output directory %q: %w", c.Paths.OutputDir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	if c.Tools.FFmpeg != "" {
		return c.Tools.FFmpeg
	}
	return defaultFFmpegBinary
}

// FFprobeBinary returns the ffprobe executable, preferring one installed next
// to a custom ffmpeg when ffprobe is left at its default.
func (c *Config) FFprobeBinary() string {
	return deps.ResolveFFprobe(c.FFmpegBinary(), c.Tools.FFprobe)
}

// HistoryPath returns the processed-file ledger location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LockPath returns the batch lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "recode.lock")
}

// LogPath returns the log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "recode.log")
}

// SubtitleLanguage returns the subtitle target, defaulting to the audio target.
func (c *Config) SubtitleLanguage() string {
	if c.Language.Subtitle != "" {
		return c.Language.Subtitle
	}
	return c.Language.Target
}

// TitleSelector compiles the subtitle title selector. It returns nil when unset.
func (c *Config) TitleSelector() (*regexp.Regexp, error) {
	if strings.TrimSpace(c.Subtitles.TitleSelector) == "" {
		return nil, nil
	}
	re, err := regexp.Compile(c.Subtitles.TitleSelector)
	if err != nil {
		return nil, fmt.Errorf("subtitles.title_selector: %w", err)
	}
	return re, nil
}

// AudioFallbackName returns the codec name produced by the audio fallback encoder.
func (c *Config) AudioFallbackName() string {
	return codecNameFor(audioEncoders, c.Audio.FallbackCodec)
}

// SubtitleFallbackName returns the codec name produced by the subtitle fallback encoder.
func (c *Config) SubtitleFallbackName() string {
	return codecNameFor(subtitleEncoders, c.Subtitles.FallbackCodec)
}

func codecNameFor(table map[string]string, encoder string) string {
	if name, ok := table[encoder]; ok {
		return name
	}
	return encoder
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

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
