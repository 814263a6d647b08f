package config

import (
	"fmt"
	"os"
	"strings"

	"recode/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLanguage()
	c.normalizeVideo()
	c.normalizeAudio()
	c.normalizeSubtitles()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.SubtitleDir, err = expandPath(strings.TrimSpace(c.Paths.SubtitleDir)); err != nil {
		return fmt.Errorf("paths.subtitle_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLanguage() {
	c.Language.Target = strings.TrimSpace(c.Language.Target)
	if c.Language.Target == "" {
		if value, ok := os.LookupEnv(languageEnv); ok {
			c.Language.Target = strings.TrimSpace(value)
		}
	}
	if c.Language.Target == "" {
		c.Language.Target = defaultTargetLanguage
	}
	c.Language.Target = configuredLanguage(c.Language.Target)
	if subtitle := strings.TrimSpace(c.Language.Subtitle); subtitle != "" {
		c.Language.Subtitle = configuredLanguage(subtitle)
	} else {
		c.Language.Subtitle = ""
	}
	if c.Language.Allowed == nil {
		c.Language.Allowed = append([]string(nil), defaultAllowedLanguages...)
		c.Language.Allowed = language.NormalizeList(c.Language.Allowed)
		return
	}
	allowed := make([]string, 0, len(c.Language.Allowed))
	for _, code := range c.Language.Allowed {
		if strings.TrimSpace(code) == "" {
			continue
		}
		allowed = append(allowed, configuredLanguage(code))
	}
	c.Language.Allowed = language.NormalizeList(allowed)
}

// configuredLanguage maps a configured code (two-letter, three-letter or an
// English word) to the three-letter form found in track tags.
func configuredLanguage(code string) string {
	return language.Canonical(language.ToISO3(code))
}

func (c *Config) normalizeVideo() {
	c.Video.Codec = strings.ToLower(strings.TrimSpace(c.Video.Codec))
	switch c.Video.Codec {
	case "":
		c.Video.Codec = defaultVideoCodec
	case "h265", "x265":
		c.Video.Codec = "hevc"
	case "x264", "avc":
		c.Video.Codec = "h264"
	}
	c.Video.HWAccel = strings.ToLower(strings.TrimSpace(c.Video.HWAccel))
	if c.Video.HWAccel == "" {
		c.Video.HWAccel = defaultHWAccel
	}
	if c.Video.BitDepth == 0 {
		c.Video.BitDepth = defaultBitDepth
	}
	if c.Video.Quality == 0 {
		c.Video.Quality = defaultQuality
	}
}

func (c *Config) normalizeAudio() {
	c.Audio.FallbackCodec = strings.ToLower(strings.TrimSpace(c.Audio.FallbackCodec))
	if c.Audio.FallbackCodec == "" {
		c.Audio.FallbackCodec = defaultAudioFallback
	}
	c.Audio.Bitrate = strings.TrimSpace(c.Audio.Bitrate)
	if c.Audio.Bitrate == "" {
		c.Audio.Bitrate = defaultAudioBitrate
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = defaultSampleRate
	}
	if len(c.Audio.CodecPriority) > 0 {
		priority := make(map[string]int, len(c.Audio.CodecPriority))
		for codec, rank := range c.Audio.CodecPriority {
			codec = strings.ToLower(strings.TrimSpace(codec))
			if codec == "" {
				continue
			}
			priority[codec] = rank
		}
		c.Audio.CodecPriority = priority
	}
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.FallbackCodec = strings.ToLower(strings.TrimSpace(c.Subtitles.FallbackCodec))
	if c.Subtitles.FallbackCodec == "" {
		c.Subtitles.FallbackCodec = defaultSubFallback
	}
	if len(c.Subtitles.CopyCodecs) > 0 {
		codecs := make([]string, 0, len(c.Subtitles.CopyCodecs))
		seen := make(map[string]struct{}, len(c.Subtitles.CopyCodecs))
		for _, codec := range c.Subtitles.CopyCodecs {
			codec = strings.ToLower(strings.TrimSpace(codec))
			if codec == "" {
				continue
			}
			if _, exists := seen[codec]; exists {
				continue
			}
			seen[codec] = struct{}{}
			codecs = append(codecs, codec)
		}
		c.Subtitles.CopyCodecs = codecs
	}
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
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
