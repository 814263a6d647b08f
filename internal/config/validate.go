package config

import (
	"errors"
	"fmt"

	"recode/internal/hwaccel"
	"recode/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLanguage(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLanguage() error {
	if !language.Valid(c.Language.Target) {
		return fmt.Errorf("language.target: unsupported language code %q", c.Language.Target)
	}
	if c.Language.Subtitle != "" && !language.Valid(c.Language.Subtitle) {
		return fmt.Errorf("language.subtitle: unsupported language code %q", c.Language.Subtitle)
	}
	for _, code := range c.Language.Allowed {
		if !language.Valid(code) {
			return fmt.Errorf("language.allowed: unsupported language code %q", code)
		}
	}
	return nil
}

func (c *Config) validateVideo() error {
	if _, ok := videoCodecs[c.Video.Codec]; !ok {
		return fmt.Errorf("video.codec: unsupported value %q (expected av1, hevc or h264)", c.Video.Codec)
	}
	if c.Video.BitDepth != 8 && c.Video.BitDepth != 10 {
		return fmt.Errorf("video.bit_depth must be 8 or 10, got %d", c.Video.BitDepth)
	}
	if c.Video.HWAccel != hwaccel.ModeAuto {
		if _, err := hwaccel.ParseMode(c.Video.HWAccel); err != nil {
			return fmt.Errorf("video.hwaccel: %w", err)
		}
	}
	if c.Video.Quality < 0 || c.Video.Quality > 63 {
		return errors.New("video.quality must be between 0 and 63")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if _, ok := audioEncoders[c.Audio.FallbackCodec]; !ok {
		return fmt.Errorf("audio.fallback_codec: unsupported encoder %q", c.Audio.FallbackCodec)
	}
	if c.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be positive")
	}
	for codec, rank := range c.Audio.CodecPriority {
		if rank < 0 {
			return fmt.Errorf("audio.codec_priority.%s must not be negative", codec)
		}
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if _, ok := subtitleEncoders[c.Subtitles.FallbackCodec]; !ok {
		return fmt.Errorf("subtitles.fallback_codec: unsupported encoder %q", c.Subtitles.FallbackCodec)
	}
	if _, err := c.TitleSelector(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
