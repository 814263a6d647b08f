package planner

import (
	"regexp"

	"recode/internal/hwaccel"
)

// Codec pairs an encoder identifier with the codec name it produces.
type Codec struct {
	Encoder string
	Name    string
}

// Options configures one planning run.
type Options struct {
	// TargetLanguage replaces missing audio languages and wins default audio election.
	TargetLanguage string
	// SubtitleLanguage plays the same role for subtitles; empty means TargetLanguage.
	SubtitleLanguage string
	// AllowedLanguages are admitted in addition to the target and absent languages.
	AllowedLanguages []string

	VideoCodec string
	BitDepth   int
	HWAccel    hwaccel.Mode
	CopyVideo  bool

	AudioFallback    Codec
	SubtitleFallback Codec
	// SubtitleSelector, when set, limits subtitle admission to matching titles.
	SubtitleSelector *regexp.Regexp

	Tables Tables
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		TargetLanguage:   "eng",
		AllowedLanguages: []string{"eng", "deu", "ger", "jpn", "und"},
		VideoCodec:       "av1",
		BitDepth:         10,
		HWAccel:          hwaccel.ModeNone,
		AudioFallback:    Codec{Encoder: "libopus", Name: "opus"},
		SubtitleFallback: Codec{Encoder: "srt", Name: "subrip"},
		Tables:           DefaultTables(),
	}
}

func (o Options) subtitleLanguage() string {
	if o.SubtitleLanguage != "" {
		return o.SubtitleLanguage
	}
	return o.TargetLanguage
}
