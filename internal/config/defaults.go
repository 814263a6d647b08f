package config

const (
	defaultConfigPath     = "~/.config/recode/config.toml"
	defaultLogDir         = "~/.local/share/recode/logs"
	defaultStateDir       = "~/.local/share/recode"
	defaultTargetLanguage = "eng"
	defaultVideoCodec     = "av1"
	defaultBitDepth       = 10
	defaultHWAccel        = "auto"
	defaultQuality        = 23
	defaultAudioFallback  = "libopus"
	defaultAudioBitrate   = "192k"
	defaultSampleRate     = 48000
	defaultSubFallback    = "srt"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"

	// languageEnv supplies language.target when the file leaves it unset.
	languageEnv = "RECODE_LANG"
)

var defaultAllowedLanguages = []string{"eng", "deu", "ger", "jpn", "und"}

var videoCodecs = map[string]struct{}{"av1": {}, "hevc": {}, "h264": {}}

// audioEncoders maps accepted audio fallback encoders to the codec they produce.
var audioEncoders = map[string]string{
	"libopus":    "opus",
	"opus":       "opus",
	"aac":        "aac",
	"libfdk_aac": "aac",
	"ac3":        "ac3",
	"eac3":       "eac3",
	"flac":       "flac",
	"libmp3lame": "mp3",
}

// subtitleEncoders maps accepted subtitle fallback encoders to the codec they produce.
var subtitleEncoders = map[string]string{
	"srt":    "subrip",
	"subrip": "subrip",
	"ass":    "ass",
	"ssa":    "ass",
	"webvtt": "webvtt",
}

// Default returns a Config populated with repository defaults. The target
// language is left empty so normalization can consult the environment.
func Default() Config {
	allowed := make([]string, len(defaultAllowedLanguages))
	copy(allowed, defaultAllowedLanguages)
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Language: Language{
			Allowed: allowed,
		},
		Video: Video{
			Codec:    defaultVideoCodec,
			BitDepth: defaultBitDepth,
			HWAccel:  defaultHWAccel,
			Quality:  defaultQuality,
		},
		Audio: Audio{
			FallbackCodec: defaultAudioFallback,
			Bitrate:       defaultAudioBitrate,
			SampleRate:    defaultSampleRate,
		},
		Subtitles: Subtitles{
			FallbackCodec: defaultSubFallback,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
