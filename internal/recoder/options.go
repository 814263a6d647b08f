package recoder

import (
	"strings"

	"recode/internal/config"
	"recode/internal/encoding"
	"recode/internal/hwaccel"
	"recode/internal/planner"
	"recode/internal/services"
)

// PlannerOptions maps the configuration onto planner options for mode.
func PlannerOptions(cfg *config.Config, mode hwaccel.Mode) (planner.Options, error) {
	selector, err := cfg.TitleSelector()
	if err != nil {
		return planner.Options{}, services.Wrap(services.ErrConfiguration, "plan", "compile title selector", "invalid subtitle title selector", err)
	}

	tables := planner.DefaultTables()
	if len(cfg.Audio.CodecPriority) > 0 {
		tables.AudioPriority = make(map[string]int, len(cfg.Audio.CodecPriority))
		for codec, rank := range cfg.Audio.CodecPriority {
			tables.AudioPriority[strings.ToLower(strings.TrimSpace(codec))] = rank
		}
	}
	if len(cfg.Subtitles.CopyCodecs) > 0 {
		tables.SubtitleCopyCodecs = append([]string(nil), cfg.Subtitles.CopyCodecs...)
	}

	return planner.Options{
		TargetLanguage:   cfg.Language.Target,
		SubtitleLanguage: cfg.SubtitleLanguage(),
		AllowedLanguages: append([]string(nil), cfg.Language.Allowed...),
		VideoCodec:       cfg.Video.Codec,
		BitDepth:         cfg.Video.BitDepth,
		HWAccel:          mode,
		CopyVideo:        cfg.Video.Copy,
		AudioFallback:    planner.Codec{Encoder: cfg.Audio.FallbackCodec, Name: cfg.AudioFallbackName()},
		SubtitleFallback: planner.Codec{Encoder: cfg.Subtitles.FallbackCodec, Name: cfg.SubtitleFallbackName()},
		SubtitleSelector: selector,
		Tables:           tables,
	}, nil
}

// TuningFromConfig returns the encoder settings for mode.
func TuningFromConfig(cfg *config.Config, mode hwaccel.Mode) encoding.Tuning {
	codec := cfg.Video.Codec
	if resolved, ok := planner.LookupVideoCodec(codec); ok {
		codec = resolved.Name
	}
	return encoding.Tuning{
		HWAccel:      mode,
		VideoCodec:   codec,
		Quality:      cfg.Video.Quality,
		AudioBitrate: cfg.Audio.Bitrate,
		SampleRate:   cfg.Audio.SampleRate,
	}
}
