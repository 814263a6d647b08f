package recoder_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"recode/internal/encoding"
	"recode/internal/hwaccel"
	"recode/internal/planner"
	"recode/internal/recoder"
	"recode/internal/services"
	"recode/internal/testsupport"
)

func TestPlannerOptionsFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Language.Subtitle = "deu"
	cfg.Audio.CodecPriority = map[string]int{" FLAC ": 9, "aac": 1}
	cfg.Subtitles.CopyCodecs = []string{"ass"}
	cfg.Subtitles.TitleSelector = "(?i)full"
	cfg.Video.Copy = true

	opts, err := recoder.PlannerOptions(cfg, hwaccel.ModeCUDA)
	if err != nil {
		t.Fatalf("PlannerOptions: %v", err)
	}
	if opts.TargetLanguage != "eng" || opts.SubtitleLanguage != "deu" {
		t.Fatalf("unexpected languages %q/%q", opts.TargetLanguage, opts.SubtitleLanguage)
	}
	if opts.HWAccel != hwaccel.ModeCUDA || !opts.CopyVideo || opts.BitDepth != 10 {
		t.Fatalf("unexpected video options %+v", opts)
	}
	if diff := cmp.Diff(map[string]int{"flac": 9, "aac": 1}, opts.Tables.AudioPriority); diff != "" {
		t.Fatalf("audio priority mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ass"}, opts.Tables.SubtitleCopyCodecs); diff != "" {
		t.Fatalf("copy codecs mismatch (-want +got):\n%s", diff)
	}
	if opts.AudioFallback != (planner.Codec{Encoder: "libopus", Name: "opus"}) {
		t.Fatalf("unexpected audio fallback %+v", opts.AudioFallback)
	}
	if opts.SubtitleFallback != (planner.Codec{Encoder: "srt", Name: "subrip"}) {
		t.Fatalf("unexpected subtitle fallback %+v", opts.SubtitleFallback)
	}
	if opts.SubtitleSelector == nil || !opts.SubtitleSelector.MatchString("English FULL") {
		t.Fatal("expected compiled title selector")
	}
}

func TestPlannerOptionsKeepsDefaultTables(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	opts, err := recoder.PlannerOptions(cfg, hwaccel.ModeNone)
	if err != nil {
		t.Fatalf("PlannerOptions: %v", err)
	}
	if diff := cmp.Diff(planner.DefaultTables(), opts.Tables); diff != "" {
		t.Fatalf("tables mismatch (-want +got):\n%s", diff)
	}
	if opts.SubtitleSelector != nil {
		t.Fatal("expected no selector")
	}
}

func TestPlannerOptionsRejectsBadSelector(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Subtitles.TitleSelector = "[unterminated"
	if _, err := recoder.PlannerOptions(cfg, hwaccel.ModeNone); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestTuningFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Video.Codec = "h265"
	cfg.Video.Quality = 28
	cfg.Audio.Bitrate = "256k"

	got := recoder.TuningFromConfig(cfg, hwaccel.ModeAMF)
	want := encoding.Tuning{
		HWAccel:      hwaccel.ModeAMF,
		VideoCodec:   "hevc",
		Quality:      28,
		AudioBitrate: "256k",
		SampleRate:   48000,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tuning mismatch (-want +got):\n%s", diff)
	}
}
