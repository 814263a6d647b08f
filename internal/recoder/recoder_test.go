package recoder_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"recode/internal/config"
	"recode/internal/encoding"
	"recode/internal/ffargs"
	"recode/internal/history"
	"recode/internal/logging"
	"recode/internal/planner"
	"recode/internal/recoder"
	"recode/internal/services"
	"recode/internal/testsupport"
	"recode/internal/track"
)

const unchangedProbe = `{
  "streams": [
    {"index": 0, "codec_name": "av1", "codec_type": "video", "pix_fmt": "yuv420p10le",
     "disposition": {"default": 1}},
    {"index": 1, "codec_name": "flac", "codec_type": "audio", "channels": 6,
     "tags": {"language": "eng"}, "disposition": {"default": 1}}
  ],
  "format": {"duration": "60.0", "size": "64", "tags": {"title": "Movie"}}
}`

const changingProbe = `{
  "streams": [
    {"index": 0, "codec_name": "hevc", "codec_type": "video", "pix_fmt": "yuv420p10le",
     "disposition": {"default": 1}},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 2,
     "tags": {"language": "eng"}, "disposition": {"default": 1}},
    {"index": 2, "codec_name": "subrip", "codec_type": "subtitle",
     "tags": {"language": "eng", "title": "Full"}, "disposition": {"default": 0}}
  ],
  "format": {"duration": "60.0", "size": "64", "tags": {"title": "Episode"}}
}`

const episodeProbe = `{
  "streams": [
    {"index": 0, "codec_name": "av1", "codec_type": "video", "pix_fmt": "yuv420p10le",
     "disposition": {"default": 1}},
    {"index": 1, "codec_name": "flac", "codec_type": "audio", "channels": 2,
     "tags": {"language": "eng"}, "disposition": {"default": 1}}
  ],
  "format": {"duration": "30.0"}
}`

const subtitleProbe = `{
  "streams": [
    {"index": 0, "codec_name": "subrip", "codec_type": "subtitle"}
  ],
  "format": {}
}`

const invalidProbe = `{
  "streams": [
    {"index": 0, "codec_name": "av1"}
  ],
  "format": {}
}`

func newRecoder(t *testing.T, cfg *config.Config, opts ...recoder.Option) *recoder.Recoder {
	t.Helper()
	r, err := recoder.New(cfg, logging.NewNop(), opts...)
	if err != nil {
		t.Fatalf("recoder.New: %v", err)
	}
	return r
}

func TestPlanMatchingFileNeedsNoChange(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMediaStubs())
	source := filepath.Join(testsupport.BaseDir(cfg), "media", "Movie.mkv")
	testsupport.WriteMedia(t, source, unchangedProbe)

	plan, err := newRecoder(t, cfg).Plan(context.Background(), source)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.AnyChange() {
		t.Fatalf("expected no change, got args %v", plan.Args.Args())
	}
	if plan.Output != source {
		t.Fatalf("expected in-place output %q, got %q", source, plan.Output)
	}
	if plan.VideoTranscode() || plan.AudioTranscode() {
		t.Fatal("expected copy-only plan")
	}
	if len(plan.Tracks) != 2 || len(plan.Result.Decisions) != 2 {
		t.Fatalf("unexpected tracks %d decisions %d", len(plan.Tracks), len(plan.Result.Decisions))
	}
}

func TestPlanTranscodesAndElectsSubtitleDefault(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMediaStubs())
	source := filepath.Join(testsupport.BaseDir(cfg), "media", "Episode.mkv")
	testsupport.WriteMedia(t, source, changingProbe)

	r := newRecoder(t, cfg)
	plan, err := r.Plan(context.Background(), source)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if !plan.AnyChange() || !plan.VideoTranscode() || !plan.AudioTranscode() {
		t.Fatalf("expected video and audio transcode, got %+v", plan.Args)
	}

	wantCodecs := []string{
		"-c:v:0", "libsvtav1", "-pix_fmt:v:0", "yuv420p10le",
		"-c:a:0", "libopus",
		"-c:s:0", "copy",
	}
	if diff := cmp.Diff(wantCodecs, plan.Args.CodecArgs()); diff != "" {
		t.Fatalf("codec args mismatch (-want +got):\n%s", diff)
	}
	wantDispositions := []ffargs.DispositionArg{
		{Kind: track.KindSubtitle, NewIndex: 0, Flags: track.Flags{track.FlagDefault}},
	}
	if diff := cmp.Diff(wantDispositions, plan.Args.Dispositions); diff != "" {
		t.Fatalf("disposition mismatch (-want +got):\n%s", diff)
	}

	argv := r.Command(plan)
	if argv[len(argv)-1] != source {
		t.Fatalf("expected command to end with output path, got %v", argv)
	}
	joined := strings.Join(argv, " ")
	for _, want := range []string{"-crf 23", "-b:a 192k", "-ar 48000", "-disposition:s:0 default"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in %s", want, joined)
		}
	}
}

func TestPlanAddsAuxiliarySubtitles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMediaStubs())
	base := testsupport.BaseDir(cfg)
	source := filepath.Join(base, "media", "Show", "Season 01", "Show S01E02.mkv")
	testsupport.WriteMedia(t, source, episodeProbe)
	subDir := filepath.Join(base, "subs")
	testsupport.WriteMedia(t, filepath.Join(subDir, "show.s01e02.srt"), subtitleProbe)
	testsupport.WriteMedia(t, filepath.Join(subDir, "show.s01e03.srt"), subtitleProbe)
	cfg.Paths.SubtitleDir = subDir

	plan, err := newRecoder(t, cfg).Plan(context.Background(), source)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.Auxiliary) != 1 || filepath.Base(plan.Auxiliary[0]) != "show.s01e02.srt" {
		t.Fatalf("unexpected auxiliary inputs %v", plan.Auxiliary)
	}
	wantMapping := []ffargs.StreamMap{
		{FileIndex: 0, SourceIndex: 0},
		{FileIndex: 0, SourceIndex: 1},
		{FileIndex: 1, SourceIndex: 0},
	}
	if diff := cmp.Diff(wantMapping, plan.Args.Mapping); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
	wantOverrides := []planner.LanguageOverride{{Kind: track.KindSubtitle, NewIndex: 0, Language: "eng"}}
	if diff := cmp.Diff(wantOverrides, plan.Result.Overrides); diff != "" {
		t.Fatalf("override mismatch (-want +got):\n%s", diff)
	}
	if plan.Metadata["show"] != "Show" || plan.Metadata["episode_id"] == "" {
		t.Fatalf("expected episode metadata, got %v", plan.Metadata)
	}
}

func TestProcessEncodesInPlaceAndKeepsOriginal(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMediaStubs())
	store := testsupport.MustOpenHistory(t, cfg)
	source := filepath.Join(testsupport.BaseDir(cfg), "media", "Episode.mkv")
	testsupport.WriteMedia(t, source, changingProbe)

	report, err := newRecoder(t, cfg, recoder.WithHistory(store)).Process(context.Background(), source)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if report.Outcome != history.OutcomeEncoded || !report.AnyChange {
		t.Fatalf("unexpected report %+v", report)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "encoded" {
		t.Fatalf("expected encoded output in place, got %q", data)
	}
	if _, err := os.Stat(encoding.BackupPath(source)); err != nil {
		t.Fatalf("expected original kept as backup: %v", err)
	}
	calls := testsupport.FFmpegCalls(t, cfg)
	if len(calls) != 1 || !strings.Contains(calls[0], "-progress pipe:1") {
		t.Fatalf("unexpected ffmpeg calls %v", calls)
	}
	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(source), ".Episode.recode-*"))
	if len(leftovers) != 0 {
		t.Fatalf("expected temp file to be moved, found %v", leftovers)
	}

	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 || entries[0].Outcome != history.OutcomeEncoded || entries[0].Output.Size != int64(len("encoded")) {
		t.Fatalf("unexpected history %+v", entries)
	}
}

func TestProcessLeavesMatchingFileAlone(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMediaStubs())
	source := filepath.Join(testsupport.BaseDir(cfg), "media", "Movie.mkv")
	testsupport.WriteMedia(t, source, unchangedProbe)

	report, err := newRecoder(t, cfg).Process(context.Background(), source)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if report.Outcome != history.OutcomeUnchanged {
		t.Fatalf("expected unchanged, got %s", report.Outcome)
	}
	if calls := testsupport.FFmpegCalls(t, cfg); len(calls) != 0 {
		t.Fatalf("expected no ffmpeg calls, got %v", calls)
	}
}

func TestProcessMovesMatchingFileToOutputDir(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMediaStubs(), testsupport.WithOutputDir())
	source := filepath.Join(testsupport.BaseDir(cfg), "media", "Movie.mkv")
	testsupport.WriteMedia(t, source, unchangedProbe)

	report, err := newRecoder(t, cfg).Process(context.Background(), source)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	want := filepath.Join(cfg.Paths.OutputDir, "Movie.mkv")
	if report.Outcome != history.OutcomeMoved || report.Output != want {
		t.Fatalf("unexpected report %+v", report)
	}
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Fatalf("expected source to be moved, stat err=%v", err)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected moved file: %v", err)
	}
}

func TestProcessRecordsInvalidProbe(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMediaStubs())
	store := testsupport.MustOpenHistory(t, cfg)
	source := filepath.Join(testsupport.BaseDir(cfg), "media", "Broken.mkv")
	testsupport.WriteMedia(t, source, invalidProbe)

	report, err := newRecoder(t, cfg, recoder.WithHistory(store)).Process(context.Background(), source)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var validation *track.ValidationError
	if !errors.As(err, &validation) || validation.Field != "codec_type" {
		t.Fatalf("expected track validation error, got %v", err)
	}
	if report.Outcome != history.OutcomeInvalid {
		t.Fatalf("expected invalid outcome, got %s", report.Outcome)
	}
	counts, err := store.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts[history.OutcomeInvalid] != 1 {
		t.Fatalf("expected one invalid entry, got %v", counts)
	}
}

func TestProcessEncoderFailureKeepsSource(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMediaStubs(), testsupport.WithFailingFFmpeg())
	source := filepath.Join(testsupport.BaseDir(cfg), "media", "Episode.mkv")
	testsupport.WriteMedia(t, source, changingProbe)

	report, err := newRecoder(t, cfg).Process(context.Background(), source)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if report.Outcome != history.OutcomeFailed {
		t.Fatalf("expected failed outcome, got %s", report.Outcome)
	}
	if !strings.Contains(err.Error(), "Conversion failed!") {
		t.Fatalf("expected ffmpeg stderr in error, got %v", err)
	}
	info, statErr := os.Stat(source)
	if statErr != nil || info.Size() != 64 {
		t.Fatalf("expected source untouched, stat=%v err=%v", info, statErr)
	}
	if _, err := os.Stat(encoding.BackupPath(source)); !os.IsNotExist(err) {
		t.Fatalf("expected no backup after failure, stat err=%v", err)
	}
}

func TestNewRejectsInvalidSelector(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Subtitles.TitleSelector = "("
	if _, err := recoder.New(cfg, logging.NewNop()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
