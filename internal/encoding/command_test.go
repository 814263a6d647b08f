package encoding

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"recode/internal/ffargs"
	"recode/internal/hwaccel"
	"recode/internal/track"
)

func samplePlan() ffargs.ArgumentPlan {
	return ffargs.ArgumentPlan{
		Mapping: []ffargs.StreamMap{{FileIndex: 0, SourceIndex: 0}, {FileIndex: 0, SourceIndex: 1}},
		Codecs: []ffargs.CodecSelection{
			{Kind: track.KindVideo, NewIndex: 0, Encoder: "libsvtav1", Transcode: true, PixelFormat: "yuv420p10le"},
			{Kind: track.KindAudio, NewIndex: 0, Encoder: "copy"},
		},
		Dispositions: []ffargs.DispositionArg{{Kind: track.KindAudio, NewIndex: 0, Flags: track.ParseFlags("default")}},
		AnyChange:    true,
	}
}

func TestBuildCommandSoftware(t *testing.T) {
	req := Request{
		Source:         "/media/in.mkv",
		Auxiliary:      []string{"/subs/in.srt"},
		Plan:           samplePlan(),
		Tuning:         Tuning{HWAccel: hwaccel.ModeNone, VideoCodec: "av1", Quality: 23},
		VideoTranscode: true,
		Output:         "/media/.in.tmp.mkv",
	}
	want := []string{
		"-hide_banner", "-nostdin", "-y", "-v", "error", "-strict", "-2",
		"-i", "/media/in.mkv", "-i", "/subs/in.srt",
		"-map", "0:0", "-map", "0:1",
		"-c:v:0", "libsvtav1", "-pix_fmt:v:0", "yuv420p10le", "-c:a:0", "copy",
		"-disposition:a:0", "default",
		"-crf", "23",
		"-f", "matroska", "/media/.in.tmp.mkv",
	}
	if diff := cmp.Diff(want, BuildCommand(req)); diff != "" {
		t.Fatalf("BuildCommand mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCommandHardwareAddsHWAccel(t *testing.T) {
	req := Request{
		Source:         "/media/in.mkv",
		Plan:           samplePlan(),
		Tuning:         Tuning{HWAccel: hwaccel.ModeCUDA, VideoCodec: "hevc", Quality: 25},
		VideoTranscode: true,
		Output:         "/media/out.mkv",
	}
	args := strings.Join(BuildCommand(req), " ")
	if !strings.Contains(args, "-hwaccel auto -i /media/in.mkv") {
		t.Fatalf("expected hwaccel before input, got %s", args)
	}
}

func TestTuningArgs(t *testing.T) {
	tests := []struct {
		name  string
		tune  Tuning
		video bool
		audio bool
		want  []string
	}{
		{name: "copy only", tune: Tuning{Quality: 23}, want: nil},
		{name: "software av1", tune: Tuning{VideoCodec: "av1", Quality: 23}, video: true, want: []string{"-crf", "23"}},
		{name: "software hevc", tune: Tuning{VideoCodec: "hevc", Quality: 20}, video: true, want: []string{"-crf", "20", "-preset", "veryslow"}},
		{name: "amf", tune: Tuning{HWAccel: hwaccel.ModeAMF, VideoCodec: "hevc", Quality: 23}, video: true, want: []string{"-rc", "hqvbr", "-qvbr_quality_level", "23", "-quality", "quality"}},
		{name: "cuda hevc", tune: Tuning{HWAccel: hwaccel.ModeCUDA, VideoCodec: "hevc", Quality: 23}, video: true, want: []string{"-preset", "p7", "-rc", "vbr_hq", "-cq", "23"}},
		{name: "cuda av1", tune: Tuning{HWAccel: hwaccel.ModeCUDA, VideoCodec: "av1", Quality: 30}, video: true, want: []string{"-preset", "p7", "-rc", "vbr", "-cq", "30"}},
		{name: "audio", tune: Tuning{AudioBitrate: "192k", SampleRate: 48000}, audio: true, want: []string{"-b:a", "192k", "-ar", "48000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TuningArgs(tt.tune, tt.video, tt.audio)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("TuningArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("/media/show/Ep?.mkv", ""); got != "/media/show/Ep.mkv" {
		t.Fatalf("in-place output = %q", got)
	}
	if got := OutputPath("/media/show/ep.mkv", "/out"); got != "/out/ep.mkv" {
		t.Fatalf("output dir = %q", got)
	}
}

func TestTempPathIsHiddenSibling(t *testing.T) {
	got := TempPath("/media/show/ep.mkv")
	if filepath.Dir(got) != "/media/show" {
		t.Fatalf("temp path %q not next to output", got)
	}
	base := filepath.Base(got)
	if !strings.HasPrefix(base, ".ep.recode-") || !strings.HasSuffix(base, ".mkv") {
		t.Fatalf("unexpected temp name %q", base)
	}
	if got == TempPath("/media/show/ep.mkv") {
		t.Fatal("expected unique temp paths")
	}
}

func TestIsTempName(t *testing.T) {
	generated := filepath.Base(TempPath("/media/show/Episode 1.mkv"))
	if !IsTempName(generated) {
		t.Fatalf("expected %q to be recognised", generated)
	}
	for _, name := range []string{
		"Episode 1.mkv",
		".Episode 1.mkv",
		".Episode 1.recode-1234.mkv",
		strings.TrimPrefix(generated, "."),
		strings.TrimSuffix(generated, ".mkv") + ".mp4",
	} {
		if IsTempName(name) {
			t.Fatalf("did not expect %q to be recognised", name)
		}
	}
}
