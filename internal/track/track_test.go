package track

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"recode/internal/media/ffprobe"
)

func TestFromProbe(t *testing.T) {
	streams := []ffprobe.Stream{
		{Index: 0, CodecType: "video", CodecName: "HEVC", PixFmt: "yuv420p10le", Disposition: map[string]int{"default": 1}},
		{Index: 1, CodecType: "audio", CodecName: "eac3", Channels: 6, Tags: map[string]string{"LANGUAGE": "ENG", "TITLE": " Surround "}},
		{Index: 2, CodecType: "subtitle", CodecName: "subrip"},
		{Index: 3, CodecType: "attachment", CodecName: "ttf", Tags: map[string]string{"filename": "font.ttf"}},
		{Index: 4, CodecType: "data"},
	}

	tracks, err := FromProbe(streams, 1)
	if err != nil {
		t.Fatalf("FromProbe returned error: %v", err)
	}
	want := []Track{
		{SourceIndex: 0, FileIndex: 1, Kind: KindVideo, CodecName: "hevc", PixelFormat: "yuv420p10le", Disposition: Flags{"default"}},
		{SourceIndex: 1, FileIndex: 1, Kind: KindAudio, CodecName: "eac3", Channels: 6, Language: "eng", Title: "Surround"},
		{SourceIndex: 2, FileIndex: 1, Kind: KindSubtitle, CodecName: "subrip"},
		{SourceIndex: 3, FileIndex: 1, Kind: KindAttachment, CodecName: "ttf", Filename: "font.ttf"},
		{SourceIndex: 4, FileIndex: 1, Kind: KindOther},
	}
	if diff := cmp.Diff(want, tracks); diff != "" {
		t.Fatalf("FromProbe mismatch (-want +got):\n%s", diff)
	}
}

func TestFromProbeRejectsMissingKind(t *testing.T) {
	streams := []ffprobe.Stream{
		{Index: 0, CodecType: "video"},
		{Index: 1, CodecName: "aac"},
	}
	_, err := FromProbe(streams, 0)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Index != 1 || verr.Field != "codec_type" {
		t.Fatalf("unexpected validation error: %+v", verr)
	}
}

func TestKindSpecifier(t *testing.T) {
	tests := map[Kind]string{
		KindVideo:      "v",
		KindAudio:      "a",
		KindSubtitle:   "s",
		KindAttachment: "t",
		KindOther:      "",
	}
	for kind, want := range tests {
		if got := kind.Specifier(); got != want {
			t.Errorf("%s.Specifier() = %q, want %q", kind, got, want)
		}
	}
}

func TestIsAttachedPicture(t *testing.T) {
	if !(Track{Kind: KindVideo, Disposition: Flags{FlagAttachedPic}}).IsAttachedPicture() {
		t.Fatal("expected attached_pic disposition to mark cover art")
	}
	if !(Track{Kind: KindVideo, CodecName: "mjpeg"}).IsAttachedPicture() {
		t.Fatal("expected mjpeg video to be treated as cover art")
	}
	if (Track{Kind: KindVideo, CodecName: "h264"}).IsAttachedPicture() {
		t.Fatal("expected h264 video to be a playable stream")
	}
}
