package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "hevc", "codec_type": "video", "pix_fmt": "yuv420p10le",
     "disposition": {"default": 1, "forced": 0, "attached_pic": 0}},
    {"index": 1, "codec_name": "eac3", "codec_type": "audio", "channels": 6,
     "tags": {"language": "eng", "title": "Surround"},
     "disposition": {"default": 1}},
    {"index": 2, "codec_name": "subrip", "codec_type": "subtitle"}
  ],
  "format": {"duration": "123.45", "size": "1000", "tags": {"TITLE": "Movie", "encoder": "x"}}
}`

func TestParse(t *testing.T) {
	result, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Streams) != 3 {
		t.Fatalf("expected 3 streams, got %d", len(result.Streams))
	}
	if result.Streams[0].PixFmt != "yuv420p10le" {
		t.Fatalf("unexpected pix_fmt %q", result.Streams[0].PixFmt)
	}
	if result.Streams[1].Tags["language"] != "eng" {
		t.Fatalf("unexpected tags %v", result.Streams[1].Tags)
	}
	if result.Streams[2].Tags != nil {
		t.Fatalf("expected nil tags for stream without tag block")
	}
	if result.StreamCount("audio") != 1 {
		t.Fatalf("expected 1 audio stream, got %d", result.StreamCount("audio"))
	}
	if got := result.FormatTags()["title"]; got != "Movie" {
		t.Fatalf("expected lower-cased title tag, got %q", got)
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
}

func TestInspectUsesBinaryOutput(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "ffprobe")
	payload := "#!/bin/sh\ncat <<'EOF'\n" + sampleJSON + "\nEOF\n"
	if err := os.WriteFile(script, []byte(payload), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	result, err := Inspect(context.Background(), script, "/media/movie.mkv")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if len(result.Streams) != 3 {
		t.Fatalf("expected 3 streams, got %d", len(result.Streams))
	}
}

func TestInspectEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
