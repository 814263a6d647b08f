package track

import (
	"fmt"
	"strings"

	"recode/internal/language"
	"recode/internal/media/ffprobe"
)

// Kind classifies a stream by its ffprobe codec_type.
type Kind string

const (
	KindVideo      Kind = "video"
	KindAudio      Kind = "audio"
	KindSubtitle   Kind = "subtitle"
	KindAttachment Kind = "attachment"
	KindOther      Kind = "other"
)

// Kinds lists the output kinds in mapping order.
var Kinds = []Kind{KindVideo, KindAudio, KindSubtitle, KindAttachment}

// ParseKind maps an ffprobe codec_type to a Kind. An empty value is not a
// kind; unrecognised values (data, unknown) map to KindOther.
func ParseKind(codecType string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(codecType)) {
	case "":
		return "", false
	case "video":
		return KindVideo, true
	case "audio":
		return KindAudio, true
	case "subtitle":
		return KindSubtitle, true
	case "attachment":
		return KindAttachment, true
	default:
		return KindOther, true
	}
}

// Specifier returns the ffmpeg stream specifier letter for the kind.
func (k Kind) Specifier() string {
	switch k {
	case KindVideo:
		return "v"
	case KindAudio:
		return "a"
	case KindSubtitle:
		return "s"
	case KindAttachment:
		return "t"
	default:
		return ""
	}
}

// Track is one elementary stream as reported by probing.
type Track struct {
	// SourceIndex is the stream position inside its container.
	SourceIndex int
	// FileIndex is the ffmpeg input number; 0 for the primary file.
	FileIndex   int
	Kind        Kind
	CodecName   string
	PixelFormat string
	Channels    int
	// Language is lower-cased; empty when the tag block has none.
	Language    string
	Title       string
	Filename    string
	Disposition Flags
}

// IsAttachedPicture reports whether a video track is cover art rather than
// a playable video stream.
func (t Track) IsAttachedPicture() bool {
	if t.Kind != KindVideo {
		return false
	}
	return t.Disposition.Has(FlagAttachedPic) || strings.EqualFold(t.CodecName, "mjpeg")
}

// Label returns a short human-readable description of the track.
func (t Track) Label() string {
	parts := make([]string, 0, 4)
	parts = append(parts, fmt.Sprintf("%d:%d", t.FileIndex, t.SourceIndex))
	if t.CodecName != "" {
		parts = append(parts, t.CodecName)
	}
	if t.Language != "" {
		parts = append(parts, t.Language)
	}
	if t.Title != "" {
		parts = append(parts, t.Title)
	}
	return strings.Join(parts, " | ")
}

// ValidationError reports structurally invalid probe input.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("stream %d: %s: %s", e.Index, e.Field, e.Reason)
}

// FromProbe converts ffprobe streams into Tracks tagged with fileIndex.
// A missing tag block is treated as all tags absent.
func FromProbe(streams []ffprobe.Stream, fileIndex int) ([]Track, error) {
	tracks := make([]Track, 0, len(streams))
	for _, stream := range streams {
		kind, ok := ParseKind(stream.CodecType)
		if !ok {
			return nil, &ValidationError{Index: stream.Index, Field: "codec_type", Reason: "missing stream kind"}
		}
		tracks = append(tracks, Track{
			SourceIndex: stream.Index,
			FileIndex:   fileIndex,
			Kind:        kind,
			CodecName:   strings.ToLower(strings.TrimSpace(stream.CodecName)),
			PixelFormat: strings.TrimSpace(stream.PixFmt),
			Channels:    stream.Channels,
			Language:    language.ExtractFromTags(stream.Tags),
			Title:       tagValue(stream.Tags, "title"),
			Filename:    tagValue(stream.Tags, "filename"),
			Disposition: FlagsFromDisposition(stream.Disposition),
		})
	}
	return tracks, nil
}

func tagValue(tags map[string]string, key string) string {
	if len(tags) == 0 {
		return ""
	}
	if value, ok := tags[key]; ok {
		return strings.TrimSpace(value)
	}
	for k, value := range tags {
		if strings.EqualFold(k, key) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
