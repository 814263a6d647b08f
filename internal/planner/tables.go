package planner

import (
	"strings"

	"recode/internal/hwaccel"
)

// SubtitleType is the role of a subtitle track derived from its title.
type SubtitleType string

const (
	SubtitleFull   SubtitleType = "full"
	SubtitleSDH    SubtitleType = "sdh"
	SubtitleForced SubtitleType = "forced"
	SubtitleNone   SubtitleType = "none"
)

// Tables holds the ranking tables used by the classifiers. Codecs missing
// from AudioPriority are transcoded and rank 0.
type Tables struct {
	AudioPriority        map[string]int
	SubtitleTypePriority map[SubtitleType]int
	SubtitleCopyCodecs   []string
}

// DefaultTables returns a fresh copy of the built-in tables.
func DefaultTables() Tables {
	return Tables{
		AudioPriority: map[string]int{
			"dts":    6,
			"flac":   5,
			"opus":   4,
			"truehd": 3,
			"eac3":   2,
			"ac3":    1,
		},
		SubtitleTypePriority: map[SubtitleType]int{
			SubtitleFull:   3,
			SubtitleForced: 2,
			SubtitleNone:   1,
		},
		SubtitleCopyCodecs: []string{"subrip", "hdmv_pgs_subtitle", "ass", "dvd_subtitle"},
	}
}

// AudioRank returns the priority of an audio codec and whether it is acceptable as-is.
func (t Tables) AudioRank(codec string) (int, bool) {
	rank, ok := t.AudioPriority[strings.ToLower(codec)]
	return rank, ok
}

// SubtitleRank returns the priority of a subtitle type, 0 when unlisted.
func (t Tables) SubtitleRank(kind SubtitleType) int {
	return t.SubtitleTypePriority[kind]
}

// CopiesSubtitle reports whether a subtitle codec is kept without conversion.
func (t Tables) CopiesSubtitle(codec string) bool {
	for _, name := range t.SubtitleCopyCodecs {
		if strings.EqualFold(name, codec) {
			return true
		}
	}
	return false
}

// VideoCodec names a target video codec and its encoders per hwaccel mode.
type VideoCodec struct {
	Name     string
	Software string
	AMF      string
	CUDA     string
}

// Encoder returns the encoder identifier for mode.
func (c VideoCodec) Encoder(mode hwaccel.Mode) string {
	switch mode {
	case hwaccel.ModeAMF:
		return c.AMF
	case hwaccel.ModeCUDA:
		return c.CUDA
	default:
		return c.Software
	}
}

var videoCodecs = map[string]VideoCodec{
	"av1":  {Name: "av1", Software: "libsvtav1", AMF: "av1_amf", CUDA: "av1_nvenc"},
	"hevc": {Name: "hevc", Software: "libx265", AMF: "hevc_amf", CUDA: "hevc_nvenc"},
	"h264": {Name: "h264", Software: "libx264", AMF: "h264_amf", CUDA: "h264_nvenc"},
}

// LookupVideoCodec resolves a configured codec name; "h265" is accepted for hevc.
func LookupVideoCodec(name string) (VideoCodec, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "h265" {
		name = "hevc"
	}
	codec, ok := videoCodecs[name]
	return codec, ok
}
