package planner

import (
	"fmt"
	"strings"

	"recode/internal/hwaccel"
	"recode/internal/track"
)

const (
	pixFmt8Bit         = "yuv420p"
	pixFmt10Bit        = "yuv420p10le"
	pixFmt10BitSurface = "p010le"

	coverArtEncoder = "mjpeg"
	coverArtFilter  = "scale=-1:600"
)

func (p *Planner) classifyVideo(t track.Track) Decision {
	d := Decision{
		Track: t,
		Flags: t.Disposition.Clone(),
	}
	switch {
	case p.opts.CopyVideo:
		d.Copy = true
		d.Reason = "video copy enabled"
	case !strings.EqualFold(t.CodecName, p.videoCodec.Name):
		d.Reason = fmt.Sprintf("codec %s differs from target %s", t.CodecName, p.videoCodec.Name)
	case p.opts.BitDepth == 8 && t.PixelFormat != pixFmt8Bit:
		d.Reason = fmt.Sprintf("pixel format %s exceeds 8-bit target", t.PixelFormat)
	default:
		d.Copy = true
		d.Reason = "matches target codec"
	}
	if d.Copy {
		d.Encoder = CopyEncoder
		return d
	}
	d.Encoder = p.videoCodec.Encoder(p.opts.HWAccel)
	d.PixelFormat = pixelFormat(p.opts.BitDepth, t.PixelFormat, p.opts.HWAccel)
	return d
}

// pixelFormat picks the output pixel format. Ten-bit output is only kept
// when the source already carries it.
func pixelFormat(bitDepth int, source string, mode hwaccel.Mode) string {
	if bitDepth == 10 && source == pixFmt10Bit {
		if mode == hwaccel.ModeAMF || mode == hwaccel.ModeCUDA {
			return pixFmt10BitSurface
		}
		return pixFmt10Bit
	}
	return pixFmt8Bit
}

// pickCoverArt prefers an attachment named cover.*, otherwise the first picture.
func pickCoverArt(pictures []track.Track) (track.Track, bool) {
	if len(pictures) == 0 {
		return track.Track{}, false
	}
	for _, t := range pictures {
		if strings.HasPrefix(strings.ToLower(t.Filename), "cover") {
			return t, true
		}
	}
	return pictures[0], true
}

func coverArtDecision(t track.Track) Decision {
	return Decision{
		Track:    t,
		Encoder:  coverArtEncoder,
		Filter:   coverArtFilter,
		CoverArt: true,
		Flags:    track.Flags{track.FlagAttachedPic},
		Reason:   "cover art",
	}
}
