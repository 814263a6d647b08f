package planner

import (
	"fmt"

	"recode/internal/track"
)

// addAudio admits audio tracks by language. When no track survives the
// filter every audio track is admitted so the output never loses sound.
func (p *Planner) addAudio(tracks []track.Track) {
	type candidate struct {
		track     track.Track
		rewritten bool
	}
	normalized := make([]candidate, 0, len(tracks))
	admitted := make([]candidate, 0, len(tracks))
	for _, t := range tracks {
		lang, rewritten := normalizeLanguage(t.Language, p.target)
		t.Language = lang
		c := candidate{track: t, rewritten: rewritten}
		normalized = append(normalized, c)
		if p.audioAllowed.admits(lang) {
			admitted = append(admitted, c)
		}
	}
	if len(admitted) == 0 && len(normalized) > 0 {
		admitted = normalized
		p.audioFallback = true
	}
	for _, c := range admitted {
		d := p.audio.accept(p.classifyAudio(c.track))
		if c.rewritten {
			p.recordOverride(d)
		}
		rank, _ := p.opts.Tables.AudioRank(d.Track.CodecName)
		p.audio.defaults.offer(d.NewIndex, Score{
			LanguageMatch: d.Track.Language == p.target,
			Channels:      d.Track.Channels,
			Rank:          rank,
		})
	}
}

// classifyAudio copies ranked codecs and transcodes everything else to the
// fallback codec. The decision's codec name reflects the output codec.
func (p *Planner) classifyAudio(t track.Track) Decision {
	d := Decision{
		Track: t,
		Flags: t.Disposition.Clone(),
	}
	if _, ok := p.opts.Tables.AudioRank(t.CodecName); ok {
		d.Copy = true
		d.Encoder = CopyEncoder
		d.Reason = fmt.Sprintf("codec %s is accepted", t.CodecName)
		return d
	}
	d.Encoder = p.opts.AudioFallback.Encoder
	d.Reason = fmt.Sprintf("codec %s transcoded to %s", t.CodecName, p.opts.AudioFallback.Name)
	d.Track.CodecName = p.opts.AudioFallback.Name
	return d
}
