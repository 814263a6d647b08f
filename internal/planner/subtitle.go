package planner

import (
	"fmt"
	"strings"

	"recode/internal/track"
)

// subtitleTypeFromTitle derives the subtitle role from its title.
func subtitleTypeFromTitle(title string) SubtitleType {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "full"):
		return SubtitleFull
	case strings.Contains(lower, "sdh"):
		return SubtitleSDH
	case strings.Contains(lower, "forced"):
		return SubtitleForced
	default:
		return SubtitleNone
	}
}

func (p *Planner) addSubtitle(t track.Track) {
	if p.opts.SubtitleSelector != nil && !p.opts.SubtitleSelector.MatchString(t.Title) {
		return
	}
	lang, rewritten := normalizeLanguage(t.Language, p.subtitleTarget)
	t.Language = lang
	if !p.subAllowed.admits(lang) {
		return
	}

	d := p.subtitle.accept(p.classifySubtitle(t))
	if rewritten {
		p.recordOverride(d)
	}
	p.subtitle.defaults.offer(d.NewIndex, Score{
		LanguageMatch: d.Track.Language == p.subtitleTarget,
		Rank:          p.opts.Tables.SubtitleRank(d.SubtitleType),
	})
}

// classifySubtitle picks the codec and accumulates the forced and
// hearing_impaired flags from the title and the source disposition. The
// subtitle type, and so its default rank, comes from the title alone.
func (p *Planner) classifySubtitle(t track.Track) Decision {
	kind := subtitleTypeFromTitle(t.Title)

	flags := t.Disposition.Clone()
	if kind == SubtitleForced || t.Disposition.Has(track.FlagForced) {
		flags = flags.With(track.FlagForced)
	}
	if kind == SubtitleSDH || t.Disposition.Has(track.FlagHearingImpaired) {
		flags = flags.With(track.FlagHearingImpaired)
	}

	d := Decision{
		Track:        t,
		Flags:        flags,
		SubtitleType: kind,
	}
	if p.opts.Tables.CopiesSubtitle(t.CodecName) {
		d.Copy = true
		d.Encoder = CopyEncoder
		d.Reason = fmt.Sprintf("%s subtitle %s kept", kind, t.CodecName)
		return d
	}
	d.Encoder = p.opts.SubtitleFallback.Encoder
	d.Reason = fmt.Sprintf("%s subtitle %s converted to %s", kind, t.CodecName, p.opts.SubtitleFallback.Name)
	d.Track.CodecName = p.opts.SubtitleFallback.Name
	return d
}
