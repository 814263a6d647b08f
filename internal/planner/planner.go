package planner

import (
	"recode/internal/language"
	"recode/internal/track"
)

// CopyEncoder is the codec selector for streams passed through unchanged.
const CopyEncoder = "copy"

// Decision is the outcome of classifying one accepted track.
type Decision struct {
	// Track is the normalized track; Disposition still holds the source flags.
	Track       track.Track
	NewIndex    int
	Copy        bool
	Encoder     string
	PixelFormat string
	Filter      string
	CoverArt    bool
	// Flags is the accumulated disposition contribution before default election.
	Flags        track.Flags
	SubtitleType SubtitleType
	Reason       string
}

// Key identifies the decision's output stream.
func (d Decision) Key() Key {
	return Key{Kind: d.Track.Kind, NewIndex: d.NewIndex}
}

// Transcode reports whether the stream is re-encoded. Cover art
// normalization is not counted.
func (d Decision) Transcode() bool {
	return !d.Copy && !d.CoverArt
}

// LanguageOverride records an explicit language tag to write for an output stream.
type LanguageOverride struct {
	Kind     track.Kind
	NewIndex int
	Language string
}

// TrackPlan accumulates the accepted tracks of one kind.
type TrackPlan struct {
	Kind     track.Kind
	accepted []Decision
	defaults selector
}

// Len returns the number of accepted tracks.
func (p *TrackPlan) Len() int { return len(p.accepted) }

// Accepted returns a copy of the accepted decisions in newIndex order.
func (p *TrackPlan) Accepted() []Decision {
	out := make([]Decision, len(p.accepted))
	copy(out, p.accepted)
	return out
}

func (p *TrackPlan) accept(d Decision) Decision {
	d.NewIndex = len(p.accepted)
	p.accepted = append(p.accepted, d)
	return d
}

// Classified is the planner state consumed by Reconcile.
type Classified struct {
	// Decisions are in mapping order: video, audio, subtitle, attachment, cover art.
	Decisions []Decision
	// Defaults maps a kind to its elected default newIndex.
	Defaults  map[track.Kind]int
	Overrides []LanguageOverride
}

// Result is the classified state plus its reconciled dispositions.
type Result struct {
	Classified
	Assignments   []Assignment
	AudioFallback bool
}

// Planner holds the per-file classification state. It must not be reused
// across files.
type Planner struct {
	opts           Options
	target         string
	subtitleTarget string
	audioAllowed   languageSet
	subAllowed     languageSet
	videoCodec     VideoCodec

	video      TrackPlan
	audio      TrackPlan
	subtitle   TrackPlan
	attachment TrackPlan

	overrides     []LanguageOverride
	audioFallback bool
}

// New creates a planner for one file.
func New(opts Options) *Planner {
	builtin := DefaultTables()
	if opts.Tables.AudioPriority == nil {
		opts.Tables.AudioPriority = builtin.AudioPriority
	}
	if opts.Tables.SubtitleTypePriority == nil {
		opts.Tables.SubtitleTypePriority = builtin.SubtitleTypePriority
	}
	if opts.Tables.SubtitleCopyCodecs == nil {
		opts.Tables.SubtitleCopyCodecs = builtin.SubtitleCopyCodecs
	}
	if opts.AudioFallback.Encoder == "" {
		opts.AudioFallback = DefaultOptions().AudioFallback
	}
	if opts.SubtitleFallback.Encoder == "" {
		opts.SubtitleFallback = DefaultOptions().SubtitleFallback
	}
	codec, ok := LookupVideoCodec(opts.VideoCodec)
	if !ok {
		codec, _ = LookupVideoCodec(DefaultOptions().VideoCodec)
	}
	target := language.Canonical(opts.TargetLanguage)
	subtitleTarget := language.Canonical(opts.subtitleLanguage())
	return &Planner{
		opts:           opts,
		target:         target,
		subtitleTarget: subtitleTarget,
		audioAllowed:   newLanguageSet(target, opts.AllowedLanguages),
		subAllowed:     newLanguageSet(subtitleTarget, opts.AllowedLanguages),
		videoCodec:     codec,
		video:          TrackPlan{Kind: track.KindVideo},
		audio:          TrackPlan{Kind: track.KindAudio},
		subtitle:       TrackPlan{Kind: track.KindSubtitle},
		attachment:     TrackPlan{Kind: track.KindAttachment},
	}
}

// Plan classifies the tracks of a single file and returns the reconciled result.
func Plan(tracks []track.Track, opts Options) Result {
	p := New(opts)
	p.AddPrimary(tracks)
	return p.Result()
}

// AddPrimary classifies the tracks of the primary input. Tracks are grouped
// by kind and processed in source order within each kind.
func (p *Planner) AddPrimary(tracks []track.Track) {
	var videos, audios, subtitles, attachments, pictures []track.Track
	for _, t := range tracks {
		switch t.Kind {
		case track.KindVideo:
			if t.IsAttachedPicture() {
				pictures = append(pictures, t)
				continue
			}
			videos = append(videos, t)
		case track.KindAudio:
			audios = append(audios, t)
		case track.KindSubtitle:
			subtitles = append(subtitles, t)
		case track.KindAttachment:
			attachments = append(attachments, t)
		}
	}

	for _, t := range videos {
		p.video.accept(p.classifyVideo(t))
	}
	p.addAudio(audios)
	for _, t := range subtitles {
		p.addSubtitle(t)
	}
	for _, t := range attachments {
		p.attachment.accept(Decision{
			Track:   t,
			Copy:    true,
			Encoder: CopyEncoder,
			Reason:  "attachment",
		})
	}
	if cover, ok := pickCoverArt(pictures); ok {
		p.video.accept(coverArtDecision(cover))
	}
}

// AddAuxiliarySubtitles classifies subtitle tracks from an additional input
// file. Tracks of other kinds are ignored.
func (p *Planner) AddAuxiliarySubtitles(tracks []track.Track) {
	for _, t := range tracks {
		if t.Kind == track.KindSubtitle {
			p.addSubtitle(t)
		}
	}
}

// SubtitleCount returns the number of admitted subtitle tracks so far.
func (p *Planner) SubtitleCount() int { return p.subtitle.Len() }

// Classified snapshots the current classification state.
func (p *Planner) Classified() Classified {
	var regular, covers []Decision
	for _, d := range p.video.accepted {
		if d.CoverArt {
			covers = append(covers, d)
			continue
		}
		regular = append(regular, d)
	}
	decisions := make([]Decision, 0, p.video.Len()+p.audio.Len()+p.subtitle.Len()+p.attachment.Len())
	decisions = append(decisions, regular...)
	decisions = append(decisions, p.audio.accepted...)
	decisions = append(decisions, p.subtitle.accepted...)
	decisions = append(decisions, p.attachment.accepted...)
	decisions = append(decisions, covers...)

	defaults := make(map[track.Kind]int, 2)
	if idx := p.audio.defaults.elected(); idx >= 0 {
		defaults[track.KindAudio] = idx
	}
	if idx := p.subtitle.defaults.elected(); idx >= 0 {
		defaults[track.KindSubtitle] = idx
	}

	overrides := make([]LanguageOverride, len(p.overrides))
	copy(overrides, p.overrides)
	return Classified{Decisions: decisions, Defaults: defaults, Overrides: overrides}
}

// Result reconciles the classified state.
func (p *Planner) Result() Result {
	classified := p.Classified()
	return Result{
		Classified:    classified,
		Assignments:   Reconcile(classified),
		AudioFallback: p.audioFallback,
	}
}

func (p *Planner) recordOverride(d Decision) {
	p.overrides = append(p.overrides, LanguageOverride{
		Kind:     d.Track.Kind,
		NewIndex: d.NewIndex,
		Language: d.Track.Language,
	})
}
