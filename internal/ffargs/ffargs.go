package ffargs

import (
	"fmt"
	"sort"
	"strings"

	"recode/internal/planner"
	"recode/internal/track"
)

// StreamMap selects one input stream for the output.
type StreamMap struct {
	FileIndex   int
	SourceIndex int
}

// Args renders the mapping as ffmpeg arguments.
func (m StreamMap) Args() []string {
	return []string{"-map", fmt.Sprintf("%d:%d", m.FileIndex, m.SourceIndex)}
}

// CodecSelection chooses the codec of one output stream.
type CodecSelection struct {
	Kind        track.Kind
	NewIndex    int
	Encoder     string
	Transcode   bool
	PixelFormat string
	Filter      string
}

// Args renders the codec selection as ffmpeg arguments.
func (c CodecSelection) Args() []string {
	spec := streamSpecifier(c.Kind, c.NewIndex)
	args := []string{"-c:" + spec, c.Encoder}
	if c.PixelFormat != "" {
		args = append(args, "-pix_fmt:"+spec, c.PixelFormat)
	}
	if c.Filter != "" {
		args = append(args, "-filter:"+spec, c.Filter)
	}
	return args
}

// DispositionArg sets the disposition of one output stream.
type DispositionArg struct {
	Kind     track.Kind
	NewIndex int
	Flags    track.Flags
}

// Args renders the disposition as ffmpeg arguments. An empty set renders as "none".
func (d DispositionArg) Args() []string {
	return []string{"-disposition:" + streamSpecifier(d.Kind, d.NewIndex), d.Flags.String()}
}

// MetadataArg writes one metadata key. Stream is empty for container tags.
type MetadataArg struct {
	Stream string
	Key    string
	Value  string
}

// Args renders the metadata pair as ffmpeg arguments.
func (m MetadataArg) Args() []string {
	option := "-metadata"
	if m.Stream != "" {
		option += ":s:" + m.Stream
	}
	return []string{option, m.Key + "=" + m.Value}
}

// ArgumentPlan holds the ordered fragments for one encode.
type ArgumentPlan struct {
	Mapping      []StreamMap
	Codecs       []CodecSelection
	Dispositions []DispositionArg
	Metadata     []MetadataArg
	// AnyChange is false when the output would equal the input.
	AnyChange bool
}

// MappingArgs returns the flattened mapping fragment.
func (p ArgumentPlan) MappingArgs() []string {
	var args []string
	for _, m := range p.Mapping {
		args = append(args, m.Args()...)
	}
	return args
}

// CodecArgs returns the flattened codec fragment.
func (p ArgumentPlan) CodecArgs() []string {
	var args []string
	for _, c := range p.Codecs {
		args = append(args, c.Args()...)
	}
	return args
}

// DispositionArgs returns the flattened disposition fragment.
func (p ArgumentPlan) DispositionArgs() []string {
	var args []string
	for _, d := range p.Dispositions {
		args = append(args, d.Args()...)
	}
	return args
}

// MetadataArgs returns the flattened metadata fragment.
func (p ArgumentPlan) MetadataArgs() []string {
	var args []string
	for _, m := range p.Metadata {
		args = append(args, m.Args()...)
	}
	return args
}

// Args concatenates every fragment in command-line order.
func (p ArgumentPlan) Args() []string {
	args := make([]string, 0, 2*(len(p.Mapping)+len(p.Codecs)+len(p.Dispositions)+len(p.Metadata)))
	args = append(args, p.MappingArgs()...)
	args = append(args, p.CodecArgs()...)
	args = append(args, p.DispositionArgs()...)
	args = append(args, p.MetadataArgs()...)
	return args
}

// Input gathers everything Serialize consumes.
type Input struct {
	// Decisions in mapping order.
	Decisions   []planner.Decision
	Assignments []planner.Assignment
	Overrides   []planner.LanguageOverride
	// Target is the metadata the output should carry.
	Target map[string]string
	// Existing is the source container's tag block.
	Existing map[string]string
}

// FromResult builds an Input from a planner result.
func FromResult(result planner.Result, target, existing map[string]string) Input {
	return Input{
		Decisions:   result.Decisions,
		Assignments: result.Assignments,
		Overrides:   result.Overrides,
		Target:      target,
		Existing:    existing,
	}
}

// Serialize renders the input into an ArgumentPlan.
func Serialize(in Input) ArgumentPlan {
	var plan ArgumentPlan
	transcodes := false
	for _, d := range in.Decisions {
		plan.Mapping = append(plan.Mapping, StreamMap{FileIndex: d.Track.FileIndex, SourceIndex: d.Track.SourceIndex})
		plan.Codecs = append(plan.Codecs, CodecSelection{
			Kind:        d.Track.Kind,
			NewIndex:    d.NewIndex,
			Encoder:     d.Encoder,
			Transcode:   d.Transcode(),
			PixelFormat: d.PixelFormat,
			Filter:      d.Filter,
		})
		if d.Transcode() {
			transcodes = true
		}
	}
	for _, a := range in.Assignments {
		if !a.Changed {
			continue
		}
		plan.Dispositions = append(plan.Dispositions, DispositionArg{Kind: a.Kind, NewIndex: a.NewIndex, Flags: a.Flags.Clone()})
	}
	for _, o := range in.Overrides {
		plan.Metadata = append(plan.Metadata, MetadataArg{
			Stream: streamSpecifier(o.Kind, o.NewIndex),
			Key:    "language",
			Value:  o.Language,
		})
	}
	plan.Metadata = append(plan.Metadata, metadataChanges(in.Target, in.Existing)...)

	plan.AnyChange = transcodes || len(plan.Dispositions) > 0 || len(plan.Metadata) > 0 || len(in.Overrides) > 0
	return plan
}

var metadataOrder = []string{"title", "show", "season_number", "episode_id", "date", "comment"}

// metadataChanges returns the target keys whose trimmed value differs from
// the existing tag. Keys with empty target values are skipped.
func metadataChanges(target, existing map[string]string) []MetadataArg {
	if len(target) == 0 {
		return nil
	}
	current := make(map[string]string, len(existing))
	for key, value := range existing {
		current[strings.ToLower(key)] = strings.TrimSpace(value)
	}

	keys := make([]string, 0, len(target))
	seen := make(map[string]bool, len(target))
	for _, key := range metadataOrder {
		if _, ok := target[key]; ok {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	var rest []string
	for key := range target {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	var out []MetadataArg
	for _, key := range keys {
		value := strings.TrimSpace(target[key])
		if value == "" {
			continue
		}
		if existingValue, ok := current[strings.ToLower(key)]; ok && existingValue == value {
			continue
		}
		out = append(out, MetadataArg{Key: key, Value: value})
	}
	return out
}

func streamSpecifier(kind track.Kind, newIndex int) string {
	return fmt.Sprintf("%s:%d", kind.Specifier(), newIndex)
}
