package track

import (
	"sort"
	"strings"
)

// Disposition flag names as ffmpeg spells them.
const (
	FlagDefault         = "default"
	FlagDub             = "dub"
	FlagOriginal        = "original"
	FlagComment         = "comment"
	FlagLyrics          = "lyrics"
	FlagKaraoke         = "karaoke"
	FlagForced          = "forced"
	FlagHearingImpaired = "hearing_impaired"
	FlagVisualImpaired  = "visual_impaired"
	FlagCleanEffects    = "clean_effects"
	FlagAttachedPic     = "attached_pic"
	FlagTimedThumbnails = "timed_thumbnails"
	FlagNonDiegetic     = "non_diegetic"
	FlagCaptions        = "captions"
	FlagDescriptions    = "descriptions"
	FlagMetadata        = "metadata"
	FlagDependent       = "dependent"
	FlagStillImage      = "still_image"
)

// NoneToken is the serialized form of an empty flag set.
const NoneToken = "none"

// flagOrder is the order ffprobe reports disposition keys in.
var flagOrder = []string{
	FlagDefault, FlagDub, FlagOriginal, FlagComment, FlagLyrics, FlagKaraoke,
	FlagForced, FlagHearingImpaired, FlagVisualImpaired, FlagCleanEffects,
	FlagAttachedPic, FlagTimedThumbnails, FlagNonDiegetic, FlagCaptions,
	FlagDescriptions, FlagMetadata, FlagDependent, FlagStillImage,
}

// Flags is an insertion-ordered set of disposition flag names.
type Flags []string

// FlagsFromDisposition builds a flag set from an ffprobe disposition map,
// keeping every key whose value is non-zero. Known keys follow ffprobe's
// order; unknown keys are appended alphabetically.
func FlagsFromDisposition(disposition map[string]int) Flags {
	if len(disposition) == 0 {
		return nil
	}
	var flags Flags
	known := make(map[string]struct{}, len(flagOrder))
	for _, name := range flagOrder {
		known[name] = struct{}{}
		if disposition[name] != 0 {
			flags = append(flags, name)
		}
	}
	var extra []string
	for name, value := range disposition {
		if value == 0 {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if _, ok := known[name]; ok || name == "" {
			continue
		}
		extra = append(extra, name)
	}
	sort.Strings(extra)
	return flags.With(extra...)
}

// ParseFlags parses the serialized form produced by String.
func ParseFlags(value string) Flags {
	value = strings.TrimSpace(value)
	if value == "" || value == NoneToken {
		return nil
	}
	var flags Flags
	for _, part := range strings.Split(value, "+") {
		flags = flags.With(part)
	}
	return flags
}

// Has reports whether name is in the set.
func (f Flags) Has(name string) bool {
	for _, existing := range f {
		if existing == name {
			return true
		}
	}
	return false
}

// With returns a copy of f with names added. Existing names keep their position.
func (f Flags) With(names ...string) Flags {
	out := f.Clone()
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || name == NoneToken || out.Has(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Without returns a copy of f with name removed.
func (f Flags) Without(name string) Flags {
	if !f.Has(name) {
		return f.Clone()
	}
	out := make(Flags, 0, len(f)-1)
	for _, existing := range f {
		if existing != name {
			out = append(out, existing)
		}
	}
	return out
}

// Union returns the set union of f and other, preserving f's order first.
func (f Flags) Union(other Flags) Flags {
	return f.With(other...)
}

// Equal reports set equality, ignoring order.
func (f Flags) Equal(other Flags) bool {
	if len(f) != len(other) {
		return false
	}
	for _, name := range f {
		if !other.Has(name) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (f Flags) Clone() Flags {
	if f == nil {
		return nil
	}
	out := make(Flags, len(f))
	copy(out, f)
	return out
}

// String joins the flags with "+", or returns "none" for an empty set.
func (f Flags) String() string {
	if len(f) == 0 {
		return NoneToken
	}
	return strings.Join(f, "+")
}
