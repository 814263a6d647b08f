package planner

import (
	"sort"

	"recode/internal/track"
)

// Key identifies an output stream.
type Key struct {
	Kind     track.Kind
	NewIndex int
}

// Assignment is the final disposition of one output stream.
type Assignment struct {
	Key
	Title    string
	Language string
	Flags    track.Flags
	// Source is the disposition reported by probing.
	Source  track.Flags
	Changed bool
}

// Reconcile turns classified state into one disposition assignment per
// output stream. The elected default of each kind gains the default flag
// and every other stream of that kind loses it; other flags pass through.
// Attachments carry no disposition and are skipped. Reconcile does not
// modify its input.
func Reconcile(c Classified) []Assignment {
	assignments := make([]Assignment, 0, len(c.Decisions))
	for _, d := range c.Decisions {
		if d.Track.Kind == track.KindAttachment {
			continue
		}
		flags := d.Flags.Clone()
		if elected, ok := c.Defaults[d.Track.Kind]; ok && !d.CoverArt {
			if elected == d.NewIndex {
				flags = flags.With(track.FlagDefault)
			} else {
				flags = flags.Without(track.FlagDefault)
			}
		}
		assignments = append(assignments, Assignment{
			Key:      d.Key(),
			Title:    d.Track.Title,
			Language: d.Track.Language,
			Flags:    flags,
			Source:   d.Track.Disposition.Clone(),
			Changed:  !flags.Equal(d.Track.Disposition),
		})
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		a, b := assignments[i], assignments[j]
		if a.Kind != b.Kind {
			return kindOrder(a.Kind) < kindOrder(b.Kind)
		}
		return a.NewIndex < b.NewIndex
	})
	return assignments
}

func kindOrder(kind track.Kind) int {
	for i, k := range track.Kinds {
		if k == kind {
			return i
		}
	}
	return len(track.Kinds)
}
