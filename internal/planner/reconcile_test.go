package planner

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"recode/internal/track"
)

func sampleClassified() Classified {
	p := New(DefaultOptions())
	p.AddPrimary([]track.Track{
		videoTrack(0, "hevc", "yuv420p10le"),
		audioTrack(1, "ac3", "eng", 2, track.FlagDefault),
		audioTrack(2, "truehd", "eng", 8, track.FlagDefault),
		audioTrack(3, "aac", "jpn", 2, track.FlagComment),
		subtitleTrack(4, "subrip", "eng", "Forced", track.FlagDefault),
		subtitleTrack(5, "subrip", "eng", "Full"),
		{SourceIndex: 6, Kind: track.KindAttachment, CodecName: "ttf"},
	})
	return p.Classified()
}

func TestReconcileIsIdempotent(t *testing.T) {
	c := sampleClassified()
	first := Reconcile(c)
	second := Reconcile(c)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("reconcile not idempotent (-first +second):\n%s", diff)
	}
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	c := sampleClassified()
	before := make([]track.Flags, len(c.Decisions))
	for i, d := range c.Decisions {
		before[i] = d.Flags.Clone()
	}
	_ = Reconcile(c)
	for i, d := range c.Decisions {
		if !d.Flags.Equal(before[i]) {
			t.Fatalf("decision %d flags changed from %v to %v", i, before[i], d.Flags)
		}
	}
}

func TestReconcileSingleDefaultPerKind(t *testing.T) {
	inputs := [][]track.Track{
		nil,
		{audioTrack(1, "ac3", "ita", 2, track.FlagDefault), audioTrack(2, "ac3", "fre", 2, track.FlagDefault)},
		{audioTrack(1, "ac3", "eng", 2, track.FlagDefault), audioTrack(2, "ac3", "eng", 2, track.FlagDefault), audioTrack(3, "ac3", "eng", 2, track.FlagDefault)},
		{subtitleTrack(1, "ass", "jpn", "Signs"), subtitleTrack(2, "ass", "jpn", "Dialogue")},
		{videoTrack(0, "av1", "yuv420p10le")},
	}
	for i, tracks := range inputs {
		result := Plan(tracks, DefaultOptions())
		for _, kind := range []track.Kind{track.KindAudio, track.KindSubtitle} {
			want := 0
			if len(decisionsOf(result, kind)) > 0 {
				want = 1
			}
			if got := countDefaults(result.Assignments, kind); got != want {
				t.Fatalf("input %d kind %s: expected %d defaults, got %d", i, kind, want, got)
			}
		}
	}
}

func TestReconcileDetectsChanges(t *testing.T) {
	assignments := Reconcile(sampleClassified())

	type summary struct {
		Key     Key
		Flags   string
		Changed bool
	}
	got := make([]summary, 0, len(assignments))
	for _, a := range assignments {
		got = append(got, summary{Key: a.Key, Flags: a.Flags.String(), Changed: a.Changed})
	}
	want := []summary{
		{Key{track.KindVideo, 0}, "none", false},
		{Key{track.KindAudio, 0}, "none", true},
		{Key{track.KindAudio, 1}, "default", false},
		{Key{track.KindAudio, 2}, "comment", false},
		{Key{track.KindSubtitle, 0}, "forced", true},
		{Key{track.KindSubtitle, 1}, "default", true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("assignments mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileNoChangeWhenDefaultAlreadyCorrect(t *testing.T) {
	result := Plan([]track.Track{
		videoTrack(0, "av1", "yuv420p10le"),
		audioTrack(1, "flac", "eng", 2, track.FlagDefault),
		audioTrack(2, "ac3", "eng", 2),
	}, DefaultOptions())
	for _, a := range result.Assignments {
		if a.Changed {
			t.Fatalf("unexpected change for %+v", a)
		}
	}
}
