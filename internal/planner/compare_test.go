package planner

import "testing"

func TestCompare(t *testing.T) {
	tests := []struct {
		name      string
		candidate Score
		incumbent Score
		want      Outcome
	}{
		{"language match beats rank", Score{LanguageMatch: true, Channels: 2}, Score{Channels: 2, Rank: 6}, Better},
		{"language match beats channels", Score{LanguageMatch: true, Channels: 2}, Score{Channels: 8}, Better},
		{"non match never displaces match", Score{Channels: 8, Rank: 6}, Score{LanguageMatch: true, Channels: 2}, Worse},
		{"two non matches tie", Score{Channels: 8, Rank: 6}, Score{Channels: 2}, Tie},
		{"more channels win", Score{LanguageMatch: true, Channels: 6}, Score{LanguageMatch: true, Channels: 2, Rank: 6}, Better},
		{"fewer channels lose", Score{LanguageMatch: true, Channels: 2, Rank: 6}, Score{LanguageMatch: true, Channels: 6}, Worse},
		{"equal channels higher rank", Score{LanguageMatch: true, Channels: 6, Rank: 5}, Score{LanguageMatch: true, Channels: 6, Rank: 2}, Better},
		{"equal channels lower rank", Score{LanguageMatch: true, Channels: 6, Rank: 1}, Score{LanguageMatch: true, Channels: 6, Rank: 2}, Worse},
		{"identical", Score{LanguageMatch: true, Channels: 6, Rank: 2}, Score{LanguageMatch: true, Channels: 6, Rank: 2}, Tie},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.candidate, tt.incumbent); got != tt.want {
				t.Fatalf("Compare = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSelectorKeepsFirstOnTie(t *testing.T) {
	var s selector
	if s.elected() != -1 {
		t.Fatalf("expected empty selector to elect -1, got %d", s.elected())
	}
	if !s.offer(0, Score{Channels: 2}) {
		t.Fatal("expected first offer to be taken")
	}
	if s.offer(1, Score{Channels: 6}) {
		t.Fatal("expected non-matching candidate to tie with non-matching incumbent")
	}
	if !s.offer(2, Score{LanguageMatch: true}) {
		t.Fatal("expected language match to displace incumbent")
	}
	if s.elected() != 2 {
		t.Fatalf("expected elected 2, got %d", s.elected())
	}
}
