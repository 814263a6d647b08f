package planner

// Outcome is the result of comparing a default candidate to the incumbent.
type Outcome int

const (
	Worse  Outcome = -1
	Tie    Outcome = 0
	Better Outcome = 1
)

func (o Outcome) String() string {
	switch o {
	case Better:
		return "better"
	case Worse:
		return "worse"
	default:
		return "tie"
	}
}

// Score holds the fields used to elect a default track. Subtitles leave
// Channels at zero.
type Score struct {
	LanguageMatch bool
	Channels      int
	Rank          int
}

// Compare orders two default candidates. A target-language match beats any
// non-matching track. Among matching tracks more channels win, then the
// higher rank. Two non-matching tracks tie so the earlier one is kept.
func Compare(candidate, incumbent Score) Outcome {
	switch {
	case candidate.LanguageMatch && !incumbent.LanguageMatch:
		return Better
	case !candidate.LanguageMatch && incumbent.LanguageMatch:
		return Worse
	case !candidate.LanguageMatch:
		return Tie
	}
	if candidate.Channels != incumbent.Channels {
		if candidate.Channels > incumbent.Channels {
			return Better
		}
		return Worse
	}
	if candidate.Rank != incumbent.Rank {
		if candidate.Rank > incumbent.Rank {
			return Better
		}
		return Worse
	}
	return Tie
}

// selector tracks the best default candidate of one kind.
type selector struct {
	set      bool
	newIndex int
	score    Score
}

// offer records the candidate when it is the first one or strictly better
// than the incumbent. It reports whether the candidate was taken.
func (s *selector) offer(newIndex int, score Score) bool {
	if s.set && Compare(score, s.score) != Better {
		return false
	}
	s.set = true
	s.newIndex = newIndex
	s.score = score
	return true
}

// elected returns the default newIndex, or -1 when no track was offered.
func (s selector) elected() int {
	if !s.set {
		return -1
	}
	return s.newIndex
}
