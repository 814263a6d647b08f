package metadata

import (
	"regexp"
	"strconv"
	"strings"
)

var episodePattern = regexp.MustCompile(`(?i)\bS(\d{1,4})\s?((?:E\d{1,4})+)`)

var episodeNumberPattern = regexp.MustCompile(`(?i)E(\d{1,4})`)

// Episode identifies a season and one or more episode numbers parsed from a
// SxxEyy token.
type Episode struct {
	Season   int
	Episodes []int
}

// ParseEpisode finds the first SxxEyy token in value. Multi-episode tokens
// such as S01E01E02 yield every episode number.
func ParseEpisode(value string) (Episode, bool) {
	match := episodePattern.FindStringSubmatch(value)
	if len(match) != 3 {
		return Episode{}, false
	}
	season, err := strconv.Atoi(match[1])
	if err != nil {
		return Episode{}, false
	}
	var episodes []int
	for _, part := range episodeNumberPattern.FindAllStringSubmatch(match[2], -1) {
		n, err := strconv.Atoi(part[1])
		if err != nil {
			continue
		}
		episodes = append(episodes, n)
	}
	if len(episodes) == 0 {
		return Episode{}, false
	}
	return Episode{Season: season, Episodes: episodes}, true
}

// Same reports whether both values refer to the same season and first episode.
func (e Episode) Same(other Episode) bool {
	if len(e.Episodes) == 0 || len(other.Episodes) == 0 {
		return false
	}
	return e.Season == other.Season && e.Episodes[0] == other.Episodes[0]
}

// EpisodeID joins the episode numbers without zero padding.
func (e Episode) EpisodeID() string {
	parts := make([]string, 0, len(e.Episodes))
	for _, n := range e.Episodes {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ", ")
}

// String renders the canonical S01E02 form.
func (e Episode) String() string {
	var b strings.Builder
	b.WriteString("S")
	b.WriteString(pad(e.Season))
	for _, n := range e.Episodes {
		b.WriteString("E")
		b.WriteString(pad(n))
	}
	return b.String()
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
