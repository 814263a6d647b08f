package metadata

import (
	"context"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tag keys understood by the argument serializer.
const (
	KeyTitle        = "title"
	KeyShow         = "show"
	KeySeasonNumber = "season_number"
	KeyEpisodeID    = "episode_id"
	KeyDate         = "date"
	KeyComment      = "comment"
)

// Source supplies the target metadata map for a media file.
type Source interface {
	Lookup(ctx context.Context, path string) (map[string]string, error)
}

// FileNameSource derives metadata from the file name and its parent
// directories.
type FileNameSource struct {
	TitleCase bool
}

// Lookup implements Source.
func (s FileNameSource) Lookup(_ context.Context, path string) (map[string]string, error) {
	return FromPath(path, s.TitleCase), nil
}

var seasonDirPattern = regexp.MustCompile(`(?i)^(season|staffel)\s*\d+$|^s\d{1,4}$`)

// FromPath builds the metadata map for path. The title is the file name
// without its extension. When the name carries an SxxEyy token the season,
// episode and show (the nearest parent directory that is not a season
// folder) are added as well.
func FromPath(path string, titleCase bool) map[string]string {
	path = strings.TrimSpace(path)
	if path == "" {
		return map[string]string{}
	}
	base := filepath.Base(path)
	title := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if titleCase {
		title = cases.Title(language.Und, cases.NoLower).String(title)
	}

	tags := map[string]string{}
	if title != "" {
		tags[KeyTitle] = title
	}

	episode, ok := ParseEpisode(base)
	if !ok {
		return tags
	}
	tags[KeySeasonNumber] = strconv.Itoa(episode.Season)
	tags[KeyEpisodeID] = episode.EpisodeID()
	if show := showName(filepath.Dir(path)); show != "" {
		tags[KeyShow] = show
	}
	return tags
}

func showName(dir string) string {
	for range 2 {
		name := filepath.Base(dir)
		if name == "." || name == string(filepath.Separator) || name == "" {
			return ""
		}
		if !seasonDirPattern.MatchString(strings.TrimSpace(name)) {
			return strings.TrimSpace(name)
		}
		dir = filepath.Dir(dir)
	}
	return ""
}
