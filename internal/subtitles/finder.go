package subtitles

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"recode/internal/logging"
	"recode/internal/metadata"
	"recode/internal/services"
)

// Finder resolves auxiliary subtitle files from a configured source path.
type Finder struct {
	source string
	logger *slog.Logger
}

// NewFinder constructs a finder for source. An empty source disables lookup.
func NewFinder(source string, logger *slog.Logger) *Finder {
	return &Finder{
		source: strings.TrimSpace(source),
		logger: logging.NewComponentLogger(logger, "subtitles"),
	}
}

// Enabled reports whether a subtitle source is configured.
func (f *Finder) Enabled() bool {
	return f != nil && f.source != ""
}

// Find returns the absolute paths of the auxiliary subtitle files for
// mediaPath, sorted by name. It returns nil when nothing matches.
func (f *Finder) Find(ctx context.Context, mediaPath string) ([]string, error) {
	if !f.Enabled() {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(f.source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, "subtitles", "stat source", fmt.Sprintf("subtitle source %q does not exist", f.source), err)
		}
		return nil, services.Wrap(services.ErrConfiguration, "subtitles", "stat source", "subtitle source is not readable", err)
	}
	if !info.IsDir() {
		return []string{absolute(f.source)}, nil
	}

	episode, ok := metadata.ParseEpisode(filepath.Base(mediaPath))
	if !ok {
		f.logger.Debug("no episode token in media name",
			logging.String(logging.FieldFile, mediaPath),
			logging.String(logging.FieldDecisionReason, "subtitle directory lookup needs SxxEyy"),
		)
		return nil, nil
	}

	entries, err := os.ReadDir(f.source)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "subtitles", "read source", "subtitle directory is not readable", err)
	}
	var matches []os.DirEntry
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		candidate, ok := metadata.ParseEpisode(entry.Name())
		if ok && candidate.Same(episode) {
			matches = append(matches, entry)
		}
	}
	if len(matches) != 1 {
		if len(matches) > 1 {
			logging.WarnWithContext(f.logger, "ambiguous subtitle match", "subtitle_ambiguous",
				logging.String("episode", episode.String()),
				logging.Int("matches", len(matches)),
				logging.String(logging.FieldImpact, "no auxiliary subtitles added"),
				logging.String(logging.FieldErrorHint, "keep one subtitle entry per episode in the subtitle directory"),
			)
		}
		return nil, nil
	}

	match := filepath.Join(f.source, matches[0].Name())
	if !matches[0].IsDir() {
		return []string{absolute(match)}, nil
	}
	return filesIn(match)
}

func filesIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "subtitles", "read episode directory", "subtitle directory is not readable", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, absolute(filepath.Join(dir, entry.Name())))
	}
	sort.Strings(files)
	return files, nil
}

func absolute(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
