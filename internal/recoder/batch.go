package recoder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"recode/internal/history"
	"recode/internal/logging"
	"recode/internal/preflight"
	"recode/internal/services"
	"recode/internal/staging"
)

// staleTempAge is how old an encoder temp file must be before a new run
// treats it as abandoned.
const staleTempAge = 6 * time.Hour

// ErrBatchActive is returned when another run holds the batch lock.
var ErrBatchActive = errors.New("another recode run is active")

var mediaExtensions = map[string]struct{}{
	".mkv":  {},
	".mp4":  {},
	".m4v":  {},
	".avi":  {},
	".mov":  {},
	".webm": {},
	".ts":   {},
}

// BatchOptions controls a batch run.
type BatchOptions struct {
	// Force processes files even when the ledger says they were handled.
	Force bool
}

// BatchSummary collects the reports of one run in processing order.
type BatchSummary struct {
	RunID   string
	Reports []Report
	Elapsed time.Duration
}

// Counts tallies the reports by outcome. Skipped files count as "skipped".
func (s BatchSummary) Counts() map[string]int {
	counts := make(map[string]int)
	for _, report := range s.Reports {
		if report.Skipped {
			counts["skipped"]++
			continue
		}
		counts[string(report.Outcome)]++
	}
	return counts
}

// Failures returns the reports that ended in an error.
func (s BatchSummary) Failures() []Report {
	var failed []Report
	for _, report := range s.Reports {
		if report.Err != nil {
			failed = append(failed, report)
		}
	}
	return failed
}

// RunBatch processes every media file under root, or root itself when it is
// a file. Files are handled one at a time; a failure is logged and the run
// continues with the next file.
func (r *Recoder) RunBatch(ctx context.Context, root string, opts BatchOptions) (BatchSummary, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return BatchSummary{}, services.Wrap(services.ErrConfiguration, "batch", "ensure directories", "Failed to create working directories", err)
	}
	if failed := preflight.Failed(preflight.RunAll(ctx, r.cfg)); len(failed) > 0 {
		names := make([]string, 0, len(failed))
		for _, result := range failed {
			names = append(names, fmt.Sprintf("%s (%s)", result.Name, result.Detail))
		}
		return BatchSummary{}, services.Wrap(services.ErrConfiguration, "batch", "preflight", "preflight checks failed: "+strings.Join(names, ", "), nil)
	}

	lock := flock.New(r.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return BatchSummary{}, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !ok {
		return BatchSummary{}, ErrBatchActive
	}
	defer func() {
		_ = lock.Unlock()
	}()

	files, err := CollectMedia(root)
	if err != nil {
		return BatchSummary{}, err
	}

	r.cleanStaleTemps(ctx, root)

	summary := BatchSummary{RunID: uuid.NewString()}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)
	start := time.Now()
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.String("root", root),
		logging.Int("files", len(files)),
		logging.Bool("force", opts.Force),
	)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, err
		}
		if !opts.Force && r.processed(ctx, path) {
			logging.Decision(logging.WithContext(services.WithFile(ctx, path), r.logger),
				"file skipped", "file_action", "skip", "already processed")
			summary.Reports = append(summary.Reports, Report{Source: path, Skipped: true})
			continue
		}
		report, _ := r.Process(ctx, path)
		summary.Reports = append(summary.Reports, report)
	}

	summary.Elapsed = time.Since(start)
	counts := summary.Counts()
	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("files", len(summary.Reports)),
		logging.Int("encoded", counts[string(history.OutcomeEncoded)]),
		logging.Int("moved", counts[string(history.OutcomeMoved)]),
		logging.Int("unchanged", counts[string(history.OutcomeUnchanged)]),
		logging.Int("skipped", counts["skipped"]),
		logging.Int("failed", len(summary.Failures())),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

func (r *Recoder) cleanStaleTemps(ctx context.Context, root string) {
	dirs := []string{root}
	if out := strings.TrimSpace(r.cfg.Paths.OutputDir); out != "" {
		dirs = append(dirs, out)
	}
	for _, dir := range dirs {
		result := staging.CleanStale(ctx, dir, staleTempAge, r.logger)
		for _, failure := range result.Errors {
			r.logger.Debug("temp cleanup skipped path",
				logging.String("path", failure.Path),
				logging.Error(failure.Error),
			)
		}
	}
}

func (r *Recoder) processed(ctx context.Context, path string) bool {
	if r.history == nil {
		return false
	}
	state, err := statFile(path)
	if err != nil {
		return false
	}
	done, err := r.history.Processed(ctx, state)
	if err != nil {
		logging.WarnWithContext(r.logger, "history lookup failed", "history_read",
			logging.Error(err),
			logging.String(logging.FieldFile, path),
			logging.String(logging.FieldImpact, "file will be processed"),
		)
		return false
	}
	return done
}

// CollectMedia returns the absolute paths of the media files under root in
// lexical order. Hidden entries are ignored. A file root is returned as-is.
func CollectMedia(root string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "batch", "resolve root", "invalid path", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "batch", "stat root", fmt.Sprintf("%s is not accessible", root), err)
	}
	if !info.IsDir() {
		return []string{abs}, nil
	}

	var files []string
	err = filepath.WalkDir(abs, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := entry.Name()
		if path != abs && strings.HasPrefix(name, ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !IsMedia(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "batch", "walk root", "Failed to list media files", err)
	}
	sort.Strings(files)
	return files, nil
}

// IsMedia reports whether path has a recognised media extension.
func IsMedia(path string) bool {
	_, ok := mediaExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
