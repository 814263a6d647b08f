package recoder

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"recode/internal/encoding"
	"recode/internal/history"
	"recode/internal/logging"
	"recode/internal/services"
)

// Report is the outcome of processing one file.
type Report struct {
	Source    string
	Output    string
	Outcome   history.Outcome
	AnyChange bool
	// Skipped is set when the ledger already holds a successful entry.
	Skipped bool
	Elapsed time.Duration
	Err     error
}

// Process plans path and applies the plan: unchanged files are left alone
// or moved to the output directory, everything else is encoded.
func (r *Recoder) Process(ctx context.Context, path string) (Report, error) {
	start := time.Now()
	report := Report{Source: path}
	ctx = services.WithFile(ctx, path)
	logger := logging.WithContext(ctx, r.logger)

	sourceState, err := statFile(path)
	if err != nil {
		err = services.Wrap(services.ErrNotFound, "plan", "stat source", "source file is not accessible", err)
		return r.fail(ctx, logger, report, history.FileState{Path: path}, start, err)
	}

	plan, err := r.Plan(ctx, path)
	if err != nil {
		return r.fail(ctx, logger, report, sourceState, start, err)
	}
	report.Output = plan.Output
	report.AnyChange = plan.AnyChange()

	switch {
	case !plan.AnyChange() && encoding.SamePath(plan.Source, plan.Output):
		report.Outcome = history.OutcomeUnchanged
		logging.Decision(logger, "file left unchanged", "file_action", "skip", "output would equal input")
	case !plan.AnyChange():
		moveCtx := services.WithStage(ctx, "finalize")
		if err := encoding.Relocate(plan.Source, plan.Output); err != nil {
			return r.fail(moveCtx, logger, report, sourceState, start, err)
		}
		report.Outcome = history.OutcomeMoved
		logging.Decision(logger, "file moved", "file_action", "move", "output would equal input",
			logging.String("output", plan.Output),
		)
	default:
		if err := r.encode(ctx, plan); err != nil {
			return r.fail(ctx, logger, report, sourceState, start, err)
		}
		report.Outcome = history.OutcomeEncoded
	}

	report.Elapsed = time.Since(start)
	outputState, err := statFile(plan.Output)
	if err != nil {
		outputState = history.FileState{Path: plan.Output}
	}
	r.record(ctx, logger, history.Entry{
		Source:     sourceState,
		Output:     outputState,
		Outcome:    report.Outcome,
		AnyChange:  report.AnyChange,
		Arguments:  strings.Join(plan.Args.Args(), " "),
		StartedAt:  start,
		FinishedAt: start.Add(report.Elapsed),
	})
	logger.Info("file processed",
		logging.String("outcome", string(report.Outcome)),
		logging.String("output", report.Output),
		logging.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

func (r *Recoder) encode(ctx context.Context, plan *FilePlan) error {
	ctx = services.WithStage(ctx, "encode")
	logger := logging.WithContext(ctx, r.logger)

	if err := os.MkdirAll(filepath.Dir(plan.Output), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "encode", "ensure output directory", "Failed to create output directory", err)
	}
	temp := encoding.TempPath(plan.Output)
	logger.Info("encoding started",
		logging.String(logging.FieldEventType, "encode_start"),
		logging.Bool("video_transcode", plan.VideoTranscode()),
		logging.Bool("audio_transcode", plan.AudioTranscode()),
		logging.String("hwaccel", string(r.mode)),
	)

	lastBucket := -1
	err := r.runner.Encode(ctx, plan.Request(r.tuning, temp), func(p encoding.Progress) {
		if p.Percent < 0 {
			return
		}
		bucket := int(p.Percent) / 25
		if bucket <= lastBucket {
			return
		}
		lastBucket = bucket
		logger.Info("encoding progress",
			logging.Float64("percent", p.Percent),
			logging.String("speed", p.Speed),
		)
	})
	if err != nil {
		_ = os.Remove(temp)
		return err
	}

	if err := encoding.Finalize(temp, plan.Source, plan.Output); err != nil {
		return err
	}
	logger.Info("encoding finished",
		logging.String(logging.FieldEventType, "encode_complete"),
		logging.String("output", plan.Output),
	)
	return nil
}

func (r *Recoder) fail(ctx context.Context, logger *slog.Logger, report Report, source history.FileState, start time.Time, err error) (Report, error) {
	report.Outcome = history.FailureOutcome(err)
	report.Elapsed = time.Since(start)
	report.Err = err
	logging.ErrorWithContext(logger, "file processing failed", "file_failure",
		logging.String("outcome", string(report.Outcome)),
		logging.Error(err),
	)
	r.record(ctx, logger, history.Entry{
		Source:     source,
		Output:     history.FileState{Path: report.Output},
		Outcome:    report.Outcome,
		AnyChange:  report.AnyChange,
		Error:      err.Error(),
		StartedAt:  start,
		FinishedAt: start.Add(report.Elapsed),
	})
	return report, err
}

func (r *Recoder) record(ctx context.Context, logger *slog.Logger, entry history.Entry) {
	if r.history == nil {
		return
	}
	if id, ok := services.RunIDFromContext(ctx); ok {
		entry.RunID = id
	}
	if _, err := r.history.Record(ctx, entry); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_write",
			logging.Error(err),
			logging.String(logging.FieldImpact, "file will be processed again on the next run"),
		)
	}
}

func statFile(path string) (history.FileState, error) {
	info, err := os.Stat(path)
	if err != nil {
		return history.FileState{}, err
	}
	return history.FileState{Path: path, Size: info.Size(), ModTime: info.ModTime()}, nil
}
