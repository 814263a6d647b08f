package encoding

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"recode/internal/logging"
	"recode/internal/services"
)

var commandContext = exec.CommandContext

// Progress is one ffmpeg progress report.
type Progress struct {
	// Percent is negative when the duration is unknown.
	Percent float64
	OutTime time.Duration
	Speed   string
	Done    bool
}

// Runner executes ffmpeg.
type Runner struct {
	binary string
	logger *slog.Logger
}

// NewRunner constructs a runner for the given ffmpeg binary.
func NewRunner(binary string, logger *slog.Logger) *Runner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Runner{binary: binary, logger: logging.NewComponentLogger(logger, "encoder")}
}

// Encode runs ffmpeg for req, reporting progress through the optional
// callback. The output file is left in place on success only.
func (r *Runner) Encode(ctx context.Context, req Request, progress func(Progress)) error {
	if strings.TrimSpace(req.Source) == "" {
		return errors.New("encode: source path required")
	}
	if strings.TrimSpace(req.Output) == "" {
		return errors.New("encode: output path required")
	}

	args := buildCommand(req, "-progress", "pipe:1", "-nostats")
	r.logger.Debug("launching ffmpeg",
		logging.String("binary", r.binary),
		logging.String("command", strings.Join(args, " ")),
	)

	cmd := commandContext(ctx, r.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	start := time.Now()
	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrExternalTool, "encoding", "start ffmpeg", "Failed to launch ffmpeg", err)
	}

	var current Progress
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "out_time_us", "out_time_ms":
			// ffmpeg reports microseconds under both keys.
			if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
				current.OutTime = time.Duration(us) * time.Microsecond
			}
		case "speed":
			current.Speed = strings.TrimSpace(value)
		case "progress":
			current.Done = value == "end"
			current.Percent = percent(current.OutTime, req.DurationSeconds, current.Done)
			if progress != nil {
				progress(current)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return fmt.Errorf("read ffmpeg progress: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "ffmpeg exited with an error"
		}
		return services.Wrap(services.ErrExternalTool, "encoding", "run ffmpeg", lastLine(detail), err)
	}
	r.logger.Info("ffmpeg finished",
		logging.String("output", req.Output),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func percent(outTime time.Duration, durationSeconds float64, done bool) float64 {
	if done {
		return 100
	}
	if durationSeconds <= 0 {
		return -1
	}
	value := outTime.Seconds() / durationSeconds * 100
	if value > 100 {
		return 100
	}
	return value
}

func lastLine(text string) string {
	if idx := strings.LastIndex(text, "\n"); idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	return text
}
