package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"recode/internal/config"
	"recode/internal/history"
	"recode/internal/recoder"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var outputDir string

	cmd := &cobra.Command{
		Use:   "run <file|dir>",
		Short: "Recode a file or every media file under a directory",
		Long: `Process media files one at a time. Files whose size and modification
time match a successful history entry are skipped unless --force is given.
The command exits non-zero when any file failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			if dir := strings.TrimSpace(outputDir); dir != "" {
				expanded, err := config.ExpandPath(dir)
				if err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
				cfg.Paths.OutputDir = expanded
			}

			r, closeFn, err := ctx.newRecoder(true)
			if err != nil {
				return err
			}
			defer closeFn()

			summary, err := r.RunBatch(cmd.Context(), root, recoder.BatchOptions{Force: force})
			out := cmd.OutOrStdout()
			if len(summary.Reports) > 0 {
				printSummary(out, summary)
			}
			if err != nil {
				return err
			}
			if len(summary.Reports) == 0 {
				fmt.Fprintf(out, "No media files found under %s\n", root)
				return nil
			}
			if failed := len(summary.Failures()); failed > 0 {
				return fmt.Errorf("%d of %d file(s) failed", failed, len(summary.Reports))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Process files even when the history says they are done")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Write results to this directory instead of replacing files")
	return cmd
}

func printSummary(out io.Writer, summary recoder.BatchSummary) {
	rows := make([][]string, 0, len(summary.Reports))
	for _, report := range summary.Reports {
		outcome := string(report.Outcome)
		if report.Skipped {
			outcome = "skipped"
		}
		detail := ""
		switch {
		case report.Err != nil:
			detail = report.Err.Error()
		case report.Outcome == history.OutcomeMoved || report.Outcome == history.OutcomeEncoded:
			detail = report.Output
		}
		rows = append(rows, []string{
			filepath.Base(report.Source),
			outcome,
			formatElapsed(report.Elapsed),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable(out, []string{"File", "Outcome", "Elapsed", "Detail"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}))

	counts := summary.Counts()
	fmt.Fprintf(out, "Run %s: %d encoded, %d moved, %d unchanged, %d skipped, %d failed in %s\n",
		summary.RunID,
		counts[string(history.OutcomeEncoded)],
		counts[string(history.OutcomeMoved)],
		counts[string(history.OutcomeUnchanged)],
		counts["skipped"],
		len(summary.Failures()),
		formatElapsed(summary.Elapsed),
	)
}

func formatElapsed(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
