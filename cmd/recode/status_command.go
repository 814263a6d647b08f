package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"recode/internal/config"
	"recode/internal/history"
	"recode/internal/hwaccel"
	"recode/internal/preflight"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"

	statusLabelWidth = 24
	statusIndent     = "  "
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

var statusStyles = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

var statusDetector = hwaccel.DefaultDetector

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show dependency checks, hardware acceleration and history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			lines := renderSectionHeader("System", colorize)
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				lines = append(lines, resultLine(result, colorize))
			}
			lines = append(lines, resultLine(preflight.CheckHWAccel(cfg, statusDetector()), colorize))
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			fmt.Fprintln(out)

			return printHistory(cmd.Context(), out, cfg, recent, colorize)
		},
	}

	cmd.Flags().IntVarP(&recent, "recent", "n", 10, "Number of recent history entries to show")
	return cmd
}

func printHistory(ctx context.Context, out io.Writer, cfg *config.Config, recent int, colorize bool) error {
	lines := renderSectionHeader("History", colorize)
	if _, err := os.Stat(cfg.HistoryPath()); os.IsNotExist(err) {
		lines = append(lines, renderStatusLine("Ledger", statusInfo, "no runs recorded yet", colorize))
		fmt.Fprintln(out, strings.Join(lines, "\n"))
		return nil
	}

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	counts, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	for _, outcome := range []history.Outcome{
		history.OutcomeEncoded, history.OutcomeMoved, history.OutcomeUnchanged,
		history.OutcomeFailed, history.OutcomeInvalid,
	} {
		kind := statusInfo
		if !outcome.Successful() && counts[outcome] > 0 {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(string(outcome), kind, fmt.Sprintf("%d", counts[outcome]), colorize))
	}
	fmt.Fprintln(out, strings.Join(lines, "\n"))

	entries, err := store.Recent(ctx, recent)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.FinishedAt.Local().Format("2006-01-02 15:04"),
			filepath.Base(entry.Source.Path),
			string(entry.Outcome),
			yesNo(entry.AnyChange),
			dash(entry.Error),
		})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(out, []string{"Finished", "File", "Outcome", "Changed", "Error"}, rows, nil))
	return nil
}

func resultLine(result preflight.Result, colorize bool) string {
	kind := statusOK
	if !result.Passed {
		kind = statusError
	}
	return renderStatusLine(result.Name, kind, result.Detail, colorize)
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	statusText := fmt.Sprintf("[%s]", style.label)
	if message != "" {
		statusText += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize && style.color != "" {
		return style.color + line + ansiReset
	}
	return line
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
