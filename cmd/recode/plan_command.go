package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recode/internal/config"
	"recode/internal/encoding"
	"recode/internal/language"
	"recode/internal/planner"
	"recode/internal/recoder"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <file>",
		Short: "Show how a file would be recoded without changing it",
		Long: `Probe a media file and print the track table, the output stream
decisions with their final dispositions, and the ffmpeg command that a run
would execute. Nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			r, closeFn, err := ctx.newRecoder(false)
			if err != nil {
				return err
			}
			defer closeFn()

			plan, err := r.Plan(cmd.Context(), path)
			if err != nil {
				return err
			}
			cfg, _ := ctx.ensureConfig()
			printPlan(cmd.OutOrStdout(), plan, r, cfg.FFmpegBinary())
			return nil
		},
	}
}

func printPlan(out io.Writer, plan *recoder.FilePlan, r *recoder.Recoder, ffmpeg string) {
	fmt.Fprintf(out, "Source: %s\n", plan.Source)
	output := plan.Output
	if encoding.SamePath(plan.Source, plan.Output) {
		output += " (in place)"
	}
	fmt.Fprintf(out, "Output: %s\n", output)
	for i, aux := range plan.Auxiliary {
		fmt.Fprintf(out, "Input %d: %s\n", i+1, aux)
	}
	fmt.Fprintf(out, "Hardware acceleration: %s\n\n", r.Mode())

	fmt.Fprintln(out, "Input tracks")
	trackRows := make([][]string, 0, len(plan.Tracks))
	for _, t := range plan.Tracks {
		trackRows = append(trackRows, []string{
			fmt.Sprintf("%d:%d", t.FileIndex, t.SourceIndex),
			string(t.Kind),
			t.CodecName,
			languageLabel(t.Language),
			dash(t.Title),
			t.Disposition.String(),
		})
	}
	fmt.Fprintln(out, renderTable(out, []string{"Input", "Kind", "Codec", "Language", "Title", "Disposition"}, trackRows, nil))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Output streams")
	assignments := make(map[planner.Key]planner.Assignment, len(plan.Result.Assignments))
	for _, a := range plan.Result.Assignments {
		assignments[a.Key] = a
	}
	streamRows := make([][]string, 0, len(plan.Result.Decisions))
	for _, d := range plan.Result.Decisions {
		disposition := "-"
		if a, ok := assignments[d.Key()]; ok {
			disposition = a.Flags.String()
			if a.Changed {
				disposition += " *"
			}
		}
		streamRows = append(streamRows, []string{
			fmt.Sprintf("%s:%d", d.Track.Kind.Specifier(), d.NewIndex),
			fmt.Sprintf("%d:%d", d.Track.FileIndex, d.Track.SourceIndex),
			action(d),
			languageLabel(d.Track.Language),
			disposition,
			d.Reason,
		})
	}
	fmt.Fprintln(out, renderTable(out, []string{"Stream", "Input", "Action", "Language", "Disposition", "Reason"}, streamRows, nil))
	fmt.Fprintln(out)

	if plan.Result.AudioFallback {
		fmt.Fprintln(out, "Note: no audio track matched the language policy; all audio tracks are kept")
	}
	if !plan.AnyChange() {
		if encoding.SamePath(plan.Source, plan.Output) {
			fmt.Fprintln(out, "No changes needed; the file would be left as-is")
		} else {
			fmt.Fprintln(out, "No changes needed; the file would be moved to the output path")
		}
		return
	}
	fmt.Fprintln(out, "Command:")
	fmt.Fprintf(out, "  %s\n", shellJoin(append([]string{ffmpeg}, r.Command(plan)...)))
}

func action(d planner.Decision) string {
	if d.Copy {
		return planner.CopyEncoder
	}
	parts := []string{d.Encoder}
	if d.PixelFormat != "" {
		parts = append(parts, d.PixelFormat)
	}
	if d.Filter != "" {
		parts = append(parts, d.Filter)
	}
	return strings.Join(parts, " ")
}

// languageLabel shows a code with its name when the code is known.
func languageLabel(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "-"
	}
	name := language.DisplayName(code)
	if name == strings.ToUpper(code) {
		return code
	}
	return fmt.Sprintf("%s (%s)", code, name)
}

func dash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func shellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t'\"$;&|()<>*?[]#~") {
			quoted[i] = strconv.Quote(arg)
			continue
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}
