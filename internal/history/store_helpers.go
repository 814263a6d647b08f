package history

import (
	"database/sql"
	"fmt"
	"time"
)

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry        Entry
		sourceMod    sql.NullString
		outputPath   sql.NullString
		outputMod    sql.NullString
		outcome      string
		anyChange    int
		arguments    sql.NullString
		errorMessage sql.NullString
		startedRaw   string
		finishedRaw  string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.Source.Path,
		&entry.Source.Size,
		&sourceMod,
		&outputPath,
		&entry.Output.Size,
		&outputMod,
		&outcome,
		&anyChange,
		&arguments,
		&errorMessage,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return Entry{}, fmt.Errorf("scan history entry: %w", err)
	}
	entry.Source.ModTime = parseTime(sourceMod.String)
	entry.Output.Path = outputPath.String
	entry.Output.ModTime = parseTime(outputMod.String)
	entry.Outcome = Outcome(outcome)
	entry.AnyChange = anyChange != 0
	entry.Arguments = arguments.String
	entry.Error = errorMessage.String
	entry.StartedAt = parseTime(startedRaw)
	entry.FinishedAt = parseTime(finishedRaw)
	return entry, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
