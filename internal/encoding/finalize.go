package encoding

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"recode/internal/fileutil"
	"recode/internal/services"
)

const outputMode os.FileMode = 0o644

// BackupPath is where an in-place replacement keeps the original file.
func BackupPath(source string) string {
	return source + ".old"
}

// Finalize installs tempPath at outputPath. When the output replaces the
// source, the source is first renamed to its backup path and is moved back
// if the encoded file cannot be installed.
func Finalize(tempPath, sourcePath, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "encoding", "ensure output directory", "Failed to create output directory", err)
	}
	inPlace := samePath(sourcePath, outputPath)
	if inPlace {
		if err := fileutil.MoveFile(sourcePath, BackupPath(sourcePath), 0); err != nil {
			return services.Wrap(services.ErrTransient, "encoding", "backup source", "Failed to keep the original file", err)
		}
	}
	if err := fileutil.MoveFile(tempPath, outputPath, outputMode); err != nil {
		_ = os.Remove(tempPath)
		if inPlace {
			if restoreErr := fileutil.MoveFile(BackupPath(sourcePath), sourcePath, 0); restoreErr != nil {
				err = errors.Join(err, fmt.Errorf("restore source from %s: %w", BackupPath(sourcePath), restoreErr))
			}
		}
		return services.Wrap(services.ErrTransient, "encoding", "finalize output", "Failed to move encoded artifact into destination", err)
	}
	return nil
}

// Relocate moves an unchanged source to outputPath.
func Relocate(sourcePath, outputPath string) error {
	if samePath(sourcePath, outputPath) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "encoding", "ensure output directory", "Failed to create output directory", err)
	}
	if err := fileutil.MoveFile(sourcePath, outputPath, 0); err != nil {
		return services.Wrap(services.ErrTransient, "encoding", "relocate source", "Failed to move unchanged file", err)
	}
	return nil
}

// SamePath reports whether a and b name the same location.
func SamePath(a, b string) bool {
	return samePath(a, b)
}

func samePath(a, b string) bool {
	return resolve(a) == resolve(b)
}

func resolve(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	dir, base := filepath.Split(path)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return filepath.Join(resolved, base)
	}
	return filepath.Clean(path)
}
