package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveFFprobe returns the ffprobe command to run. An explicitly configured
// command wins. Otherwise an ffprobe sitting next to a custom ffmpeg build is
// preferred over the one on PATH, so probing and encoding use the same
// toolchain.
func ResolveFFprobe(ffmpegCommand, ffprobeCommand string) string {
	ffprobeCommand = strings.TrimSpace(ffprobeCommand)
	if ffprobeCommand != "" && ffprobeCommand != "ffprobe" {
		return ffprobeCommand
	}
	if candidate, ok := siblingBinary(ffmpegCommand, "ffprobe"); ok {
		return candidate
	}
	return "ffprobe"
}

// FFmpegRequirements lists the binaries needed to plan and encode.
func FFmpegRequirements(ffmpegCommand, ffprobeCommand string) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     strings.TrimSpace(ffmpegCommand),
			Description: "Required for encoding",
		},
		{
			Name:        "FFprobe",
			Command:     ResolveFFprobe(ffmpegCommand, ffprobeCommand),
			Description: "Required for media inspection",
		},
	}
}

func siblingBinary(command, name string) (string, bool) {
	command = strings.TrimSpace(command)
	if command == "" || command == "ffmpeg" {
		return "", false
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		return "", false
	}
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	candidate := filepath.Join(filepath.Dir(resolved), name)
	info, err := os.Stat(candidate)
	if err != nil || !isExecutable(info) {
		return "", false
	}
	return candidate, true
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
