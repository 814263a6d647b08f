// Package hwaccel selects the hardware encoder family used for video
// transcodes. Detection looks for the vendor runtime libraries that ffmpeg
// loads for AMF and NVENC encoders.
package hwaccel

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// Mode identifies an encoder family.
type Mode string

const (
	ModeNone Mode = "none"
	ModeAMF  Mode = "amf"
	ModeCUDA Mode = "cuda"
)

// ModeAuto requests detection at startup.
const ModeAuto = "auto"

// Detector checks for vendor runtime libraries.
type Detector struct {
	AMFLibraries  []string
	CUDALibraries []string
}

// DefaultDetector probes the usual library locations on Linux.
func DefaultDetector() Detector {
	return Detector{
		AMFLibraries: []string{
			"/usr/lib/libamfrt64.so",
			"/usr/lib64/libamfrt64.so",
			"/usr/lib/x86_64-linux-gnu/libamfrt64.so.1",
		},
		CUDALibraries: []string{
			"/usr/lib/libcuda.so",
			"/usr/lib64/libcuda.so",
			"/usr/lib/x86_64-linux-gnu/libcuda.so.1",
		},
	}
}

// Detect returns AMF when its runtime is readable, then CUDA, else none.
func (d Detector) Detect() Mode {
	if anyReadable(d.AMFLibraries) {
		return ModeAMF
	}
	if anyReadable(d.CUDALibraries) {
		return ModeCUDA
	}
	return ModeNone
}

// Resolve turns a configured value into a concrete mode, running detection
// for "auto" (or an empty value).
func (d Detector) Resolve(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", ModeAuto:
		return d.Detect(), nil
	default:
		return ParseMode(value)
	}
}

// ParseMode parses an explicit mode name.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeNone:
		return ModeNone, nil
	case ModeAMF:
		return ModeAMF, nil
	case ModeCUDA, "nvenc", "nvidia":
		return ModeCUDA, nil
	default:
		return "", fmt.Errorf("unsupported hwaccel mode %q", value)
	}
}

func anyReadable(paths []string) bool {
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if unix.Access(path, unix.R_OK) == nil {
			return true
		}
	}
	return false
}
