package encoding

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"recode/internal/ffargs"
	"recode/internal/hwaccel"
)

// Tuning carries the encoder settings appended after the plan fragments.
type Tuning struct {
	HWAccel      hwaccel.Mode
	VideoCodec   string
	Quality      int
	AudioBitrate string
	SampleRate   int
}

// Request describes one encode.
type Request struct {
	Source    string
	Auxiliary []string
	Plan      ffargs.ArgumentPlan
	Tuning    Tuning
	// VideoTranscode and AudioTranscode gate the tuning arguments.
	VideoTranscode bool
	AudioTranscode bool
	Output         string
	// DurationSeconds scales progress reports; zero disables percentages.
	DurationSeconds float64
}

// BuildCommand returns the ffmpeg arguments for req, excluding the binary.
func BuildCommand(req Request) []string {
	return buildCommand(req)
}

func buildCommand(req Request, beforeOutput ...string) []string {
	args := []string{"-hide_banner", "-nostdin", "-y", "-v", "error", "-strict", "-2"}
	if req.VideoTranscode && req.Tuning.HWAccel != hwaccel.ModeNone && req.Tuning.HWAccel != "" {
		args = append(args, "-hwaccel", "auto")
	}
	args = append(args, "-i", req.Source)
	for _, aux := range req.Auxiliary {
		args = append(args, "-i", aux)
	}
	args = append(args, req.Plan.Args()...)
	args = append(args, TuningArgs(req.Tuning, req.VideoTranscode, req.AudioTranscode)...)
	args = append(args, beforeOutput...)
	args = append(args, "-f", "matroska", req.Output)
	return args
}

// TuningArgs returns the rate-control arguments for the selected encoder
// family. Nothing is emitted for stream kinds that are only copied.
func TuningArgs(t Tuning, videoTranscode, audioTranscode bool) []string {
	var args []string
	if videoTranscode {
		quality := strconv.Itoa(t.Quality)
		switch t.HWAccel {
		case hwaccel.ModeAMF:
			args = append(args, "-rc", "hqvbr", "-qvbr_quality_level", quality, "-quality", "quality")
		case hwaccel.ModeCUDA:
			rc := "vbr_hq"
			if t.VideoCodec == "av1" {
				rc = "vbr"
			}
			args = append(args, "-preset", "p7", "-rc", rc, "-cq", quality)
		default:
			args = append(args, "-crf", quality)
			if t.VideoCodec != "av1" {
				args = append(args, "-preset", "veryslow")
			}
		}
	}
	if audioTranscode {
		if bitrate := strings.TrimSpace(t.AudioBitrate); bitrate != "" {
			args = append(args, "-b:a", bitrate)
		}
		if t.SampleRate > 0 {
			args = append(args, "-ar", strconv.Itoa(t.SampleRate))
		}
	}
	return args
}

// OutputPath returns where the recoded file for source lands. An empty
// outputDir replaces the source in place.
func OutputPath(source, outputDir string) string {
	base := strings.ReplaceAll(filepath.Base(source), "?", "")
	outputDir = strings.TrimSpace(outputDir)
	if outputDir == "" {
		return filepath.Join(filepath.Dir(source), base)
	}
	return filepath.Join(outputDir, base)
}

const tempMarker = ".recode-"

// TempPath returns a hidden, unique sibling of output for the encoder to
// write into.
func TempPath(output string) string {
	base := filepath.Base(output)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(output), "."+stem+tempMarker+uuid.NewString()+".mkv")
}

// IsTempName reports whether a file name was produced by TempPath.
func IsTempName(name string) bool {
	if !strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".mkv") {
		return false
	}
	idx := strings.LastIndex(name, tempMarker)
	if idx < 0 {
		return false
	}
	id := strings.TrimSuffix(name[idx+len(tempMarker):], ".mkv")
	_, err := uuid.Parse(id)
	return err == nil
}
