package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recode/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The state and log directories exist on return.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Language.Target = "eng"
	cfgVal.Video.HWAccel = "none"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithOutputDir routes recoded files into a temp output directory.
func WithOutputDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.OutputDir = filepath.Join(b.baseDir, "output")
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := binDir(b)
		for _, name := range names {
			writeScript(b.t, filepath.Join(binDir, name), "#!/bin/sh\nexit 0\n")
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// WithMediaStubs installs an ffprobe that prints the fixture written by
// WriteMedia and an ffmpeg that records its arguments and writes a
// small output file. The config points at both stubs directly.
func WithMediaStubs() ConfigOption {
	return func(b *configBuilder) {
		dir := binDir(b)
		ffprobe := filepath.Join(dir, "ffprobe")
		ffmpeg := filepath.Join(dir, "ffmpeg-stub")
		writeScript(b.t, ffprobe, "#!/bin/sh\nfor last; do :; done\nfixture=\"$(dirname \"$last\")/.$(basename \"$last\").probe.json\"\nif [ ! -f \"$fixture\" ]; then\n  echo \"no fixture for $last\" >&2\n  exit 1\nfi\ncat \"$fixture\"\n")
		writeScript(b.t, ffmpeg, "#!/bin/sh\nprintf '%s\\n' \"$*\" >> '"+ffmpegLog(b.baseDir)+"'\nfor last; do :; done\nprintf 'encoded' > \"$last\"\necho 'progress=end'\n")
		b.cfg.Tools.FFmpeg = ffmpeg
		b.cfg.Tools.FFprobe = ffprobe
	}
}

// WithFailingFFmpeg installs an ffmpeg stub that exits with an error.
func WithFailingFFmpeg() ConfigOption {
	return func(b *configBuilder) {
		ffmpeg := filepath.Join(binDir(b), "ffmpeg-fail")
		writeScript(b.t, ffmpeg, "#!/bin/sh\necho 'Conversion failed!' >&2\nexit 1\n")
		b.cfg.Tools.FFmpeg = ffmpeg
	}
}

// FFmpegCalls returns one line of arguments per ffmpeg stub invocation.
func FFmpegCalls(t testing.TB, cfg *config.Config) []string {
	t.Helper()
	data, err := os.ReadFile(ffmpegLog(BaseDir(cfg)))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read ffmpeg log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

func binDir(b *configBuilder) string {
	dir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	return dir
}

func ffmpegLog(base string) string {
	return filepath.Join(base, "ffmpeg.args")
}

func writeScript(t testing.TB, path, script string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", path, err)
	}
}
