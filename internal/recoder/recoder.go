package recoder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"recode/internal/config"
	"recode/internal/encoding"
	"recode/internal/ffargs"
	"recode/internal/history"
	"recode/internal/hwaccel"
	"recode/internal/logging"
	"recode/internal/media/ffprobe"
	"recode/internal/metadata"
	"recode/internal/planner"
	"recode/internal/services"
	"recode/internal/subtitles"
	"recode/internal/track"
)

// Recoder holds the collaborators shared by every file of one invocation.
type Recoder struct {
	cfg      *config.Config
	logger   *slog.Logger
	mode     hwaccel.Mode
	options  planner.Options
	tuning   encoding.Tuning
	finder   *subtitles.Finder
	metadata metadata.Source
	runner   *encoding.Runner
	history  *history.Store
	detector hwaccel.Detector
}

// Option customizes a Recoder.
type Option func(*Recoder)

// WithHistory records outcomes in store and lets batch runs skip processed files.
func WithHistory(store *history.Store) Option {
	return func(r *Recoder) {
		r.history = store
	}
}

// WithDetector overrides hardware detection.
func WithDetector(detector hwaccel.Detector) Option {
	return func(r *Recoder) {
		r.detector = detector
	}
}

// WithMetadataSource overrides the target metadata lookup.
func WithMetadataSource(source metadata.Source) Option {
	return func(r *Recoder) {
		r.metadata = source
	}
}

// New resolves the hardware mode and planner options for cfg.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Recoder, error) {
	if cfg == nil {
		return nil, errors.New("recoder: config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Recoder{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "recoder"),
		metadata: metadata.FileNameSource{TitleCase: cfg.Metadata.TitleCase},
		detector: hwaccel.DefaultDetector(),
	}
	for _, opt := range opts {
		opt(r)
	}

	mode, err := r.detector.Resolve(cfg.Video.HWAccel)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "plan", "resolve hwaccel", "invalid video.hwaccel", err)
	}
	options, err := PlannerOptions(cfg, mode)
	if err != nil {
		return nil, err
	}
	r.mode = mode
	r.options = options
	r.tuning = TuningFromConfig(cfg, mode)
	r.finder = subtitles.NewFinder(cfg.Paths.SubtitleDir, logger)
	r.runner = encoding.NewRunner(cfg.FFmpegBinary(), logger)
	return r, nil
}

// Mode returns the resolved hardware acceleration mode.
func (r *Recoder) Mode() hwaccel.Mode {
	return r.mode
}

// FilePlan is everything decided about one source file.
type FilePlan struct {
	Source    string
	Output    string
	Auxiliary []string
	Probe     ffprobe.Result
	// Tracks are the probed tracks of the primary and auxiliary inputs.
	Tracks   []track.Track
	Result   planner.Result
	Metadata map[string]string
	Args     ffargs.ArgumentPlan
}

// AnyChange reports whether the output would differ from the source.
func (p *FilePlan) AnyChange() bool {
	return p.Args.AnyChange
}

// VideoTranscode reports whether any video stream is re-encoded.
func (p *FilePlan) VideoTranscode() bool {
	return p.transcodes(track.KindVideo)
}

// AudioTranscode reports whether any audio stream is re-encoded.
func (p *FilePlan) AudioTranscode() bool {
	return p.transcodes(track.KindAudio)
}

func (p *FilePlan) transcodes(kind track.Kind) bool {
	for _, d := range p.Result.Decisions {
		if d.Track.Kind == kind && d.Transcode() {
			return true
		}
	}
	return false
}

// Request builds the encode request writing into output.
func (p *FilePlan) Request(tuning encoding.Tuning, output string) encoding.Request {
	return encoding.Request{
		Source:          p.Source,
		Auxiliary:       append([]string(nil), p.Auxiliary...),
		Plan:            p.Args,
		Tuning:          tuning,
		VideoTranscode:  p.VideoTranscode(),
		AudioTranscode:  p.AudioTranscode(),
		Output:          output,
		DurationSeconds: p.Probe.DurationSeconds(),
	}
}

// Command returns the full ffmpeg argv for the plan, excluding the binary.
func (r *Recoder) Command(plan *FilePlan) []string {
	return encoding.BuildCommand(plan.Request(r.tuning, plan.Output))
}

// Plan probes path and returns its plan without touching the file.
func (r *Recoder) Plan(ctx context.Context, path string) (*FilePlan, error) {
	ctx = services.WithStage(services.WithFile(ctx, path), "plan")
	logger := logging.WithContext(ctx, r.logger)

	probe, err := ffprobe.Inspect(ctx, r.cfg.FFprobeBinary(), path)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "plan", "probe source", "ffprobe failed", err)
	}
	tracks, err := track.FromProbe(probe.Streams, 0)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "plan", "convert streams", "invalid probe data", err)
	}

	p := planner.New(r.options)
	p.AddPrimary(tracks)

	plan := &FilePlan{
		Source: path,
		Output: encoding.OutputPath(path, r.cfg.Paths.OutputDir),
		Probe:  probe,
	}

	if p.SubtitleCount() == 0 && r.finder.Enabled() {
		auxiliary, auxTracks, err := r.probeAuxiliary(ctx, path)
		if err != nil {
			return nil, err
		}
		if len(auxiliary) > 0 {
			p.AddAuxiliarySubtitles(auxTracks)
			plan.Auxiliary = auxiliary
			tracks = append(tracks, auxTracks...)
		}
	}
	plan.Tracks = tracks
	plan.Result = p.Result()

	target, err := r.metadata.Lookup(ctx, path)
	if err != nil {
		logging.WarnWithContext(logger, "metadata lookup failed", "metadata_lookup",
			logging.Error(err),
			logging.String(logging.FieldImpact, "container metadata left unchanged"),
		)
		target = nil
	}
	plan.Metadata = target
	plan.Args = ffargs.Serialize(ffargs.FromResult(plan.Result, target, probe.FormatTags()))

	r.logDecisions(logger, plan)
	return plan, nil
}

// probeAuxiliary locates and probes the external subtitle files for path.
// Auxiliary inputs are numbered from 1 in the order they are found.
func (r *Recoder) probeAuxiliary(ctx context.Context, path string) ([]string, []track.Track, error) {
	files, err := r.finder.Find(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	var (
		inputs []string
		tracks []track.Track
	)
	for _, file := range files {
		probe, err := ffprobe.Inspect(ctx, r.cfg.FFprobeBinary(), file)
		if err != nil {
			return nil, nil, services.Wrap(services.ErrExternalTool, "plan", "probe subtitle file", fmt.Sprintf("ffprobe failed for %s", file), err)
		}
		if probe.StreamCount(string(track.KindSubtitle)) == 0 {
			continue
		}
		converted, err := track.FromProbe(probe.Streams, len(inputs)+1)
		if err != nil {
			return nil, nil, services.Wrap(services.ErrValidation, "plan", "convert subtitle streams", fmt.Sprintf("invalid probe data for %s", file), err)
		}
		inputs = append(inputs, file)
		tracks = append(tracks, converted...)
	}
	return inputs, tracks, nil
}

func (r *Recoder) logDecisions(logger *slog.Logger, plan *FilePlan) {
	for _, d := range plan.Result.Decisions {
		result := "copy"
		if !d.Copy {
			result = d.Encoder
		}
		logging.Decision(logger, "track planned", string(d.Track.Kind)+"_codec", result, d.Reason,
			logging.String("track", d.Track.Label()),
			logging.Int("new_index", d.NewIndex),
		)
	}
	changed := 0
	for _, a := range plan.Result.Assignments {
		if a.Changed {
			changed++
		}
	}
	logger.Info("file planned",
		logging.Int("tracks", len(plan.Tracks)),
		logging.Int("mapped", len(plan.Result.Decisions)),
		logging.Int("auxiliary_inputs", len(plan.Auxiliary)),
		logging.Int("disposition_changes", changed),
		logging.Int("language_overrides", len(plan.Result.Overrides)),
		logging.Bool("audio_fallback", plan.Result.AudioFallback),
		logging.Bool("any_change", plan.AnyChange()),
		logging.String("output", plan.Output),
	)
	if plan.Result.AudioFallback {
		logging.WarnWithContext(logger, "no audio track matched the language policy", "audio_language_fallback",
			logging.String(logging.FieldImpact, "all audio tracks kept"),
			logging.String(logging.FieldErrorHint, "add the track languages to language.allowed"),
		)
	}
	logger.Debug("ffmpeg arguments", logging.String("args", strings.Join(plan.Args.Args(), " ")))
}
