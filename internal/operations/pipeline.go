package operations

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/trace"

	"spotifyeda/internal/dataprocessing"
	"spotifyeda/internal/infrastructure"
)

// Options configures a Pipeline
type Options struct {
	Tracer  trace.Tracer
	Metrics *infrastructure.PipelineMetrics
	Logger  *slog.Logger
}

// Request describes one run. Normalization and cleaning are on unless
// skipped; without a Sink the save Step is skipped.
type Request struct {
	ID            string
	Source        Source
	Sink          Sink
	SkipNormalize bool
	SkipClean     bool
}

// Result is the outcome of a run
type Result struct {
	ID         string                     `json:"id"`
	Status     OperationStatus            `json:"status"`
	Dataset    *dataprocessing.Dataset    `json:"-"`
	Stats      *dataprocessing.CleanStats `json:"stats,omitempty"`
	OutputPath string                     `json:"output_path,omitempty"`
	Steps      []StepInfo                 `json:"steps"`
	Duration   time.Duration              `json:"duration"`
}

// Pipeline executes the load, normalize, clean and save Steps in order
type Pipeline struct {
	tracer *OperationTracer
	logger *slog.Logger
}

// NewPipeline creates a pipeline. Without Options.Logger every run logs
// through infrastructure.LoggerFromContext.
func NewPipeline(opts Options) *Pipeline {
	p := &Pipeline{tracer: NewOperationTracer(opts.Tracer, opts.Metrics)}
	if opts.Logger != nil {
		p.logger = infrastructure.WithComponent(opts.Logger, "pipeline")
	}
	return p
}

func (p *Pipeline) loggerFor(ctx context.Context) *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return infrastructure.WithComponent(infrastructure.LoggerFromContext(ctx), "pipeline")
}

// Run executes the Steps of req. The returned Result is populated even when
// the run fails, so callers can inspect which Step broke.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if req.ID == "" {
		req.ID = infrastructure.GenerateTraceID()
	}
	ctx = infrastructure.WithTraceID(ctx, req.ID)
	logger := p.loggerFor(ctx).With(slog.String("operation_id", req.ID))

	state := NewOperationState(req.ID)
	registry, skipped := buildSteps(req)
	for _, step := range registry.List() {
		state.AddStep(NewStepState(step.ID(), step.Name()))
	}
	for _, s := range skipped {
		state.AddStep(s)
	}

	ctx, span := p.tracer.TraceOperationExecution(ctx, req.ID)
	defer span.End()

	state.Start()
	logger.InfoContext(ctx, "Pipeline started", slog.Int("steps", registry.Count()))

	err := p.execute(ctx, state, registry, logger)
	p.tracer.RecordOperationCompletion(ctx, span, state.Duration(), err)

	switch {
	case err == nil:
		state.Complete()
		logger.InfoContext(ctx, "Pipeline completed", slog.Duration("duration", state.Duration()))
	case GetErrorType(err) == ErrorTypeCancellation:
		state.Cancel(err)
		infrastructure.WithError(logger, err).WarnContext(ctx, "Pipeline cancelled")
	default:
		state.Fail(err)
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Pipeline failed",
			slog.String("step", FailedStep(err)))
	}

	return newResult(state), err
}

func (p *Pipeline) execute(ctx context.Context, state *OperationState, registry *Registry, logger *slog.Logger) error {
	steps := registry.List()
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			for _, rest := range steps[i:] {
				state.GetStep(rest.ID()).Skip("cancelled")
			}
			return NewCancellationError(step.ID(), err)
		}

		if err := p.runStep(ctx, state, step, logger); err != nil {
			for _, rest := range steps[i+1:] {
				state.GetStep(rest.ID()).Skip("previous step failed")
			}
			return NewExecutionError(step.ID(), err)
		}

		switch step.ID() {
		case StepIDLoad:
			p.tracer.RecordRowsRead(ctx, state.Dataset().Len())
		case StepIDClean:
			if stats, ok := cleanStats(state); ok {
				p.tracer.RecordCleanStats(ctx, *stats)
			}
		case StepIDSave:
			p.tracer.RecordRowsWritten(ctx, state.Dataset().Len())
		}
	}
	return nil
}

func (p *Pipeline) runStep(ctx context.Context, state *OperationState, step Step, logger *slog.Logger) error {
	stepState := state.GetStep(step.ID())
	ctx, span := p.tracer.TraceStepExecution(ctx, state.ID, step.ID())
	defer span.End()

	stepState.Start()
	logger.DebugContext(ctx, "Step started", slog.String("step", step.ID()))

	err := step.Execute(ctx, state)
	if err != nil {
		stepState.Fail(err)
	} else {
		stepState.Complete()
	}
	p.tracer.RecordStepCompletion(ctx, span, step.ID(), stepState.Duration(), err)

	logger.DebugContext(ctx, "Step finished",
		slog.String("step", step.ID()),
		slog.String("status", string(stepState.GetStatus())),
		slog.Duration("duration", stepState.Duration()))
	return err
}

// buildSteps registers the Steps the request asks for and returns the
// states of the ones it turned off.
func buildSteps(req Request) (*Registry, []*StepState) {
	registry := NewRegistry()
	var skipped []*StepState

	_ = registry.Register(NewLoadStep(req.Source))
	if req.SkipNormalize {
		skipped = append(skipped, skippedState(StepIDNormalize, StepNameNormalize, "disabled by request"))
	} else {
		_ = registry.Register(NewNormalizeStep())
	}
	if req.SkipClean {
		skipped = append(skipped, skippedState(StepIDClean, StepNameClean, "disabled by request"))
	} else {
		_ = registry.Register(NewCleanStep())
	}
	if req.Sink == nil {
		skipped = append(skipped, skippedState(StepIDSave, StepNameSave, "no sink"))
	} else {
		_ = registry.Register(NewSaveStep(req.Sink))
	}
	return registry, skipped
}

func skippedState(id, name, reason string) *StepState {
	s := NewStepState(id, name)
	s.Skip(reason)
	return s
}

func cleanStats(state *OperationState) (*dataprocessing.CleanStats, bool) {
	v, ok := state.GetContext(ContextKeyCleanStats)
	if !ok {
		return nil, false
	}
	stats, ok := v.(dataprocessing.CleanStats)
	return &stats, ok
}

func newResult(state *OperationState) *Result {
	res := &Result{
		ID:       state.ID,
		Status:   state.GetStatus(),
		Dataset:  state.Dataset(),
		Steps:    orderedSteps(state.Steps()),
		Duration: state.Duration(),
	}
	if stats, ok := cleanStats(state); ok {
		res.Stats = stats
	}
	if v, ok := state.GetContext(ContextKeyOutputPath); ok {
		res.OutputPath, _ = v.(string)
	}
	return res
}

// orderedSteps puts the Step states in pipeline order regardless of which
// ones were skipped up front.
func orderedSteps(steps []StepInfo) []StepInfo {
	rank := map[string]int{StepIDLoad: 0, StepIDNormalize: 1, StepIDClean: 2, StepIDSave: 3}
	sort.SliceStable(steps, func(i, j int) bool {
		return rank[steps[i].ID] < rank[steps[j].ID]
	})
	return steps
}
