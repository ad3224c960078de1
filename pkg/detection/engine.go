package detection

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"stackscan/pkg/detection/aggregate"
	"stackscan/pkg/detection/alternatives"
	"stackscan/pkg/detection/analyzers"
	"stackscan/pkg/detection/cache"
	"stackscan/pkg/detection/confidence"
	"stackscan/pkg/detection/conflicts"
	"stackscan/pkg/detection/errs"
	"stackscan/pkg/detection/evidence"
	"stackscan/pkg/detection/types"
	"stackscan/pkg/detection/warnings"
)

// PipelineContext bundles the injected services the engine depends on.
// Nothing here is global: tests construct their own context and run engines
// concurrently without interference.
type PipelineContext struct {
	Logger zerolog.Logger
	Cache  *cache.ResultCache
	Retry  RetryPolicy
}

// Engine orchestrates the detection pipeline: evidence collection, analyzer
// fan-out, aggregation, confidence scoring, conflict resolution, alternative
// suggestions and warning synthesis.
type Engine struct {
	pctx      PipelineContext
	analyzers []analyzers.Analyzer
	collector *evidence.Collector
}

// Option customizes engine construction
type Option func(*Engine)

// WithAnalyzers replaces the default analyzer registry
func WithAnalyzers(list ...analyzers.Analyzer) Option {
	return func(e *Engine) { e.analyzers = list }
}

// NewEngine creates a detection engine. A nil context gets a no-op logger,
// no cache and the default retry policy.
func NewEngine(pctx *PipelineContext, opts ...Option) *Engine {
	if pctx == nil {
		pctx = &PipelineContext{Logger: zerolog.Nop(), Retry: DefaultRetryPolicy()}
	}
	if pctx.Retry.MaxAttempts == 0 {
		pctx.Retry = DefaultRetryPolicy()
	}

	e := &Engine{
		pctx:      *pctx,
		analyzers: analyzers.Registry(),
		collector: evidence.NewCollector(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Detect runs the full pipeline for one project. The returned result always
// carries non-nil frameworks, build tools and warnings slices; errors are
// reserved for fatal failures (bad input, evidence collection breaking down,
// run cancellation).
func (e *Engine) Detect(ctx context.Context, info *types.ProjectInfo, projectPath string) (*types.DetectionResult, error) {
	started := time.Now()

	if info == nil {
		return nil, errs.New(errs.ValidationFailure, "engine", "project info is required")
	}

	logger := e.pctx.Logger.With().
		Str("run_id", uuid.NewString()).
		Str("project", info.Name).
		Logger()

	var key string
	if e.pctx.Cache != nil {
		key = cache.Fingerprint(info, projectPath)
		if cached, ok := e.pctx.Cache.Get(key); ok {
			logger.Debug().Str("fingerprint", key).Msg("cache hit")
			return cached, nil
		}
	}

	logger.Debug().Msg("collecting evidence")
	evidenceItems, err := withRetry(ctx, e.pctx.Retry, func() ([]types.Evidence, error) {
		return e.collector.Collect(info, projectPath)
	})
	if err != nil {
		return nil, errs.Wrap(errs.IntegrationFailure, "evidence_collector", err)
	}

	results, analyzerWarnings := e.runAnalyzers(ctx, logger, info, projectPath)
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.IntegrationFailure, "engine", err)
	}

	logger.Debug().Int("analyzers", len(results)).Msg("aggregating")
	merged := aggregate.Merge(results)

	logger.Debug().Msg("scoring")
	overall := confidence.Calculate(evidenceItems, confidence.Input{
		Frameworks: merged.Frameworks,
		BuildTools: merged.BuildTools,
		Containers: merged.Containers,
		Languages:  info.Languages,
	})

	dctx := &types.DetectionContext{
		Info:       info,
		Frameworks: merged.Frameworks,
		BuildTools: merged.BuildTools,
		Containers: merged.Containers,
		Evidence:   evidenceItems,
		Confidence: overall,
	}

	logger.Debug().Msg("resolving conflicts")
	found := conflicts.Detect(dctx)
	resolution := conflicts.Resolve(found, dctx)
	rctx := resolution.Context

	logger.Debug().Msg("suggesting alternatives")
	alts := alternatives.Generate(rctx)

	logger.Debug().Msg("synthesizing warnings")
	allWarnings := warnings.Generate(rctx)
	allWarnings = append(allWarnings, merged.Warnings...)
	allWarnings = append(allWarnings, resolution.Warnings...)
	allWarnings = append(allWarnings, analyzerWarnings...)
	warnings.Sort(allWarnings)

	result := &types.DetectionResult{
		Frameworks:    rctx.Frameworks,
		BuildTools:    rctx.BuildTools,
		Containers:    rctx.Containers,
		Confidence:    *overall,
		Alternatives:  alts,
		Warnings:      allWarnings,
		Conflicts:     found,
		DetectedAt:    started.UTC(),
		ExecutionTime: time.Since(started),
	}
	if result.Warnings == nil {
		result.Warnings = []types.DetectionWarning{}
	}

	if e.pctx.Cache != nil {
		e.pctx.Cache.Set(key, result)
	}

	logger.Info().
		Int("frameworks", len(result.Frameworks)).
		Int("build_tools", len(result.BuildTools)).
		Float64("confidence", result.Confidence.Score).
		Dur("elapsed", result.ExecutionTime).
		Msg("detection complete")

	return result, nil
}

// runAnalyzers fans out over eligible analyzers concurrently with
// join-all-settled semantics: a failing or panicking analyzer contributes a
// warning, never an aborted run. Analyzers share no mutable state; each
// writes only its own slot.
func (e *Engine) runAnalyzers(ctx context.Context, logger zerolog.Logger, info *types.ProjectInfo, projectPath string) ([]*types.LanguageDetectionResult, []types.DetectionWarning) {
	var eligible []analyzers.Analyzer
	for _, a := range e.analyzers {
		if a.CanAnalyze(info) {
			eligible = append(eligible, a)
		}
	}
	logger.Debug().Int("eligible", len(eligible)).Msg("analyzing")

	results := make([]*types.LanguageDetectionResult, len(eligible))
	var mu sync.Mutex
	var warns []types.DetectionWarning

	g, gctx := errgroup.WithContext(ctx)
	for i, a := range eligible {
		i, a := i, a
		g.Go(func() error {
			res, err := withRetry(gctx, e.pctx.Retry, func() (*types.LanguageDetectionResult, error) {
				return e.invokeAnalyzer(gctx, a, info, projectPath)
			})
			if err != nil {
				logger.Warn().Err(err).Str("ecosystem", string(a.Ecosystem())).Msg("analyzer dropped")
				mu.Lock()
				warns = append(warns, types.DetectionWarning{
					ID:       "analyzer_failed",
					Category: "analysis",
					Severity: types.SeverityWarning,
					Title:    "Analyzer failed",
					Message:  "the " + string(a.Ecosystem()) + " analyzer failed and its results were dropped: " + err.Error(),
				})
				mu.Unlock()
				return nil
			}

			for _, diag := range res.Warnings {
				mu.Lock()
				warns = append(warns, types.DetectionWarning{
					ID:       "analyzer_diagnostic",
					Category: "analysis",
					Severity: types.SeverityInfo,
					Title:    "Analyzer diagnostic",
					Message:  string(a.Ecosystem()) + ": " + diag,
				})
				mu.Unlock()
			}

			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results, warns
}

// invokeAnalyzer shields the pipeline from panicking analyzers by converting
// panics into DetectionFailure errors
func (e *Engine) invokeAnalyzer(ctx context.Context, a analyzers.Analyzer, info *types.ProjectInfo, projectPath string) (result *types.LanguageDetectionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.New(errs.DetectionFailure, string(a.Ecosystem()), "analyzer panicked: %v", r)
		}
	}()
	return a.Analyze(ctx, info, projectPath)
}
