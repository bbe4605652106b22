package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"stocklens/internal/config"
	apperrors "stocklens/internal/errors"
	"stocklens/internal/series"
)

// Runner executes every analytics module against one series.
type Runner struct {
	cfg    config.AnalyticsConfig
	logger *slog.Logger
}

// NewRunner creates a Runner. A nil logger falls back to slog.Default.
func NewRunner(cfg config.AnalyticsConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run computes every module. The series is immutable and each module only
// reads it, so the modules run concurrently. A module's AnalysisError lands
// in Results.Errors and never stops the other modules.
func (r *Runner) Run(ctx context.Context, s *series.PriceSeries) *Results {
	start := time.Now()
	results := &Results{
		RunID:       uuid.NewString(),
		GeneratedAt: start,
		Errors:      make(map[string]*apperrors.AnalysisError),
	}

	var mu sync.Mutex
	record := func(module string, err error) error {
		if err == nil {
			return nil
		}
		mu.Lock()
		defer mu.Unlock()
		ae, ok := apperrors.IsAnalysisError(err)
		if !ok {
			ae = apperrors.NewAnalysisError(module,
				apperrors.KindInsufficientData, err.Error())
		}
		results.Errors[module] = ae
		r.logger.Warn("analytics module failed", "module", module, "error", err)
		return ae
	}

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		results.Descriptive = ComputeDescriptive(s)
		return nil
	})
	g.Go(func() error {
		perf, err := ComputePerformance(s, r.cfg)
		results.Performance = perf
		return record(ModulePerformance, err)
	})
	g.Go(func() error {
		results.Technical = ComputeTechnical(s, r.cfg)
		return nil
	})
	g.Go(func() error {
		risk, err := ComputeRisk(s, r.cfg)
		results.Risk = risk
		return record(ModuleRisk, err)
	})
	g.Go(func() error {
		ts, err := ComputeTimeSeries(s, r.cfg)
		results.TimeSeries = ts
		return record(ModuleTimeSeries, err)
	})
	g.Go(func() error {
		vol, err := ComputeVolatility(s, r.cfg)
		results.Volatility = vol
		return record(ModuleVolatility, err)
	})
	g.Go(func() error {
		results.Predictive = ComputePredictive(s, r.cfg)
		return nil
	})
	g.Go(func() error {
		st, err := ComputeStrategy(s, r.cfg)
		results.Strategy = st
		return record(ModuleStrategy, err)
	})
	g.Go(func() error {
		sent, err := ComputeSentiment(s)
		results.Sentiment = sent
		return record(ModuleSentiment, err)
	})
	g.Go(func() error {
		reg, err := ComputeRegime(s)
		results.Regime = reg
		return record(ModuleRegime, err)
	})
	g.Go(func() error {
		corr, err := ComputeCorrelation(s)
		results.Correlation = corr
		return record(ModuleCorrelation, err)
	})

	// Module failures never stop the other modules; Wait carries the first
	// one so partial runs are loud in the completion log.
	if err := g.Wait(); err != nil {
		r.logger.Warn("analytics run completed with failures",
			"run_id", results.RunID,
			"rows", s.Len(),
			"failed_modules", len(results.Errors),
			"first_error", err,
			"duration", time.Since(start),
		)
		return results
	}

	r.logger.Info("analytics run complete",
		"run_id", results.RunID,
		"rows", s.Len(),
		"failed_modules", len(results.Errors),
		"duration", time.Since(start),
	)

	return results
}
