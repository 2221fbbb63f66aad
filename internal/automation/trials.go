package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/san-kum/gravwell/internal/engine"
)

// Factory builds an engine and its metrics for one trial.
type Factory func(seed int64) (*engine.Engine, []engine.Metric, error)

// TrialResult holds the metric values from one seeded replay.
type TrialResult struct {
	Seed    int64
	Metrics map[string]float64
	Resets  uint64
}

// RunTrials replays s once per seed, starting from base. Trials run
// concurrently, each on its own engine; results keep seed order.
func RunTrials(ctx context.Context, s *Scenario, base int64, n int, build Factory, log *slog.Logger) ([]TrialResult, error) {
	results := make([]TrialResult, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = runTrial(ctx, s, base+int64(idx), build, log)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i+1, err)
		}
	}
	return results, nil
}

func runTrial(ctx context.Context, s *Scenario, seed int64, build Factory, log *slog.Logger) (TrialResult, error) {
	e, ms, err := build(seed)
	if err != nil {
		return TrialResult{}, err
	}
	for _, m := range ms {
		e.AddMetric(m)
	}
	if err := Run(ctx, e, s, log, nil); err != nil {
		return TrialResult{}, err
	}

	values := make(map[string]float64, len(ms))
	for _, m := range ms {
		values[m.Name()] = m.Value()
	}
	return TrialResult{
		Seed:    seed,
		Metrics: values,
		Resets:  e.PerformanceMetrics().ParticleResets,
	}, nil
}

// Summary is the spread of one metric across trials.
type Summary struct {
	Mean, Min, Max float64
}

// Summarize computes per-metric statistics across trials.
func Summarize(results []TrialResult) map[string]Summary {
	out := make(map[string]Summary)
	for _, r := range results {
		for name, v := range r.Metrics {
			s, ok := out[name]
			if !ok {
				s = Summary{Min: math.Inf(1), Max: math.Inf(-1)}
			}
			s.Mean += v
			s.Min = math.Min(s.Min, v)
			s.Max = math.Max(s.Max, v)
			out[name] = s
		}
	}
	for name, s := range out {
		s.Mean /= float64(len(results))
		out[name] = s
	}
	return out
}
