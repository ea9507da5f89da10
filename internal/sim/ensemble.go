package sim

import (
	"context"
	"sync"

	"github.com/san-kum/dicesim/internal/config"
)

// Ensemble runs independent headless throws concurrently, one seed per run.
// Each run builds its own world, so runs share nothing.
type Ensemble struct {
	cfg       *config.Config
	numRuns   int
	seedStart int64
	metrics   func() []Metric
}

// NewEnsemble prepares numRuns throws seeded seedStart, seedStart+1, ...
// newMetrics, when set, supplies fresh metrics for every run.
func NewEnsemble(cfg *config.Config, numRuns int, seedStart int64, newMetrics func() []Metric) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, metrics: newMetrics}
}

// Run throws every run once and ticks it until its dice settle or the
// configured settle budget is spent. Results keep run order.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := *e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)
			results[idx], errs[idx] = Settle(ctx, &cfgCopy, e.metrics)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Settle builds a headless simulation from cfg and ticks it until every die
// rests or cfg.Physics.SettleSteps ticks have passed.
func Settle(ctx context.Context, cfg *config.Config, newMetrics func() []Metric) (*Result, error) {
	clock, err := Build(cfg, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	if newMetrics != nil {
		for _, m := range newMetrics() {
			clock.AddMetric(m)
		}
	}

	err = clock.RunWithCallback(ctx, cfg.Physics.SettleSteps, func(_ int, s *State) bool {
		return !s.Settled()
	})
	if err != nil {
		return nil, err
	}
	return clock.result(), nil
}
