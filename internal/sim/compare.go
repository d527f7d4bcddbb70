package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/integrators"
)

// MetricFactory builds a fresh metric set for one run; metrics hold state
// and cannot be shared across goroutines.
type MetricFactory func(method integrators.Method) []dynamo.Metric

// Compare runs every method from the same initial state concurrently and
// returns the results in the order of methods.
func Compare(ctx context.Context, methods []integrators.Method, x0 dynamo.State, cfg Config, newMetrics MetricFactory) ([]*dynamo.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]*dynamo.Result, len(methods))
	g, gctx := errgroup.WithContext(ctx)

	for i, m := range methods {
		i, m := i, m
		g.Go(func() error {
			s := New(m)
			if newMetrics != nil {
				for _, metric := range newMetrics(m) {
					s.AddMetric(metric)
				}
			}
			res, err := s.Run(gctx, x0, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
