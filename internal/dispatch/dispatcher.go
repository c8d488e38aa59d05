// Package dispatch runs the measure engine across many candidate
// reference geometries in parallel. The engine is state-free per call, so
// parallelism is plain fan-out: one Compute per candidate, bounded by a
// worker semaphore. The dispatcher is an explicitly constructed,
// caller-owned resource with a start/stop lifecycle; nothing here is a
// process-wide singleton.
package dispatch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coordgeom/shape-core/internal/search"
	"github.com/coordgeom/shape-core/pkg/logger"
	"github.com/coordgeom/shape-core/pkg/metrics"
	"github.com/coordgeom/shape-core/pkg/refgeom"
	"github.com/coordgeom/shape-core/pkg/shape"
)

// ProgressFunc receives per-geometry search progress. Invocation never
// alters any computed result.
type ProgressFunc func(geometry, stage string, step int, bestMeasure float64)

// Ranked is the outcome of one candidate geometry.
type Ranked struct {
	JobID    string
	Geometry refgeom.Geometry
	Result   *shape.Result
	Err      error
}

// Dispatcher fans computations out over a bounded worker pool and
// aggregates results sorted by measure.
type Dispatcher struct {
	workers  int
	mode     shape.Mode
	seed     int64
	advisor  search.Advisor
	progress ProgressFunc

	mu      sync.Mutex
	started bool
	sem     chan struct{}
}

// New creates a dispatcher for the given effort mode with the default
// advisor and a single worker.
func New(mode shape.Mode) *Dispatcher {
	return &Dispatcher{
		workers: 1,
		mode:    mode,
		advisor: search.PrincipalAxisAdvisor{},
	}
}

// WithWorkers sets the number of concurrent computations.
func (d *Dispatcher) WithWorkers(n int) *Dispatcher {
	if n > 0 {
		d.workers = n
	}
	return d
}

// WithSeed sets the base randomness seed. Each job derives its own seed
// from it, so a fixed base seed makes a whole ranking reproducible.
func (d *Dispatcher) WithSeed(seed int64) *Dispatcher {
	d.seed = seed
	return d
}

// WithAdvisor replaces the structural advisor passed to each search; nil
// disables it.
func (d *Dispatcher) WithAdvisor(a search.Advisor) *Dispatcher {
	d.advisor = a
	return d
}

// WithProgress sets the progress callback.
func (d *Dispatcher) WithProgress(fn ProgressFunc) *Dispatcher {
	d.progress = fn
	return d
}

// Start prepares the worker pool. It must be called before Rank.
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return fmt.Errorf("dispatcher already started")
	}
	d.sem = make(chan struct{}, d.workers)
	d.started = true
	logger.Info("dispatcher started", "workers", d.workers, "mode", string(d.mode))
	return nil
}

// Stop releases the dispatcher. In-flight Rank calls finish normally;
// subsequent Rank calls fail.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.started = false
}

// Rank computes the measure of the ligand set against every candidate
// geometry and returns the outcomes sorted by ascending measure. Failed
// candidates sort last; a context cancellation abandons not-yet-started
// jobs and is reported on their entries.
func (d *Dispatcher) Rank(ctx context.Context, ligands []shape.Vec3, candidates []refgeom.Geometry) ([]Ranked, error) {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return nil, fmt.Errorf("dispatcher not started")
	}
	sem := d.sem
	d.mu.Unlock()

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidate geometries provided")
	}

	results := make([]Ranked, len(candidates))
	var wg sync.WaitGroup
	for i, geom := range candidates {
		wg.Add(1)
		go func(idx int, g refgeom.Geometry) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = d.runJob(ctx, ligands, g, int64(idx))
		}(i, geom)
	}
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := results[i], results[j]
		if (ri.Err == nil) != (rj.Err == nil) {
			return ri.Err == nil
		}
		if ri.Err != nil {
			return ri.Geometry.Code < rj.Geometry.Code
		}
		if ri.Result.Measure != rj.Result.Measure {
			return ri.Result.Measure < rj.Result.Measure
		}
		return ri.Geometry.Code < rj.Geometry.Code
	})
	return results, nil
}

func (d *Dispatcher) runJob(ctx context.Context, ligands []shape.Vec3, g refgeom.Geometry, jobIndex int64) Ranked {
	job := Ranked{JobID: uuid.NewString(), Geometry: g}
	jl := logger.With("job_id", job.JobID, "geometry", g.Code)
	if err := ctx.Err(); err != nil {
		job.Err = err
		return job
	}

	seed := d.seed
	if seed != 0 {
		// Distinct deterministic streams per candidate.
		seed += jobIndex * 104729
	}
	searcher := search.New(d.mode).
		WithSeed(seed).
		WithAdvisor(d.advisor).
		WithProgress(func(stage string, step int, best float64) {
			metrics.SearchProgressTotal.WithLabelValues(stage).Inc()
			if d.progress != nil {
				d.progress(g.Code, stage, step, best)
			}
		})

	start := time.Now()
	res, err := searcher.ComputeLigands(ligands, &g)
	elapsed := time.Since(start)

	metrics.ComputationDuration.WithLabelValues(g.Code, string(d.mode)).Observe(elapsed.Seconds())
	if err != nil {
		metrics.ComputationsTotal.WithLabelValues(g.Code, string(d.mode), "error").Inc()
		jl.Warn("measure computation failed", "error", err)
		job.Err = err
		return job
	}
	metrics.ComputationsTotal.WithLabelValues(g.Code, string(d.mode), "ok").Inc()
	jl.Debug("measure computation finished",
		"measure", res.Measure,
		"duration_ms", elapsed.Milliseconds(),
	)
	job.Result = res
	return job
}
