package processor

import (
	"context"
	"sync"
)

// runLayers decodes every job on a pool of workers and returns the outcomes
// in job order.
//
// Decoding a CAR layer is CPU bound (shapefile parsing, reprojection of
// every vertex, envelope filtering) and layers are independent of each
// other, so the pool fans jobs out by index and writes each outcome back
// into its own slot. No outcome is shared between workers and the caller
// sees the same order whatever the scheduling was:
//
//   - workers <= 1, or a single job: jobs run on the calling goroutine
//   - workers > len(jobs): capped at one worker per job
//   - ctx cancelled: jobs not yet started report ctx.Err() and are never
//     handed to fn; jobs already running finish normally
//
// fn must report per-layer problems inside the outcome and never panic;
// the pool has no error channel of its own.
//
// Example:
//
//	jobs := []layerJob{
//	    {order: 0, cand: area},    // Area_Imovel.shp
//	    {order: 1, cand: springs}, // Nascente_Perene.shp
//	}
//	outcomes := runLayers(ctx, jobs, 4, p.decodeLayer)
//	for _, o := range outcomes {
//	    if !o.ok() {
//	        log.Warn("layer skipped", map[string]interface{}{"reason": o.skip})
//	    }
//	}
func runLayers(ctx context.Context, jobs []layerJob, workers int, fn func(context.Context, layerJob) layerOutcome) []layerOutcome {
	if len(jobs) == 0 {
		return nil
	}

	// Don't create more workers than layers
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers <= 1 {
		return runLayersSerial(ctx, jobs, fn)
	}

	type indexed struct {
		index   int
		outcome layerOutcome
	}

	queue := make(chan int, len(jobs))
	results := make(chan indexed, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range queue {
				results <- indexed{index: index, outcome: runOne(ctx, jobs[index], fn)}
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]layerOutcome, len(jobs))
	for r := range results {
		out[r.index] = r.outcome
	}
	return out
}

// runLayersSerial is the single-worker path, also used when parallelism
// would not pay off.
func runLayersSerial(ctx context.Context, jobs []layerJob, fn func(context.Context, layerJob) layerOutcome) []layerOutcome {
	out := make([]layerOutcome, len(jobs))
	for i, job := range jobs {
		out[i] = runOne(ctx, job, fn)
	}
	return out
}

func runOne(ctx context.Context, job layerJob, fn func(context.Context, layerJob) layerOutcome) layerOutcome {
	if err := ctx.Err(); err != nil {
		return layerOutcome{job: job, err: err}
	}
	return fn(ctx, job)
}
