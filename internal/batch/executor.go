// Package batch executes dependency-annotated call batches with bounded
// concurrency and per-call timeouts.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/planckhq/planck/internal/events"
	"github.com/planckhq/planck/pkg/models"
)

const (
	// DefaultMaxConcurrency bounds how many calls of one layer run at once.
	DefaultMaxConcurrency = 5
	// DefaultCallTimeout bounds how long one call may run.
	DefaultCallTimeout = 30 * time.Second
)

// CallFunc performs one unit of work identified by name with the given
// arguments. The executor treats it as opaque and assumes nothing about
// its latency beyond the configured timeout.
type CallFunc func(ctx context.Context, name string, args map[string]any) (any, error)

// Option configures an Executor. Use With* functions to create Options.
type Option func(*executorOptions)

type executorOptions struct {
	maxConcurrency int
	callTimeout    time.Duration
	failFast       bool
	strict         bool
	emitter        *events.Emitter
}

// WithMaxConcurrency bounds concurrent calls within a layer.
func WithMaxConcurrency(n int) Option {
	return func(o *executorOptions) { o.maxConcurrency = n }
}

// WithCallTimeout sets the per-call timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(o *executorOptions) { o.callTimeout = d }
}

// WithFailFast stops starting new layers after a layer with failures.
// Already-started layers always run to completion.
func WithFailFast(b bool) Option {
	return func(o *executorOptions) { o.failFast = b }
}

// WithStrictDependencies fails calls caught in a circular or missing
// dependency instead of running them in a best-effort final layer.
func WithStrictDependencies(b bool) Option {
	return func(o *executorOptions) { o.strict = b }
}

// WithEmitter attaches an event emitter for batch progress and warnings.
func WithEmitter(e *events.Emitter) Option {
	return func(o *executorOptions) { o.emitter = e }
}

// Executor runs batches of dependency-annotated calls. It holds no state
// across batches beyond its options and the injected CallFunc, so one
// Executor may serve concurrent ExecuteBatch calls.
type Executor struct {
	call CallFunc
	opts executorOptions
}

// NewExecutor creates an Executor around the given unit-of-work function.
func NewExecutor(call CallFunc, opts ...Option) *Executor {
	options := executorOptions{
		maxConcurrency: DefaultMaxConcurrency,
		callTimeout:    DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.maxConcurrency < 1 {
		options.maxConcurrency = DefaultMaxConcurrency
	}
	if options.callTimeout <= 0 {
		options.callTimeout = DefaultCallTimeout
	}
	return &Executor{call: call, opts: options}
}

// ExecuteBatch executes the calls layer by layer. Layers run strictly in
// sequence; within a layer, calls run in chunks of at most the configured
// concurrency. Call failures are isolated and captured as failed results;
// every submitted call appears exactly once in the returned result list.
func (e *Executor) ExecuteBatch(ctx context.Context, calls []models.ToolCall) *models.BatchResult {
	start := time.Now()

	layers, degraded := buildLayers(calls)
	if degraded {
		e.emit(events.Event{
			Type:      events.EventBatchDegraded,
			Layer:     len(layers) - 1,
			Remaining: len(layers[len(layers)-1]),
			Message:   "circular or missing dependency; remaining calls grouped into one final layer",
		})
	}

	results := make([]models.ToolResult, 0, len(calls))

	for i, layer := range layers {
		if degraded && e.opts.strict && i == len(layers)-1 {
			// Strict mode: the degraded layer is failed, not executed.
			for _, call := range layer {
				results = append(results, models.ToolResult{
					ID:      call.ID,
					Name:    call.Name,
					Success: false,
					Error:   "circular or missing dependency",
				})
			}
			break
		}

		results = append(results, e.executeLayer(ctx, layer)...)

		e.emit(events.Event{
			Type:    events.EventBatchLayerDone,
			Layer:   i,
			Message: fmt.Sprintf("layer %d of %d complete", i+1, len(layers)),
		})

		if e.opts.failFast && hasFailure(results) {
			// Remaining layers are not started; their calls are still
			// accounted for so the result count matches the input count.
			// A skipped degraded layer keeps the cycle label so the two
			// failure causes stay distinguishable.
			for j, skipped := range layers[i+1:] {
				errMsg := "skipped: earlier layer failed"
				if degraded && i+1+j == len(layers)-1 {
					errMsg = "circular or missing dependency"
				}
				for _, call := range skipped {
					results = append(results, models.ToolResult{
						ID:      call.ID,
						Name:    call.Name,
						Success: false,
						Error:   errMsg,
					})
				}
			}
			break
		}
	}

	result := &models.BatchResult{
		Results: results,
		Elapsed: time.Since(start),
	}
	for _, r := range results {
		if r.Success {
			result.SuccessCount++
		} else {
			result.FailureCount++
		}
	}
	return result
}

// executeLayer runs one layer in sequential chunks of at most
// maxConcurrency calls; all calls within a chunk run concurrently.
// Results arrive in chunk-completion order.
func (e *Executor) executeLayer(ctx context.Context, layer []models.ToolCall) []models.ToolResult {
	results := make([]models.ToolResult, 0, len(layer))

	for start := 0; start < len(layer); start += e.opts.maxConcurrency {
		end := start + e.opts.maxConcurrency
		if end > len(layer) {
			end = len(layer)
		}
		chunk := layer[start:end]

		resultCh := make(chan models.ToolResult, len(chunk))
		var wg sync.WaitGroup
		for _, call := range chunk {
			wg.Add(1)
			go func(call models.ToolCall) {
				defer wg.Done()
				resultCh <- e.executeCall(ctx, call)
			}(call)
		}
		wg.Wait()
		close(resultCh)

		for r := range resultCh {
			results = append(results, r)
		}
	}

	return results
}

// callOutcome carries one call's raw outcome across the timeout race.
type callOutcome struct {
	result any
	err    error
}

// executeCall races one call against the configured timeout. On timeout
// the executor stops waiting but does not force-terminate the work; the
// abandoned goroutine exits when the call eventually returns.
func (e *Executor) executeCall(ctx context.Context, call models.ToolCall) models.ToolResult {
	start := time.Now()

	outcome := make(chan callOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				outcome <- callOutcome{err: fmt.Errorf("call panicked: %v", r)}
			}
		}()
		result, err := e.call(ctx, call.Name, call.Args)
		outcome <- callOutcome{result: result, err: err}
	}()

	timer := time.NewTimer(e.opts.callTimeout)
	defer timer.Stop()

	select {
	case out := <-outcome:
		if out.err != nil {
			return models.ToolResult{
				ID:      call.ID,
				Name:    call.Name,
				Success: false,
				Error:   out.err.Error(),
				Elapsed: time.Since(start),
			}
		}
		return models.ToolResult{
			ID:      call.ID,
			Name:    call.Name,
			Success: true,
			Result:  out.result,
			Elapsed: time.Since(start),
		}
	case <-timer.C:
		return models.ToolResult{
			ID:      call.ID,
			Name:    call.Name,
			Success: false,
			Error:   fmt.Sprintf("Timeout after %dms", e.opts.callTimeout.Milliseconds()),
			Elapsed: time.Since(start),
		}
	}
}

func (e *Executor) emit(event events.Event) {
	if e.opts.emitter != nil {
		e.opts.emitter.Emit(event)
	}
}

func hasFailure(results []models.ToolResult) bool {
	for _, r := range results {
		if !r.Success {
			return true
		}
	}
	return false
}
