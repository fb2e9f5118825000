// Package worker defines worker contracts for asynchronous snapshot
// ingestion.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/adapters/mq/queue"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/adapters/snapshots"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/pkg/logger"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Task is what workers read off the queue.
type Task = queue.Task

// Loader fetches a week's raw snapshot.
type Loader interface {
	Week(ctx context.Context, season, week int) (snapshots.WeekPayload, error)
}

// Reconciler resolves raw rows into canonical weekly rows and matchup
// records.
type Reconciler interface {
	ReconcileWeek(season, week int, lineups []model.RawLineupRow, matchups []model.RawMatchup) ([]model.WeeklyRow, []model.MatchupRecord)
}

// Annotator derives performance metrics over reconciled rows.
type Annotator interface {
	Annotate(rows []model.WeeklyRow) []model.WeeklyRow
}

// Sink is where reconciled weeks land.
type Sink interface {
	PutRows(ctx context.Context, season, week int, rows []model.WeeklyRow) error
	PutMatchups(ctx context.Context, season, week int, records []model.MatchupRecord) error
}

// Queue defines how workers receive tasks.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Task
}

// Worker processes ingest tasks using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue
	// closes.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing ingest tasks.
type InMemoryWorker struct {
	queue      Queue
	loader     Loader
	reconciler Reconciler
	annotator  Annotator
	sink       Sink
	name       string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, loader Loader, reconciler Reconciler, annotator Annotator, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      q,
		loader:     loader,
		reconciler: reconciler,
		annotator:  annotator,
		sink:       sink,
		name:       "worker",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	taskChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case task, ok := <-taskChan:
			if !ok {
				return
			}
			if err := w.processTask(ctx, task); err != nil {
				w.logger.Error(ctx, "error processing task",
					logger.Int("season", task.Season),
					logger.Int("week", task.Week),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processTask loads, reconciles, annotates, and stores one week.
func (w *InMemoryWorker) processTask(ctx context.Context, task Task) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	}()

	payload, err := w.loader.Week(ctx, task.Season, task.Week)
	if err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("load season %d week %d: %w", task.Season, task.Week, err)
	}

	reconcileStart := time.Now()
	rows, records := w.reconciler.ReconcileWeek(payload.Season, payload.Week, payload.Lineups, payload.Matchups)
	rows = w.annotator.Annotate(rows)
	metrics.RecordReconcileLatency(float64(time.Since(reconcileStart).Nanoseconds()) / 1e6)

	metrics.RecordRowsReconciled(len(rows))
	for _, r := range rows {
		if !r.CanLink {
			metrics.RecordRowUnresolved()
		}
	}

	if err := w.sink.PutRows(ctx, task.Season, task.Week, rows); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("store rows: %w", err)
	}
	if err := w.sink.PutMatchups(ctx, task.Season, task.Week, records); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("store matchups: %w", err)
	}

	w.logger.Debug(ctx, "week ingested",
		logger.Int("season", task.Season),
		logger.Int("week", task.Week),
		logger.Int("rows", len(rows)),
		logger.Int("matchups", len(records)),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker

	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, loader Loader, reconciler Reconciler, annotator Annotator, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			q, loader, reconciler, annotator, sink,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Wait blocks until every worker has drained the queue and exited, or the
// context expires. The queue must be closed for workers to exit.
func (p *Pool) Wait(ctx context.Context) error {
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	return nil
}

// Stop gracefully stops all workers without draining. Do not combine with
// per-worker Shutdown calls; both close the same signal channel.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		close(w.shutdown)
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue, then waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context, q interface{ Close() error }) error {
	if q != nil {
		if err := q.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	return nil
}
