package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Processor executes one job end to end. Implementations own ledger
// finalization: by the time Process returns, the job's task has been
// moved to exactly one terminal state. The returned error exists for
// observability only and is never used to retry.
type Processor interface {
	Process(ctx context.Context, job Job) error
}

// WorkerPoolConfig holds configuration options for the worker pool.
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to
	// start. Zero or negative defaults to 1.
	WorkerCount int

	// StaleTaskAge is how long a task may stay in-flight before the
	// reconciliation sweep fails it. Zero disables the sweep.
	StaleTaskAge time.Duration

	// StaleCheckInterval is how often the sweep runs. Defaults to
	// 5 minutes when the sweep is enabled.
	StaleCheckInterval time.Duration
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults.
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount:        2,
		StaleTaskAge:       30 * time.Minute,
		StaleCheckInterval: 5 * time.Minute,
	}
}

// WorkerPool manages a pool of worker goroutines that pull jobs from a
// queue and hand each one to the processor. Distinct jobs run in
// parallel; a single job is only ever processed by one worker.
type WorkerPool struct {
	queue     QueueReader
	processor Processor
	ledger    Ledger
	config    WorkerPoolConfig
	logger    *slog.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewWorkerPool creates a new worker pool. The ledger is only used by
// the reconciliation sweep and may be shared with the processor.
func NewWorkerPool(
	queue QueueReader,
	processor Processor,
	ledger Ledger,
	config WorkerPoolConfig,
	logger *slog.Logger,
) *WorkerPool {
	if config.WorkerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
		config.WorkerCount = 1
	}
	if config.StaleTaskAge > 0 && config.StaleCheckInterval <= 0 {
		config.StaleCheckInterval = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		queue:     queue,
		processor: processor,
		ledger:    ledger,
		config:    config,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the worker goroutines and, when configured and the
// ledger supports it, the stale-task reconciliation sweep.
func (p *WorkerPool) Start() {
	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	if scanner, ok := p.ledger.(StaleScanner); ok && p.config.StaleTaskAge > 0 {
		p.wg.Add(1)
		go p.staleTaskMonitor(scanner)
	}

	p.logger.Info("worker pool started", "worker_count", p.config.WorkerCount)
}

// Stop signals all workers to finish and waits for them. Jobs already
// being processed run to completion; buffered jobs the workers manage
// to drain before the queue closes are processed too.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

// worker pulls jobs off the queue until shutdown.
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	logger := p.logger.With("worker_id", id)
	logger.Debug("starting worker")

	for {
		select {
		case <-p.ctx.Done():
			logger.Debug("stopping worker")
			return

		case job, ok := <-p.queue.Jobs():
			if !ok {
				logger.Debug("job channel closed, stopping worker")
				return
			}
			p.processJob(job, logger)
		}
	}
}

// processJob hands one job to the processor and logs the outcome.
func (p *WorkerPool) processJob(job Job, logger *slog.Logger) {
	logger = logger.With("task_id", job.TaskID, "owner_id", job.OwnerID)
	logger.Info("processing job")

	if err := p.processor.Process(p.ctx, job); err != nil {
		// The processor has already finalized the task as failed;
		// this is purely for operators.
		logger.Error("job processing failed", "error", err)
		return
	}
	logger.Info("job processed")
}

// staleTaskMonitor periodically fails tasks that have sat in-flight
// longer than the configured age, covering the case of a worker that
// crashed between consuming a job and finalizing its task.
func (p *WorkerPool) staleTaskMonitor(scanner StaleScanner) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.StaleCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return

		case <-ticker.C:
			ids, err := scanner.StaleInFlight(p.ctx, p.config.StaleTaskAge)
			if err != nil {
				p.logger.Error("failed to scan for stale tasks", "error", err)
				continue
			}
			if len(ids) == 0 {
				continue
			}

			p.logger.Warn("found stale in-flight tasks", "count", len(ids))
			for _, id := range ids {
				errText := fmt.Sprintf("abandoned in-flight for more than %s", p.config.StaleTaskAge)
				if err := p.ledger.FinalizeFailed(p.ctx, id, errText); err != nil {
					// A concurrent finalization won the race; that is
					// the outcome the sweep wanted anyway.
					p.logger.Debug("skipping stale task finalization",
						"task_id", id, "error", err)
					continue
				}
				p.logger.Info("failed stale task", "task_id", id)
			}
		}
	}
}
