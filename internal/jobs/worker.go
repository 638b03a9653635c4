package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rmedina/erp-admin-api/pkg/logger"
)

// Job represents a background task
type Job func(ctx context.Context) error

// Worker manages background jobs and scheduled maintenance tasks
type Worker struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	queue  chan Job
}

// NewWorker creates a worker with N concurrent processors
func NewWorker(numWorkers int) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		ctx:    ctx,
		cancel: cancel,
		queue:  make(chan Job, 100),
	}

	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.process(i)
	}

	return w
}

// Enqueue adds a job to be processed by the worker pool. When the queue
// is full the job runs synchronously rather than being dropped. Jobs
// arriving after shutdown are discarded.
func (w *Worker) Enqueue(job Job) {
	if w.ctx.Err() != nil {
		return
	}
	select {
	case w.queue <- job:
	default:
		logger.Warn("[Worker] Queue full, running job synchronously")
		w.run(-1, job)
	}
}

// process handles jobs from the queue
func (w *Worker) process(workerID int) {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case job := <-w.queue:
			w.run(workerID, job)
		}
	}
}

func (w *Worker) run(workerID int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("[Worker %d] Job panic: %v", workerID, r))
		}
	}()
	start := time.Now()
	if err := job(w.ctx); err != nil {
		logger.Error(fmt.Sprintf("[Worker %d] Job error: %v", workerID, err))
	} else {
		logger.Info(fmt.Sprintf("[Worker %d] Job completed in %v", workerID, time.Since(start)))
	}
}

// ScheduleEvery enqueues a job at fixed intervals. The first run happens
// after the interval, not at startup.
func (w *Worker) ScheduleEvery(interval time.Duration, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.Enqueue(job)
			}
		}
	}()
}

// Shutdown gracefully stops all workers and scheduler goroutines. The
// queue channel is never closed so a late scheduler tick cannot panic;
// anything still queued is dropped.
func (w *Worker) Shutdown() {
	w.cancel()
	w.wg.Wait()
}
