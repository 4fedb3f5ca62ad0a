package worker

import (
	"context"
	"sync"

	"github.com/greenlake-league/ledgerbot/internal/logger"
)

// Job is a unit of background work
type Job interface {
	Name() string
	Process(ctx context.Context) error
}

// Pool runs jobs on a fixed set of workers. Scheduled ticks and manual
// triggers both land here, so a slow poll never stacks goroutines.
type Pool struct {
	baseCtx  context.Context
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	quit     chan struct{}
}

// NewPool creates a new worker pool. Jobs run under baseCtx, so the
// caller's logger and cancellation carry into every job.
func NewPool(baseCtx context.Context, workers int, queueSize int) *Pool {
	return &Pool{
		baseCtx:  baseCtx,
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		quit:     make(chan struct{}),
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			if err := job.Process(p.baseCtx); err != nil {
				logger.FromContext(p.baseCtx).Error(LogMsgJobFailed, "job", job.Name(), "error", err)
			}
		case <-p.quit:
			return
		}
	}
}

// TryEnqueue adds a job unless the queue is full. A full queue means
// the previous tick is still running; dropping the new one is correct
// because every job re-derives its work from storage.
func (p *Pool) TryEnqueue(job Job) bool {
	select {
	case p.jobQueue <- job:
		return true
	default:
		logger.FromContext(p.baseCtx).Warn(LogMsgJobDropped, "job", job.Name())
		return false
	}
}

// Stop stops the workers and waits for in-flight jobs
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}
