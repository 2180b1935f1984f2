package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Pool runs submitted tasks on a fixed number of worker goroutines
type Pool struct {
	config  PoolConfig
	tasks   chan *Handle
	quit    chan struct{}
	once    sync.Once
	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// Handle tracks the completion of one submitted task
type Handle struct {
	ctx  context.Context
	task Task
	done chan struct{}
	err  error
}

// NewPool creates a pool and starts its workers
func NewPool(config PoolConfig) *Pool {
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultPoolSize
	}
	if config.QueueSize < 0 {
		config.QueueSize = 0
	}

	p := &Pool{
		config: config,
		tasks:  make(chan *Handle, config.QueueSize),
		quit:   make(chan struct{}),
	}

	for i := 0; i < config.Concurrency; i++ {
		p.wg.Add(1)
		go p.runWorker(i + 1)
	}

	log.Info().Str("pool", config.Name).Int("workers", config.Concurrency).Msg("Worker pool started")
	return p
}

// Size returns the number of workers
func (p *Pool) Size() int {
	return p.config.Concurrency
}

// Submit queues task and returns its completion handle. It blocks while the queue is full,
// until ctx is done or the pool stops.
func (p *Pool) Submit(ctx context.Context, task Task) (*Handle, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return nil, ErrPoolStopped
	}

	h := &Handle{ctx: ctx, task: task, done: make(chan struct{})}
	select {
	case p.tasks <- h:
		return h, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.quit:
		return nil, ErrPoolStopped
	}
}

// Stop stops the workers after their current task and fails every task still queued
func (p *Pool) Stop() {
	p.once.Do(func() {
		close(p.quit)

		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()

		p.wg.Wait()

		for {
			select {
			case h := <-p.tasks:
				h.finish(ErrPoolStopped)
			default:
				log.Info().Str("pool", p.config.Name).Msg("Worker pool stopped")
				return
			}
		}
	})
}

func (p *Pool) runWorker(workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.quit:
			return
		case h := <-p.tasks:
			h.finish(h.run())
			log.Debug().Str("pool", p.config.Name).Int("worker", workerID).Msg("Task finished")
		}
	}
}

func (h *Handle) run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return h.task(h.ctx)
}

func (h *Handle) finish(err error) {
	h.err = err
	close(h.done)
}

// Done is closed once the task has finished
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the task finishes or ctx is done and returns the task's error
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
