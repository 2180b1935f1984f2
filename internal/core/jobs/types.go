package jobs

import (
	"context"
	"errors"
)

// DefaultPoolSize is the number of workers used when no size is configured
const DefaultPoolSize = 10

// ErrPoolStopped is returned for tasks submitted to, or still queued in, a stopped pool
var ErrPoolStopped = errors.New("worker pool is stopped")

// Task is a unit of work run by the pool. It receives the context it was submitted with.
type Task func(ctx context.Context) error

// PoolConfig contains configuration for a worker pool
type PoolConfig struct {
	Name        string
	Concurrency int // Number of concurrent workers
	QueueSize   int // Buffered tasks waiting for a worker
}

// DefaultPoolConfig returns default pool configuration
func DefaultPoolConfig(name string) PoolConfig {
	return PoolConfig{
		Name:        name,
		Concurrency: DefaultPoolSize,
		QueueSize:   DefaultPoolSize * 4,
	}
}
