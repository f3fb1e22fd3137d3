package shardqueue

import "context"

// Job is a unit of work executed by an Executor. Run may be called more
// than once when the executor retries it.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a closure to Job.
type JobFunc func(ctx context.Context) error

// Run implements Job for JobFunc.
func (f JobFunc) Run(ctx context.Context) error {
	if f == nil {
		return ErrNilJob
	}
	return f(ctx)
}
