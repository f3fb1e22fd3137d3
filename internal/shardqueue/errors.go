package shardqueue

import (
	"errors"
	"fmt"
)

// ErrQueueFull reports back-pressure: the shard queue stayed full for the
// whole EnqueueTimeout.
var ErrQueueFull = errors.New("shard queue full")

// ErrExecutorClosed is returned by Submit after Stop.
var ErrExecutorClosed = errors.New("shard executor closed")

// ErrNilJob is reported for a nil JobFunc.
var ErrNilJob = errors.New("nil job")

// QueueFullError carries diagnostics while satisfying errors.Is(_, ErrQueueFull).
type QueueFullError struct {
	Key      string
	Shard    int
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("shard queue %d full for %q (cap=%d)", e.Shard, e.Key, e.Capacity)
}

func (e *QueueFullError) Is(target error) bool { return target == ErrQueueFull }

type errPanic struct{ v any }

func (e errPanic) Error() string { return fmt.Sprintf("job panicked: %v", e.v) }
