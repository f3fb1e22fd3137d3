// Package shardqueue runs jobs on a fixed set of workers partitioned by a
// stable hash of a key. Jobs sharing a key run one at a time in submission
// order; jobs with different keys may run in parallel.
//
// Callers must not Submit concurrently for the same key: FIFO order relies
// on that external serialisation.
package shardqueue

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

type task struct {
	ctx context.Context
	key string
	job Job

	barrier bool // not reported to OnResult
}

// Executor is the sharded FIFO runner. Failed attempts are retried with
// exponential backoff until MaxAttempts, unless Config.Retryable says no.
type Executor struct {
	cfg    Config
	log    zerolog.Logger
	queues []chan task

	// stopCtx is cancelled by Stop so pending backoff waits end early.
	stopCtx context.Context
	stop    context.CancelFunc
	closed  atomic.Bool

	wg sync.WaitGroup
}

// New constructs the executor and starts its shard workers.
func New(cfg Config) *Executor {
	cfg = cfg.withDefaults()
	stopCtx, stop := context.WithCancel(context.Background())
	e := &Executor{
		cfg:     cfg,
		log:     cfg.Logger.With().Str("component", "shardqueue").Logger(),
		queues:  make([]chan task, cfg.Shards),
		stopCtx: stopCtx,
		stop:    stop,
	}
	for i := range e.queues {
		ch := make(chan task, cfg.QueueSize)
		e.queues[i] = ch
		e.wg.Add(1)
		go e.runWorker(i, ch)
	}
	return e
}

// Submit enqueues job on the shard derived from key.
//
//   - ErrExecutorClosed once Stop has been called.
//   - *QueueFullError (errors.Is ErrQueueFull) if the shard stays full for
//     EnqueueTimeout.
//   - ctx.Err() if ctx ends first.
func (e *Executor) Submit(ctx context.Context, key string, job Job) error {
	return e.enqueue(task{ctx: ctx, key: key, job: job})
}

func (e *Executor) enqueue(t task) error {
	ctx, key := t.ctx, t.key
	if e.closed.Load() {
		return ErrExecutorClosed
	}
	shard := e.shardFor(key)
	ch := e.queues[shard]

	timer := time.NewTimer(e.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- t:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil
	case <-e.stopCtx.Done():
		return ErrExecutorClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{Key: key, Shard: shard, Capacity: cap(ch)}
	}
}

// Barrier waits until every job submitted for key before the call has
// finished.
func (e *Executor) Barrier(ctx context.Context, key string) error {
	done := make(chan struct{})
	err := e.enqueue(task{ctx: ctx, key: key, barrier: true, job: JobFunc(func(context.Context) error {
		close(done)
		return nil
	})})
	if err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Stop rejects new work, runs what is already queued once without retries,
// and waits for the workers to exit. It is idempotent.
func (e *Executor) Stop() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.log.Debug().Int("shards", e.cfg.Shards).Msg("stopping executor")
	e.stop()
	e.wg.Wait()
	e.log.Debug().Msg("executor stopped")
}

// Close lets Executor satisfy io.Closer.
func (e *Executor) Close() error {
	e.Stop()
	return nil
}

func (e *Executor) runWorker(idx int, ch chan task) {
	defer e.wg.Done()
	label := labelFor(idx)

	for {
		select {
		case t := <-ch:
			e.execute(label, t, e.cfg.MaxAttempts)
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))
		case <-e.stopCtx.Done():
			drained := 0
			for {
				select {
				case t := <-ch:
					e.execute(label, t, 1)
					drained++
				default:
					if drained > 0 {
						e.log.Debug().Int("worker", idx).Int("drained", drained).Msg("drained queue")
					}
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

// execute runs one task and reports its outcome. A panicking job is
// reported as failed and does not take the worker down.
func (e *Executor) execute(label string, t task, attempts int) {
	if t.job == nil {
		return
	}
	if t.barrier {
		_ = t.job.Run(t.ctx)
		return
	}
	if err := t.ctx.Err(); err != nil {
		e.report(t.key, err)
		return
	}

	// Backoff waits end when either the job's context or the executor stops.
	waitCtx, cancel := context.WithCancel(t.ctx)
	defer cancel()
	release := context.AfterFunc(e.stopCtx, cancel)
	defer release()

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = e.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = e.cfg.MaxInterval
	exp.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(attempts-1)), waitCtx)

	err := backoff.RetryNotify(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				e.log.Error().Str("key", t.key).Interface("panic", r).Msg("job panicked")
				err = backoff.Permanent(errPanic{r})
			}
		}()
		start := time.Now()
		err = t.job.Run(t.ctx)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		if err != nil && e.cfg.Retryable != nil && !e.cfg.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		retriesTotal.WithLabelValues(label).Inc()
		e.log.Warn().Err(err).Str("key", t.key).Dur("backoff", wait).Msg("job failed, retrying")
	})
	e.report(t.key, err)
}

func (e *Executor) report(key string, err error) {
	if e.cfg.OnResult == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("key", key).Interface("panic", r).Msg("result handler panicked")
		}
	}()
	e.cfg.OnResult(key, err)
}

func (e *Executor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(e.cfg.Shards))
}
