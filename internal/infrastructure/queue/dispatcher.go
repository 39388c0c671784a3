package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 8
	channelBuffer  = 64
)

// ErrStopped is returned by Do once the dispatcher has shut down.
var ErrStopped = errors.New("dispatcher stopped")

type job struct {
	ctx  context.Context
	key  string
	fn   func(ctx context.Context) error
	done chan error
}

// Dispatcher runs list mutations on a fixed set of workers using consistent
// hashing on the list name, so jobs for the same list never overlap and run
// in submission order.
type Dispatcher struct {
	workers []chan job
	log     zerolog.Logger

	stopOnce sync.Once
	stopped  chan struct{}
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		log:     log,
		stopped: make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		select {
		case <-ctx.Done():
			d.Stop()
		case <-d.stopped:
		}
	}()
}

// Stop signals every worker to exit and waits for in-flight jobs to finish.
// Jobs still queued are failed with ErrStopped.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopped) })
	d.wg.Wait()
}

// Do runs fn on the worker owning key and waits for its result. It returns
// early with ctx.Err() if the caller gives up first; fn then sees a
// cancelled context.
func (d *Dispatcher) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	j := job{ctx: ctx, key: key, fn: fn, done: make(chan error, 1)}

	select {
	case <-d.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	case d.workers[d.shardIndex(key)] <- j:
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopped:
		// The job either ran, was drained, or was enqueued after the drain.
		d.wg.Wait()
		select {
		case err := <-j.done:
			return err
		default:
			return ErrStopped
		}
	}
}

// shardIndex maps a list name deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch chan job) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(ch)
			return
		case <-d.stopped:
			d.drain(ch)
			return
		case j := <-ch:
			d.run(id, j)
		}
	}
}

func (d *Dispatcher) run(id int, j job) {
	if err := j.ctx.Err(); err != nil {
		j.done <- err
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Interface("panic", r).
				Str("list", j.key).
				Int("worker_id", id).
				Msg("list mutation panicked")
			j.done <- fmt.Errorf("list mutation panicked: %v", r)
		}
	}()

	err := j.fn(j.ctx)
	if err != nil {
		d.log.Debug().Err(err).
			Str("list", j.key).
			Int("worker_id", id).
			Msg("list mutation failed")
	}
	j.done <- err
}

func (d *Dispatcher) drain(ch chan job) {
	for {
		select {
		case j := <-ch:
			j.done <- ErrStopped
		default:
			return
		}
	}
}
