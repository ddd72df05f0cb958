package dictionary

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	// DefaultRequestTimeout matches the connection timeout the
	// dictionary services are queried with.
	DefaultRequestTimeout = 8 * time.Second
	// DefaultProgressInterval is the cadence of the advisory
	// "still waiting" signal while a request is in flight.
	DefaultProgressInterval = time.Second
)

// Executor runs backend work on background goroutines and collapses
// concurrent requests for the same key into a single call. The value
// type is generic because lookups and catalog refreshes share the same
// execution discipline.
type Executor[V any] struct {
	mu       sync.Mutex
	inflight map[Query]*execCall[V]
	timeout  time.Duration
	interval time.Duration
}

type execCall[V any] struct {
	done  chan struct{}
	value V
	err   error
}

func NewExecutor[V any](timeout, progressInterval time.Duration) *Executor[V] {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if progressInterval <= 0 {
		progressInterval = DefaultProgressInterval
	}
	return &Executor[V]{
		inflight: make(map[Query]*execCall[V]),
		timeout:  timeout,
		interval: progressInterval,
	}
}

func (e *Executor[V]) Timeout() time.Duration {
	return e.timeout
}

// Do executes work for the key, attaching to an already in-flight call
// when one exists so the backend is contacted at most once per key.
// The work runs detached from ctx under the executor's own timeout:
// cancelling ctx only withdraws this caller, the call itself is allowed
// to finish so its outcome can still populate shared state. onProgress,
// when non-nil, fires on the progress interval while waiting.
func (e *Executor[V]) Do(
	ctx context.Context,
	key Query,
	work func(ctx context.Context) (V, error),
	onProgress func(),
) (V, error) {
	e.mu.Lock()
	call, ok := e.inflight[key]
	if !ok {
		call = &execCall[V]{done: make(chan struct{})}
		e.inflight[key] = call
		go e.run(key, call, work)
	}
	e.mu.Unlock()

	var tick <-chan time.Time
	if onProgress != nil {
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		select {
		case <-call.done:
			return call.value, call.err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		case <-tick:
			onProgress()
		}
	}
}

// InFlight reports the number of keys currently being served.
func (e *Executor[V]) InFlight() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.inflight)
}

func (e *Executor[V]) run(key Query, call *execCall[V], work func(ctx context.Context) (V, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	value, err := work(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			err = &TransportError{Err: err}
		}
	}
	call.value, call.err = value, err

	// Remove the key before waking the waiters so a request arriving
	// after a terminal outcome always starts a fresh call.
	e.mu.Lock()
	delete(e.inflight, key)
	e.mu.Unlock()
	close(call.done)
}
