package runner

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

var ErrInvalidTransition = errors.New("invalid state transition")

type Options struct {
	Server          Server
	Drainer         Drainer
	Hooks           Hooks
	ShutdownTimeout time.Duration
	// Banner receives the startup banner; nil prints none.
	Banner io.Writer
}

type LifecycleRunner struct {
	state    int32
	opts     Options
	mu       sync.Mutex
	cancel   context.CancelFunc
	onceStop sync.Once
	stopErr  error
}

func NewLifecycleRunner(opts Options) *LifecycleRunner {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &LifecycleRunner{state: int32(StateNew), opts: opts}
}

// Run serves until ctx ends, Stop is called or the server fails, then
// shuts the server down and drains.
func (r *LifecycleRunner) Run(ctx context.Context) error {
	if r.opts.Server == nil {
		return errors.New("runner: server is required")
	}
	if !r.casState(StateNew, StateStarting) {
		return ErrInvalidTransition
	}
	if r.opts.Banner != nil {
		PrintBanner(r.opts.Banner)
	}
	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	if r.opts.Hooks.OnStart != nil {
		r.opts.Hooks.OnStart()
	}
	r.setState(StateRunning)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := r.opts.Server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return r.stop()
	})
	return g.Wait()
}

func (r *LifecycleRunner) Stop() error {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel == nil {
		return r.stop()
	}
	cancel()
	return nil
}

func (r *LifecycleRunner) State() State {
	return State(atomic.LoadInt32(&r.state))
}

func (r *LifecycleRunner) stop() error {
	r.onceStop.Do(func() {
		r.setState(StateDraining)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.opts.ShutdownTimeout)
		defer cancel()
		if r.opts.Server != nil {
			if err := r.opts.Server.Shutdown(shutdownCtx); err != nil {
				r.stopErr = err
			}
		}
		if r.opts.Drainer != nil {
			done := make(chan error, 1)
			go func() { done <- r.opts.Drainer.Drain() }()
			select {
			case err := <-done:
				if err != nil && r.stopErr == nil {
					r.stopErr = err
				}
			case <-shutdownCtx.Done():
				r.stopErr = errors.New("drain timeout")
			}
		}
		if r.opts.Hooks.OnStop != nil {
			r.opts.Hooks.OnStop()
		}
		r.setState(StateStopped)
	})
	return r.stopErr
}

func (r *LifecycleRunner) casState(from, to State) bool {
	return atomic.CompareAndSwapInt32(&r.state, int32(from), int32(to))
}

func (r *LifecycleRunner) setState(s State) {
	atomic.StoreInt32(&r.state, int32(s))
}

var _ Runner = (*LifecycleRunner)(nil)
