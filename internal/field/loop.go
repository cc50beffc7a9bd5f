package field

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/olivierh59500/node-field/internal/canvas"
)

var (
	// ErrSurfaceUnavailable aborts loop construction when there is nothing to draw on.
	ErrSurfaceUnavailable = errors.New("drawing surface unavailable")
	// ErrStopped is returned by Run when the loop was already stopped.
	ErrStopped = errors.New("simulation loop stopped")
)

// State is the loop lifecycle state.
type State int32

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "running"
}

// Loop drives ticks: drain queued input, iterate, clear, draw.
type Loop struct {
	nodes    *Collection
	surface  canvas.Surface
	viewport ViewportProvider
	rng      Rand

	mu      sync.Mutex
	pending []func(*Collection)

	state atomic.Int32
	ticks atomic.Uint64
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithRand sets the source used for bounce and recovery ratios.
func WithRand(rng Rand) LoopOption {
	return func(l *Loop) { l.rng = rng }
}

// NewLoop returns a running loop. A nil surface is a fatal init error.
func NewLoop(surface canvas.Surface, viewport ViewportProvider, nodes *Collection, opts ...LoopOption) (*Loop, error) {
	if surface == nil {
		return nil, ErrSurfaceUnavailable
	}
	if nodes == nil {
		nodes = NewCollection()
	}
	l := &Loop{
		nodes:    nodes,
		surface:  surface,
		viewport: viewport,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.rng == nil {
		l.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if l.viewport == nil {
		l.viewport = Fixed(0, 0)
	}
	return l, nil
}

// Nodes returns the collection the loop drives. Mutate it only through Post
// or between ticks on the loop goroutine.
func (l *Loop) Nodes() *Collection { return l.nodes }

// State returns the current lifecycle state.
func (l *Loop) State() State { return State(l.state.Load()) }

// Ticks returns the number of completed ticks.
func (l *Loop) Ticks() uint64 { return l.ticks.Load() }

// Stop moves the loop to Stopped. Queued input is dropped and later ticks are no-ops.
func (l *Loop) Stop() {
	l.state.Store(int32(Stopped))
	l.mu.Lock()
	l.pending = nil
	l.mu.Unlock()
}

// Post queues fn to run against the collection at the start of the next tick.
// Safe to call from any goroutine. Ignored once stopped.
func (l *Loop) Post(fn func(nodes *Collection)) {
	if l.State() == Stopped {
		return
	}
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()
}

func (l *Loop) drain() {
	l.mu.Lock()
	queued := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, fn := range queued {
		fn(l.nodes)
	}
}

// Flush applies queued input without advancing a frame. It returns false,
// doing nothing, once stopped.
func (l *Loop) Flush() bool {
	if l.State() == Stopped {
		return false
	}
	l.drain()
	return true
}

// Tick runs one full frame. It returns false, doing nothing, once stopped.
func (l *Loop) Tick() bool {
	if l.State() == Stopped {
		return false
	}

	l.drain()

	vp := l.viewport.Viewport()
	l.nodes.Iterate(vp, l.rng)
	l.surface.ClearRect(0, 0, vp.Width, vp.Height)
	l.nodes.Draw(l.surface)

	l.ticks.Add(1)
	return true
}

// Run ticks once per frame signal until ctx is done or the loop is stopped.
func (l *Loop) Run(ctx context.Context, frames <-chan time.Time) error {
	if l.State() == Stopped {
		return ErrStopped
	}
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case _, ok := <-frames:
			if !ok {
				l.Stop()
				return nil
			}
			if !l.Tick() {
				return nil
			}
		}
	}
}
