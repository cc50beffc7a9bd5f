package field

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/olivierh59500/node-field/internal/canvas"
)

func newTestLoop(t *testing.T, vp ViewportProvider, nodes ...*Node) (*Loop, *canvas.Recorder) {
	t.Helper()
	rec := canvas.NewRecorder()
	l, err := NewLoop(rec, vp, NewCollection(nodes...), WithRand(testRand()))
	if err != nil {
		t.Fatal(err)
	}
	return l, rec
}

func TestNewLoopWithoutSurface(t *testing.T) {
	_, err := NewLoop(nil, Fixed(10, 10), NewCollection())
	if !errors.Is(err, ErrSurfaceUnavailable) {
		t.Fatalf("err = %v, want ErrSurfaceUnavailable", err)
	}
}

func TestTickOrder(t *testing.T) {
	l, rec := newTestLoop(t, Fixed(300, 200), NewNode(WithPosition(50, 50)), NewNode(WithPosition(150, 150)))

	if l.State() != Running {
		t.Fatalf("state = %v, want running", l.State())
	}
	if !l.Tick() {
		t.Fatal("tick on a running loop returned false")
	}

	if rec.Ops[0].Kind != canvas.OpClearRect {
		t.Fatalf("first op = %v, want clearRect", rec.Ops[0].Kind)
	}
	if args := rec.Ops[0].Args; args[2] != 300 || args[3] != 200 {
		t.Errorf("clearRect args = %v", args)
	}
	if got := rec.Count(canvas.OpArc); got != 2 {
		t.Errorf("arcs = %d, want 2", got)
	}
	if l.Ticks() != 1 {
		t.Errorf("ticks = %d", l.Ticks())
	}
}

func TestConnectionsEmptyAfterEveryTick(t *testing.T) {
	l, _ := newTestLoop(t, Fixed(400, 400),
		NewNode(WithPosition(200, 200)),
		NewNode(WithPosition(210, 200)),
		NewNode(WithPosition(200, 215)),
	)

	for i := 0; i < 30; i++ {
		l.Tick()
		l.Nodes().ForEach(func(n *Node) {
			if len(n.Connections()) != 0 {
				t.Fatalf("tick %d: connections left after draw", i)
			}
		})
	}
}

func TestStopMakesTicksNoOps(t *testing.T) {
	l, rec := newTestLoop(t, Fixed(100, 100), NewNode(WithPosition(50, 50)))
	l.Stop()

	if l.State() != Stopped {
		t.Fatalf("state = %v", l.State())
	}
	if l.Tick() {
		t.Error("tick after stop returned true")
	}
	if len(rec.Ops) != 0 {
		t.Errorf("stopped loop drew %d ops", len(rec.Ops))
	}

	applied := false
	l.Post(func(*Collection) { applied = true })
	l.Tick()
	if applied {
		t.Error("input posted after stop was applied")
	}
}

func TestStopDropsQueuedInput(t *testing.T) {
	l, _ := newTestLoop(t, Fixed(100, 100))
	applied := false
	l.Post(func(*Collection) { applied = true })
	l.Stop()
	l.Tick()
	if applied {
		t.Error("queued input ran after stop")
	}
}

func TestPostAppliesAtNextTickBoundary(t *testing.T) {
	l, rec := newTestLoop(t, Fixed(100, 100))

	n := NewNode(WithPosition(50, 50), WithVelocity(0, 0), WithFriction(1))
	l.Post(func(nodes *Collection) { nodes.Add(n) })
	l.Post(func(nodes *Collection) { nodes.ExplodeFrom(40, 50, 4, 100) })

	if l.Nodes().Len() != 0 {
		t.Fatal("post applied before tick")
	}

	l.Tick()
	if l.Nodes().Len() != 1 {
		t.Fatalf("len = %d, want 1", l.Nodes().Len())
	}
	if rec.Count(canvas.OpArc) != 1 {
		t.Error("node added by post was not drawn in the same tick")
	}
	// The blast lands before iterate, so this tick already integrated it.
	if n.X <= 50 {
		t.Errorf("x = %v, blast not integrated this tick", n.X)
	}
}

func TestFlushAppliesInputWithoutAFrame(t *testing.T) {
	n := NewNode(WithPosition(50, 50), WithVelocity(0, 0))
	l, rec := newTestLoop(t, Fixed(100, 100), n)

	for i := 0; i < 100; i++ {
		l.Post(func(nodes *Collection) { nodes.Add(NewNode()) })
	}
	if !l.Flush() {
		t.Fatal("flush on a running loop returned false")
	}
	if l.Nodes().Len() != 101 {
		t.Errorf("len = %d, want 101", l.Nodes().Len())
	}
	if len(rec.Ops) != 0 || l.Ticks() != 0 {
		t.Errorf("flush drew %d ops over %d ticks", len(rec.Ops), l.Ticks())
	}
	if n.X != 50 || n.Y != 50 {
		t.Errorf("flush moved a node to (%v, %v)", n.X, n.Y)
	}

	applied := 0
	l.Post(func(*Collection) { applied++ })
	l.Flush()
	l.Tick()
	if applied != 1 {
		t.Errorf("flushed input ran %d times, want 1", applied)
	}

	l.Stop()
	if l.Flush() {
		t.Error("flush after stop returned true")
	}
}

func TestViewportPolledEachTick(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 1000}
	l, rec := newTestLoop(t, ViewportFunc(func() Viewport { return vp }), NewNode(WithPosition(900, 900)))

	l.Tick()
	vp = Viewport{Width: 200, Height: 100}
	rec.Reset()
	l.Tick()

	n := l.Nodes().At(0)
	if !vp.Contains(n.X, n.Y) {
		t.Errorf("node at (%v, %v) outside resized viewport", n.X, n.Y)
	}
	if args := rec.Ops[0].Args; args[2] != 200 || args[3] != 100 {
		t.Errorf("clearRect used stale viewport: %v", args)
	}
}

func TestRunUntilFramesClose(t *testing.T) {
	l, _ := newTestLoop(t, Fixed(100, 100), NewNode(WithPosition(50, 50)))

	frames := make(chan time.Time, 5)
	for i := 0; i < 5; i++ {
		frames <- time.Now()
	}
	close(frames)

	if err := l.Run(context.Background(), frames); err != nil {
		t.Fatal(err)
	}
	if l.Ticks() != 5 {
		t.Errorf("ticks = %d, want 5", l.Ticks())
	}
	if l.State() != Stopped {
		t.Error("loop not stopped after frames closed")
	}
	if err := l.Run(context.Background(), frames); !errors.Is(err, ErrStopped) {
		t.Errorf("second run err = %v, want ErrStopped", err)
	}
}

func TestRunCancelled(t *testing.T) {
	l, _ := newTestLoop(t, Fixed(100, 100))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Run(ctx, make(chan time.Time)); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if l.State() != Stopped {
		t.Error("cancelled loop should be stopped")
	}
}
