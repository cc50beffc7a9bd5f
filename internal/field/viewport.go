package field

// Viewport is the drawable area in pixels.
type Viewport struct {
	Width, Height float64
}

// Contains reports whether (x, y) lies inside [0, Width] x [0, Height].
func (v Viewport) Contains(x, y float64) bool {
	return x >= 0 && x <= v.Width && y >= 0 && y <= v.Height
}

// Center returns the midpoint of the viewport.
func (v Viewport) Center() (float64, float64) {
	return v.Width / 2, v.Height / 2
}

// ViewportProvider supplies the current viewport. The loop polls it once per tick.
type ViewportProvider interface {
	Viewport() Viewport
}

// ViewportFunc adapts a plain function to ViewportProvider.
type ViewportFunc func() Viewport

// Viewport calls f.
func (f ViewportFunc) Viewport() Viewport { return f() }

// Fixed is a ViewportProvider that never changes size.
func Fixed(width, height float64) ViewportProvider {
	vp := Viewport{Width: width, Height: height}
	return ViewportFunc(func() Viewport { return vp })
}
