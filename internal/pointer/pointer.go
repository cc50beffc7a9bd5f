// Package pointer turns pointer input into perturbation requests.
package pointer

import (
	"math"

	perlin "github.com/aquilax/go-perlin"

	"github.com/olivierh59500/node-field/internal/field"
)

// Perturber receives pointer blasts. *field.Collection implements it.
type Perturber interface {
	ExplodeFrom(x, y, force, radius float64)
}

// Request is one blast at (X, Y).
type Request struct {
	X, Y   float64
	Force  float64
	Radius float64
}

// Apply sends the request to p.
func (r Request) Apply(p Perturber) {
	p.ExplodeFrom(r.X, r.Y, r.Force, r.Radius)
}

// Mouse emits a request on every cursor move and counts idle frames.
type Mouse struct {
	Force  float64
	Radius float64

	x, y int
	seen bool
	idle int
}

func NewMouse(force, radius float64) *Mouse {
	return &Mouse{Force: force, Radius: radius}
}

// Observe records the cursor position for this frame. It returns a request
// only when the cursor moved since the previous frame.
func (m *Mouse) Observe(x, y int) (Request, bool) {
	moved := m.seen && (x != m.x || y != m.y)
	m.x, m.y, m.seen = x, y, true
	if !moved {
		m.idle++
		return Request{}, false
	}
	m.idle = 0
	return Request{X: float64(x), Y: float64(y), Force: m.Force, Radius: m.Radius}, true
}

// IdleFrames is the number of consecutive frames without movement.
func (m *Mouse) IdleFrames() int { return m.idle }

// Perlin noise shape for the autopilot path.
const (
	noiseAlpha  = 2
	noiseBeta   = 2
	noiseOctave = 3
	// noiseGain stretches the typical noise output toward [-1, 1].
	noiseGain = 1.6
)

// Autopilot is a virtual pointer wandering along perlin noise.
type Autopilot struct {
	Force  float64
	Radius float64
	Speed  float64

	nx, ny *perlin.Perlin
	t      float64
}

func NewAutopilot(seed int64, speed, force, radius float64) *Autopilot {
	return &Autopilot{
		Force:  force,
		Radius: radius,
		Speed:  speed,
		nx:     perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, seed),
		ny:     perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, seed+1),
	}
}

// Next advances the path one frame and returns a blast inside vp.
func (a *Autopilot) Next(vp field.Viewport) Request {
	a.t += a.Speed
	return Request{
		X:      vp.Width * unit(a.nx.Noise1D(a.t)),
		Y:      vp.Height * unit(a.ny.Noise1D(a.t+0.5)),
		Force:  a.Force,
		Radius: a.Radius,
	}
}

// unit maps raw noise to [0, 1].
func unit(n float64) float64 {
	v := 0.5 + 0.5*n*noiseGain
	return math.Max(0, math.Min(1, v))
}
