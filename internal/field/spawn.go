package field

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Node defaults.
const (
	DefaultSize          = 5.0
	DefaultRadiusNear    = 40.0
	DefaultRadiusFar     = 700.0
	DefaultRadiusFalloff = 800.0
	DefaultAttraction    = 0.005
	DefaultRepulsion     = 0.1
	DefaultFriction      = 0.8
)

// Spawn ranges around the viewport centre.
const (
	SpawnJitter   = 10.0
	SpawnMaxSpeed = 10.0
)

// goldenAngle spreads successive hues evenly around the wheel.
const goldenAngle = 137.50776405

// Option overrides a node field at creation.
type Option func(*Node)

func WithPosition(x, y float64) Option {
	return func(n *Node) { n.X, n.Y = x, y }
}

func WithVelocity(dx, dy float64) Option {
	return func(n *Node) { n.DX, n.DY = dx, dy }
}

func WithSize(size float64) Option {
	return func(n *Node) { n.Size = size }
}

// WithRadii sets the near, far and falloff radii together.
func WithRadii(near, far, falloff float64) Option {
	return func(n *Node) {
		n.RadiusNear, n.RadiusFar, n.RadiusFalloff = near, far, falloff
	}
}

func WithAttraction(k float64) Option {
	return func(n *Node) { n.AttractionForceMultiplier = k }
}

func WithRepulsion(k float64) Option {
	return func(n *Node) { n.RepulsionForceMultiplier = k }
}

func WithFriction(m float64) Option {
	return func(n *Node) { n.FrictionForceMultiplier = m }
}

func WithColor(c color.Color) Option {
	return func(n *Node) { n.Color = c }
}

// WithProperties applies a property batch, typically the current form values.
func WithProperties(props Properties) Option {
	return func(n *Node) { n.Apply(props) }
}

// Spawner creates nodes near the viewport centre with a random initial kick.
type Spawner struct {
	rng   Rand
	count int
}

func NewSpawner(rng Rand) *Spawner {
	return &Spawner{rng: rng}
}

// Spawn builds a node; opts are applied after the randomised placement so
// callers can pin any field.
func (s *Spawner) Spawn(vp Viewport, opts ...Option) *Node {
	cx, cy := vp.Center()
	hue := float64(s.count) * goldenAngle
	s.count++

	base := []Option{
		WithPosition(
			cx+within(s.rng, -SpawnJitter, SpawnJitter),
			cy+within(s.rng, -SpawnJitter, SpawnJitter),
		),
		WithVelocity(
			within(s.rng, -SpawnMaxSpeed, SpawnMaxSpeed),
			within(s.rng, -SpawnMaxSpeed, SpawnMaxSpeed),
		),
		WithColor(hueColor(hue)),
	}
	return NewNode(append(base, opts...)...)
}

// Spawned is the number of nodes this spawner has created.
func (s *Spawner) Spawned() int { return s.count }

func hueColor(h float64) color.NRGBA {
	r, g, b := colorful.Hsv(h, 0.65, 0.9).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}
