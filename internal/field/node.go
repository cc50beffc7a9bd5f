package field

import (
	"image/color"
	"math"

	"github.com/olivierh59500/node-field/internal/canvas"
)

// Kinematic correction ranges.
const (
	RecoverMinRatio = 0.3
	RecoverMaxRatio = 0.9
	BounceMinRatio  = 0.5
	BounceMaxRatio  = 0.8
)

// Rand is the randomness a node needs. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

func within(rng Rand, min, max float64) float64 {
	return min + (max-min)*rng.Float64()
}

// Connection is a repulsion contact recorded during the current tick for rendering.
type Connection struct {
	Peer  *Node
	Color color.NRGBA
}

// Node is a single particle.
type Node struct {
	X, Y   float64 // Position
	DX, DY float64 // Velocity, applied once per tick
	Size   float64

	RadiusNear    float64
	RadiusFar     float64
	RadiusFalloff float64

	AttractionForceMultiplier float64
	RepulsionForceMultiplier  float64
	FrictionForceMultiplier   float64

	Color color.Color

	// connections is filled by the force pass and emptied by Draw.
	connections []Connection
}

// NewNode returns a node with the default tuning at the origin.
func NewNode(opts ...Option) *Node {
	n := &Node{
		Size:                      DefaultSize,
		RadiusNear:                DefaultRadiusNear,
		RadiusFar:                 DefaultRadiusFar,
		RadiusFalloff:             DefaultRadiusFalloff,
		AttractionForceMultiplier: DefaultAttraction,
		RepulsionForceMultiplier:  DefaultRepulsion,
		FrictionForceMultiplier:   DefaultFriction,
		Color:                     color.Black,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Connections returns the contacts recorded since the last Draw.
func (n *Node) Connections() []Connection {
	return n.connections
}

// Speed is the magnitude of the velocity.
func (n *Node) Speed() float64 {
	return math.Hypot(n.DX, n.DY)
}

// Iterate advances the node by one tick. It locates itself in nodes by
// identity; a node that is not a member skips the pairwise pass.
func (n *Node) Iterate(vp Viewport, nodes *Collection, rng Rand) {
	n.iterate(nodes.Index(n), vp, nodes, rng)
}

func (n *Node) iterate(index int, vp Viewport, nodes *Collection, rng Rand) {
	if index >= 0 {
		for j := index + 1; j < len(nodes.nodes); j++ {
			Interact(n, nodes.nodes[j])
		}
	}

	n.recoverInto(vp, rng)

	n.X += n.DX
	n.Y += n.DY

	n.bounce(vp, rng)

	n.DX *= n.FrictionForceMultiplier
	n.DY *= n.FrictionForceMultiplier
}

// recoverInto steers a node found outside the viewport (after a resize)
// back toward the nearest edge and snaps it onto that edge.
func (n *Node) recoverInto(vp Viewport, rng Rand) {
	if n.X < 0 || n.X > vp.Width {
		edge := 0.0
		if n.X > vp.Width {
			edge = vp.Width
		}
		n.DX = within(rng, RecoverMinRatio, RecoverMaxRatio) * (edge - n.X)
		n.X = edge
	}
	if n.Y < 0 || n.Y > vp.Height {
		edge := 0.0
		if n.Y > vp.Height {
			edge = vp.Height
		}
		n.DY = within(rng, RecoverMinRatio, RecoverMaxRatio) * (edge - n.Y)
		n.Y = edge
	}
}

func (n *Node) bounce(vp Viewport, rng Rand) {
	if n.X < 0 {
		n.X = 0
		n.DX = math.Abs(n.DX) * within(rng, BounceMinRatio, BounceMaxRatio)
	} else if n.X > vp.Width {
		n.X = vp.Width
		n.DX = -math.Abs(n.DX) * within(rng, BounceMinRatio, BounceMaxRatio)
	}
	if n.Y < 0 {
		n.Y = 0
		n.DY = math.Abs(n.DY) * within(rng, BounceMinRatio, BounceMaxRatio)
	} else if n.Y > vp.Height {
		n.Y = vp.Height
		n.DY = -math.Abs(n.DY) * within(rng, BounceMinRatio, BounceMaxRatio)
	}
}

// Draw strokes the node circle and one line per recorded connection,
// then clears the connections.
func (n *Node) Draw(s canvas.Surface) {
	s.BeginPath()
	s.SetStrokeStyle(n.Color)
	s.Arc(n.X, n.Y, n.Size, 0, 2*math.Pi, true)
	s.ClosePath()
	s.Stroke()

	for _, conn := range n.connections {
		s.BeginPath()
		s.SetStrokeStyle(conn.Color)
		s.MoveTo(n.X, n.Y)
		s.LineTo(conn.Peer.X, conn.Peer.Y)
		s.Stroke()
	}

	clear(n.connections)
	n.connections = n.connections[:0]
}

// ExplodeFrom pushes the node away from (x, y). The impulse is force at the
// centre and falls off linearly to zero at radius.
func (n *Node) ExplodeFrom(x, y, force, radius float64) {
	ox := n.X - x
	oy := n.Y - y
	dist := math.Hypot(ox, oy)
	if dist > radius || radius <= 0 {
		return
	}

	ux, uy := 1.0, 0.0
	if dist > 0 {
		ux, uy = ox/dist, oy/dist
	}
	f := force * (1 - dist/radius)
	n.DX += ux * f
	n.DY += uy * f
}
