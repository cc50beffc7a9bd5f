package field

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Bracket identifies the force law applied to a pair of nodes.
type Bracket int

const (
	// NoBracket means the pair sits in the dead zone or beyond the falloff radius.
	NoBracket Bracket = iota
	Repulsion
	Attraction
)

func (b Bracket) String() string {
	switch b {
	case Repulsion:
		return "repulsion"
	case Attraction:
		return "attraction"
	default:
		return "none"
	}
}

// attractionExponent shapes the superlinear pull inside the attraction band.
const attractionExponent = 1.6

// linkTint is the base colour of repulsion contact lines; alpha carries urgency.
var linkTint = colorful.Hsv(215, 0.55, 0.35)

type forceBracket struct {
	kind  Bracket
	match func(a, b *Node, d float64) bool
	apply func(a, b *Node, d float64)
}

// brackets are evaluated in order, first match wins.
var brackets = [...]forceBracket{
	{kind: Repulsion, match: repulsionMatch, apply: repulse},
	{kind: Attraction, match: attractionMatch, apply: attract},
}

func avg(a, b float64) float64 { return (a + b) / 2 }

// Distance is the Euclidean distance between two nodes.
func Distance(a, b *Node) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Classify returns the bracket that would apply to a and b at distance d
// without touching either node.
func Classify(a, b *Node, d float64) Bracket {
	for _, br := range brackets {
		if br.match(a, b, d) {
			return br.kind
		}
	}
	return NoBracket
}

// Interact applies at most one force bracket to the pair and reports which one ran.
func Interact(a, b *Node) Bracket {
	d := Distance(a, b)
	for _, br := range brackets {
		if br.match(a, b, d) {
			br.apply(a, b, d)
			return br.kind
		}
	}
	return NoBracket
}

func repulsionMatch(a, b *Node, d float64) bool {
	return d < avg(a.RadiusNear, b.RadiusNear)
}

func repulse(a, b *Node, d float64) {
	rNear := avg(a.RadiusNear, b.RadiusNear)
	k := avg(a.RepulsionForceMultiplier, b.RepulsionForceMultiplier)
	urgency := (rNear - d) / rNear
	f := k * urgency * urgency

	ox := a.X - b.X
	oy := a.Y - b.Y
	a.DX += f * ox
	a.DY += f * oy
	b.DX -= f * ox
	b.DY -= f * oy

	c := ConnectionColor(urgency)
	a.connections = append(a.connections, Connection{Peer: b, Color: c})
	b.connections = append(b.connections, Connection{Peer: a, Color: c})
}

func attractionMatch(a, b *Node, d float64) bool {
	return d > avg(a.RadiusFar, b.RadiusFar) && d < avg(a.RadiusFalloff, b.RadiusFalloff)
}

func attract(a, b *Node, d float64) {
	rFall := avg(a.RadiusFalloff, b.RadiusFalloff)
	k := avg(a.AttractionForceMultiplier, b.AttractionForceMultiplier)
	f := math.Pow(k*d/rFall, attractionExponent)

	ox := a.X - b.X
	oy := a.Y - b.Y
	a.DX -= f * ox
	a.DY -= f * oy
	b.DX += f * ox
	b.DY += f * oy
}

// ConnectionColor encodes urgency (0..1) as the opacity of the link tint.
func ConnectionColor(urgency float64) color.NRGBA {
	if urgency < 0 {
		urgency = 0
	} else if urgency > 1 {
		urgency = 1
	}
	r, g, b := linkTint.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(urgency * 255))}
}
