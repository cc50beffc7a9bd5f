package field

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownProperty is returned when a broadcast names a field nodes do not have.
var ErrUnknownProperty = errors.New("unknown node property")

// Property names a tunable node field.
type Property string

const (
	PropSize          Property = "size"
	PropRadiusNear    Property = "radiusNear"
	PropRadiusFar     Property = "radiusFar"
	PropRadiusFalloff Property = "radiusFalloff"
	PropAttraction    Property = "attractionForceMultiplier"
	PropRepulsion     Property = "repulsionForceMultiplier"
	PropFriction      Property = "frictionForceMultiplier"
)

// Properties is a batch of field edits applied to every node at once.
type Properties map[Property]float64

func (p Property) target(n *Node) *float64 {
	switch p {
	case PropSize:
		return &n.Size
	case PropRadiusNear:
		return &n.RadiusNear
	case PropRadiusFar:
		return &n.RadiusFar
	case PropRadiusFalloff:
		return &n.RadiusFalloff
	case PropAttraction:
		return &n.AttractionForceMultiplier
	case PropRepulsion:
		return &n.RepulsionForceMultiplier
	case PropFriction:
		return &n.FrictionForceMultiplier
	}
	return nil
}

// Validate checks that every key names a known property.
func (p Properties) Validate() error {
	var probe Node
	var unknown []string
	for prop := range p {
		if prop.target(&probe) == nil {
			unknown = append(unknown, string(prop))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %v", ErrUnknownProperty, unknown)
	}
	return nil
}

// Set writes a single property. It reports false for an unknown name.
func (n *Node) Set(p Property, v float64) bool {
	ptr := p.target(n)
	if ptr == nil {
		return false
	}
	*ptr = v
	return true
}

// Get reads a single property.
func (n *Node) Get(p Property) (float64, bool) {
	ptr := p.target(n)
	if ptr == nil {
		return 0, false
	}
	return *ptr, true
}

// Apply writes every property in the batch to n. Unknown names are skipped;
// call Validate first when that matters.
func (n *Node) Apply(props Properties) {
	for p, v := range props {
		n.Set(p, v)
	}
}
