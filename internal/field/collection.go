package field

import (
	"slices"

	"github.com/olivierh59500/node-field/internal/canvas"
)

// Handle is returned by Add and removes exactly that registration when disposed.
type Handle struct {
	c        *Collection
	node     *Node
	disposed bool
}

// Node returns the node the handle was issued for.
func (h *Handle) Node() *Node { return h.node }

// Dispose removes the node from its collection. Later calls do nothing.
func (h *Handle) Dispose() {
	if h == nil || h.disposed {
		return
	}
	h.disposed = true
	h.c.remove(h.node)
}

// Disposed reports whether Dispose has run.
func (h *Handle) Disposed() bool { return h.disposed }

// Collection is the ordered set of nodes driven by the loop. Index order
// decides which node of a pair runs the pairwise force.
type Collection struct {
	nodes []*Node

	// removals requested while a pairwise scan is running, applied after it.
	scanning bool
	deferred []*Node
}

func NewCollection(nodes ...*Node) *Collection {
	return &Collection{nodes: slices.Clone(nodes)}
}

// Add appends n and returns its disposer.
func (c *Collection) Add(n *Node) *Handle {
	c.nodes = append(c.nodes, n)
	return &Handle{c: c, node: n}
}

// Remove deletes the first identical node. Prefer Handle.Dispose.
func (c *Collection) Remove(n *Node) bool {
	return c.remove(n)
}

func (c *Collection) remove(n *Node) bool {
	if c.scanning {
		c.deferred = append(c.deferred, n)
		return true
	}
	i := c.Index(n)
	if i < 0 {
		return false
	}
	c.nodes = slices.Delete(c.nodes, i, i+1)
	return true
}

// Len returns the number of nodes.
func (c *Collection) Len() int { return len(c.nodes) }

// At returns the node at index i.
func (c *Collection) At(i int) *Node { return c.nodes[i] }

// Index returns the position of n by identity, or -1.
func (c *Collection) Index(n *Node) int {
	for i, m := range c.nodes {
		if m == n {
			return i
		}
	}
	return -1
}

func (c *Collection) ForEach(fn func(n *Node)) {
	for _, n := range c.nodes {
		fn(n)
	}
}

func (c *Collection) Filter(keep func(n *Node) bool) []*Node {
	var out []*Node
	for _, n := range c.nodes {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

func (c *Collection) Find(match func(n *Node) bool) (*Node, bool) {
	for _, n := range c.nodes {
		if match(n) {
			return n, true
		}
	}
	return nil, false
}

// Map projects every node in index order.
func Map[T any](c *Collection, fn func(n *Node) T) []T {
	out := make([]T, 0, len(c.nodes))
	for _, n := range c.nodes {
		out = append(out, fn(n))
	}
	return out
}

// Iterate runs one physics step for every node in index order.
func (c *Collection) Iterate(vp Viewport, rng Rand) {
	c.scanning = true
	for i, n := range c.nodes {
		n.iterate(i, vp, c, rng)
	}
	c.scanning = false

	pending := c.deferred
	c.deferred = nil
	for _, n := range pending {
		c.remove(n)
	}
}

// Draw draws every node in index order.
func (c *Collection) Draw(s canvas.Surface) {
	for _, n := range c.nodes {
		n.Draw(s)
	}
}

// ExplodeFrom broadcasts a pointer perturbation to every node.
func (c *Collection) ExplodeFrom(x, y, force, radius float64) {
	for _, n := range c.nodes {
		n.ExplodeFrom(x, y, force, radius)
	}
}

// Broadcast applies props to every node. Nothing is written if any key is unknown.
func (c *Collection) Broadcast(props Properties) error {
	if err := props.Validate(); err != nil {
		return err
	}
	for _, n := range c.nodes {
		n.Apply(props)
	}
	return nil
}
