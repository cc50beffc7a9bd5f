// Package canvas defines the immediate-mode drawing surface the field draws
// on, with an ebiten-backed implementation and a recorder for headless runs.
package canvas

import "image/color"

// Surface is a minimal path-based 2-D drawing context.
type Surface interface {
	ClearRect(x, y, width, height float64)
	BeginPath()
	ClosePath()
	Arc(x, y, radius, startAngle, endAngle float64, anticlockwise bool)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	SetStrokeStyle(c color.Color)
	SetLineWidth(width float64)
	Stroke()
}
