// Package ebitencanvas implements canvas.Surface on an offscreen ebiten image.
package ebitencanvas

import (
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/olivierh59500/node-field/internal/canvas"
)

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

// whitePixel is the 1x1 source all strokes sample from; vertex colours tint it.
func whitePixel() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

// Screen is a canvas.Surface backed by an offscreen ebiten image. The game blits
// Image() to the window in its Draw.
type Screen struct {
	img *ebiten.Image

	path   vector.Path
	stroke color.NRGBA
	width  float32

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewScreen allocates a w x h offscreen target.
func NewScreen(w, h int) *Screen {
	return &Screen{
		img:    ebiten.NewImage(max(w, 1), max(h, 1)),
		stroke: color.NRGBA{A: 0xff},
		width:  1,
	}
}

// Image returns the current target.
func (s *Screen) Image() *ebiten.Image { return s.img }

// Resize reallocates the target when the window size changes.
func (s *Screen) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	b := s.img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return
	}
	s.img.Deallocate()
	s.img = ebiten.NewImage(w, h)
}

var _ canvas.Surface = (*Screen)(nil)

func (s *Screen) ClearRect(x, y, width, height float64) {
	r := image.Rect(int(x), int(y), int(x+width+0.5), int(y+height+0.5)).Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	s.img.SubImage(r).(*ebiten.Image).Clear()
}

func (s *Screen) BeginPath() { s.path = vector.Path{} }

func (s *Screen) ClosePath() { s.path.Close() }

func (s *Screen) Arc(x, y, radius, startAngle, endAngle float64, anticlockwise bool) {
	dir := vector.Clockwise
	if anticlockwise {
		dir = vector.CounterClockwise
	}
	s.path.Arc(float32(x), float32(y), float32(radius), float32(startAngle), float32(endAngle), dir)
}

func (s *Screen) MoveTo(x, y float64) { s.path.MoveTo(float32(x), float32(y)) }

func (s *Screen) LineTo(x, y float64) { s.path.LineTo(float32(x), float32(y)) }

func (s *Screen) SetStrokeStyle(c color.Color) {
	s.stroke = color.NRGBAModel.Convert(c).(color.NRGBA)
}

func (s *Screen) SetLineWidth(width float64) { s.width = float32(width) }

// Stroke rasterises the current path with the current style. The path is kept,
// as on an HTML canvas, until the next BeginPath.
func (s *Screen) Stroke() {
	s.vertices, s.indices = s.path.AppendVerticesAndIndicesForStroke(s.vertices[:0], s.indices[:0], &vector.StrokeOptions{
		Width:    s.width,
		LineJoin: vector.LineJoinRound,
		LineCap:  vector.LineCapRound,
	})
	if len(s.indices) == 0 {
		return
	}

	r := float32(s.stroke.R) / 0xff
	g := float32(s.stroke.G) / 0xff
	b := float32(s.stroke.B) / 0xff
	a := float32(s.stroke.A) / 0xff
	for i := range s.vertices {
		s.vertices[i].SrcX = 1
		s.vertices[i].SrcY = 1
		s.vertices[i].ColorR = r
		s.vertices[i].ColorG = g
		s.vertices[i].ColorB = b
		s.vertices[i].ColorA = a
	}
	s.img.DrawTriangles(s.vertices, s.indices, whitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}
