package canvas

import "image/color"

// OpKind names a recorded drawing call.
type OpKind int

const (
	OpClearRect OpKind = iota
	OpBeginPath
	OpClosePath
	OpArc
	OpMoveTo
	OpLineTo
	OpStrokeStyle
	OpLineWidth
	OpStroke
)

var opNames = [...]string{
	OpClearRect:   "clearRect",
	OpBeginPath:   "beginPath",
	OpClosePath:   "closePath",
	OpArc:         "arc",
	OpMoveTo:      "moveTo",
	OpLineTo:      "lineTo",
	OpStrokeStyle: "strokeStyle",
	OpLineWidth:   "lineWidth",
	OpStroke:      "stroke",
}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return "unknown"
}

// Op is one recorded call with its numeric arguments.
type Op struct {
	Kind  OpKind
	Args  []float64
	Color color.Color
}

// Recorder is a Surface that keeps every call in order.
type Recorder struct {
	Ops []Op

	// lastFrame drops earlier ops whenever ClearRect starts a new frame.
	lastFrame bool
}

func NewRecorder() *Recorder { return &Recorder{} }

// NewFrameRecorder returns a Recorder holding only the most recent frame,
// where a frame starts at ClearRect.
func NewFrameRecorder() *Recorder { return &Recorder{lastFrame: true} }

func (r *Recorder) push(k OpKind, args ...float64) {
	r.Ops = append(r.Ops, Op{Kind: k, Args: args})
}

func (r *Recorder) ClearRect(x, y, width, height float64) {
	if r.lastFrame {
		r.Reset()
	}
	r.push(OpClearRect, x, y, width, height)
}

func (r *Recorder) BeginPath()                 { r.push(OpBeginPath) }
func (r *Recorder) ClosePath()                 { r.push(OpClosePath) }
func (r *Recorder) MoveTo(x, y float64)        { r.push(OpMoveTo, x, y) }
func (r *Recorder) LineTo(x, y float64)        { r.push(OpLineTo, x, y) }
func (r *Recorder) SetLineWidth(width float64) { r.push(OpLineWidth, width) }
func (r *Recorder) Stroke()                    { r.push(OpStroke) }

func (r *Recorder) Arc(x, y, radius, startAngle, endAngle float64, anticlockwise bool) {
	ccw := 0.0
	if anticlockwise {
		ccw = 1
	}
	r.push(OpArc, x, y, radius, startAngle, endAngle, ccw)
}

func (r *Recorder) SetStrokeStyle(c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeStyle, Color: c})
}

// Count returns how many calls of kind k were recorded.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// Kinds returns the recorded call sequence without arguments.
func (r *Recorder) Kinds() []OpKind {
	out := make([]OpKind, len(r.Ops))
	for i, op := range r.Ops {
		out[i] = op.Kind
	}
	return out
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }
