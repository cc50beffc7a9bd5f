// Package tuning is the property-editing form: it screens user input and
// turns form values into node property broadcasts.
package tuning

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/olivierh59500/node-field/internal/config"
	"github.com/olivierh59500/node-field/internal/field"
)

var (
	// ErrInvalidValue rejects NaN, infinite or negative input.
	ErrInvalidValue = errors.New("invalid tuning value")
	// ErrUnknownField rejects a form field that does not exist.
	ErrUnknownField = errors.New("unknown tuning field")
)

// Field is a form field name.
type Field string

const (
	Near     Field = "near"
	Far      Field = "far"
	Falloff  Field = "falloff"
	Attract  Field = "attract"
	Repulse  Field = "repulse"
	Friction Field = "friction"
)

// Spec describes one form field and how it maps onto a node property.
type Spec struct {
	Field    Field
	Label    string
	Unit     string
	Step     float64
	Property field.Property
	convert  func(float64) float64
}

func identity(v float64) float64 { return v }
func percent(v float64) float64  { return v / 100 }

// friction is edited as the share of velocity lost per tick.
func friction(v float64) float64 { return (100 - v) / 100 }

// Specs lists the fields in form order.
var Specs = []Spec{
	{Field: Near, Label: "Near", Unit: "px", Step: 5, Property: field.PropRadiusNear, convert: identity},
	{Field: Far, Label: "Far", Unit: "px", Step: 25, Property: field.PropRadiusFar, convert: identity},
	{Field: Falloff, Label: "Falloff", Unit: "px", Step: 25, Property: field.PropRadiusFalloff, convert: identity},
	{Field: Attract, Label: "Attract", Unit: "%", Step: 0.1, Property: field.PropAttraction, convert: percent},
	{Field: Repulse, Label: "Repulse", Unit: "%", Step: 1, Property: field.PropRepulsion, convert: percent},
	{Field: Friction, Label: "Friction", Unit: "%", Step: 1, Property: field.PropFriction, convert: friction},
}

// Lookup returns the spec for f.
func Lookup(f Field) (Spec, error) {
	for _, s := range Specs {
		if s.Field == f {
			return s, nil
		}
	}
	return Spec{}, fmt.Errorf("%w: %q", ErrUnknownField, f)
}

// Convert maps a form value to the node property value.
func (s Spec) Convert(v float64) float64 { return s.convert(v) }

// Validate accepts finite, non-negative numbers.
func Validate(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidValue, v)
	}
	return nil
}

// Form holds the current value of every field and which one is selected.
type Form struct {
	values   map[Field]float64
	selected int
}

// NewForm seeds the form from config values.
func NewForm(t config.TuningConfig) (*Form, error) {
	f := &Form{values: make(map[Field]float64, len(Specs))}
	if err := f.Reset(t); err != nil {
		return nil, err
	}
	return f, nil
}

// Reset replaces every value. Nothing changes if any value is invalid.
func (f *Form) Reset(t config.TuningConfig) error {
	next := map[Field]float64{
		Near:     t.Near,
		Far:      t.Far,
		Falloff:  t.Falloff,
		Attract:  t.Attract,
		Repulse:  t.Repulse,
		Friction: t.Friction,
	}
	for _, s := range Specs {
		if err := Validate(next[s.Field]); err != nil {
			return fmt.Errorf("%s: %w", s.Field, err)
		}
	}
	f.values = next
	return nil
}

// Snapshot returns the values in config form.
func (f *Form) Snapshot() config.TuningConfig {
	return config.TuningConfig{
		Near:     f.values[Near],
		Far:      f.values[Far],
		Falloff:  f.values[Falloff],
		Attract:  f.values[Attract],
		Repulse:  f.values[Repulse],
		Friction: f.values[Friction],
	}
}

// Value returns the form value of name.
func (f *Form) Value(name Field) float64 { return f.values[name] }

// Set validates and stores one field, returning the broadcast for it.
// An invalid value leaves the form unchanged and yields no broadcast.
func (f *Form) Set(name Field, v float64) (field.Properties, error) {
	spec, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if err := Validate(v); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	f.values[name] = v
	return field.Properties{spec.Property: spec.Convert(v)}, nil
}

// Properties converts every field, for seeding new nodes or a full re-broadcast.
func (f *Form) Properties() field.Properties {
	props := make(field.Properties, len(Specs))
	for _, s := range Specs {
		props[s.Property] = s.Convert(f.values[s.Field])
	}
	return props
}

// Selected returns the spec of the selected field.
func (f *Form) Selected() Spec { return Specs[f.selected] }

// Select moves the selection by delta, wrapping around.
func (f *Form) Select(delta int) {
	n := len(Specs)
	f.selected = ((f.selected+delta)%n + n) % n
}

// Nudge steps the selected field by delta steps and returns its broadcast.
func (f *Form) Nudge(delta int) (field.Properties, error) {
	s := f.Selected()
	v := f.values[s.Field] + float64(delta)*s.Step
	return f.Set(s.Field, math.Round(v*1000)/1000)
}

// Describe renders a one-line summary of the form.
func (f *Form) Describe() string {
	var b strings.Builder
	for i, s := range Specs {
		mark := " "
		if i == f.selected {
			mark = ">"
		}
		fmt.Fprintf(&b, "%s%s %g%s  ", mark, s.Label, f.values[s.Field], s.Unit)
	}
	return b.String()
}
