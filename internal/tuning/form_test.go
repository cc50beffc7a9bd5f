package tuning

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/olivierh59500/node-field/internal/config"
	"github.com/olivierh59500/node-field/internal/field"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"zero", 0, true},
		{"positive", 12.5, true},
		{"negative", -1, false},
		{"nan", math.NaN(), false},
		{"inf", math.Inf(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.v)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidValue) {
				t.Errorf("err = %v, want ErrInvalidValue", err)
			}
		})
	}
}

func TestDefaultFormMatchesNodeDefaults(t *testing.T) {
	f, err := NewForm(config.DefaultTuning())
	if err != nil {
		t.Fatal(err)
	}
	props := f.Properties()

	n := field.NewNode()
	for p, v := range props {
		got, ok := n.Get(p)
		if !ok {
			t.Fatalf("form maps to unknown property %q", p)
		}
		if math.Abs(got-v) > 1e-12 {
			t.Errorf("%s: node default %v, form %v", p, got, v)
		}
	}
}

func TestSetConvertsUnits(t *testing.T) {
	f, err := NewForm(config.DefaultTuning())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		field Field
		value float64
		prop  field.Property
		want  float64
	}{
		{Near, 55, field.PropRadiusNear, 55},
		{Attract, 2, field.PropAttraction, 0.02},
		{Repulse, 50, field.PropRepulsion, 0.5},
		{Friction, 5, field.PropFriction, 0.95},
	}
	for _, tt := range tests {
		props, err := f.Set(tt.field, tt.value)
		if err != nil {
			t.Fatalf("%s: %v", tt.field, err)
		}
		if len(props) != 1 || math.Abs(props[tt.prop]-tt.want) > 1e-12 {
			t.Errorf("%s: props = %v, want %s=%v", tt.field, props, tt.prop, tt.want)
		}
		if f.Value(tt.field) != tt.value {
			t.Errorf("%s: form value = %v", tt.field, f.Value(tt.field))
		}
	}
}

func TestSetRejectsInvalid(t *testing.T) {
	f, _ := NewForm(config.DefaultTuning())

	props, err := f.Set(Near, -3)
	if !errors.Is(err, ErrInvalidValue) || props != nil {
		t.Fatalf("props=%v err=%v", props, err)
	}
	if f.Value(Near) != 40 {
		t.Errorf("invalid value stored: %v", f.Value(Near))
	}

	if _, err := f.Set("mass", 1); !errors.Is(err, ErrUnknownField) {
		t.Errorf("err = %v, want ErrUnknownField", err)
	}
}

func TestResetIsAllOrNothing(t *testing.T) {
	f, _ := NewForm(config.DefaultTuning())

	bad := config.DefaultTuning()
	bad.Near = 10
	bad.Friction = math.NaN()
	if err := f.Reset(bad); err == nil {
		t.Fatal("expected error")
	}
	if f.Value(Near) != 40 {
		t.Error("reset partially applied")
	}
	if f.Snapshot() != config.DefaultTuning() {
		t.Errorf("snapshot = %+v", f.Snapshot())
	}
}

func TestResetNamesFirstInvalidField(t *testing.T) {
	f, _ := NewForm(config.DefaultTuning())

	bad := config.DefaultTuning()
	bad.Far = -1
	bad.Repulse = math.Inf(1)
	bad.Friction = math.NaN()
	for i := 0; i < 20; i++ {
		err := f.Reset(bad)
		if !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("err = %v, want ErrInvalidValue", err)
		}
		if !strings.HasPrefix(err.Error(), "far:") {
			t.Fatalf("err = %q, want the far field reported", err)
		}
	}
}

func TestDescribe(t *testing.T) {
	f, _ := NewForm(config.DefaultTuning())
	f.Select(1)

	got := f.Describe()
	want := " Near 40px  >Far 700px   Falloff 800px   Attract 0.5%   Repulse 10%   Friction 20%  "
	if got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
}

func TestSelectAndNudge(t *testing.T) {
	f, _ := NewForm(config.DefaultTuning())

	if f.Selected().Field != Near {
		t.Fatalf("initial selection = %v", f.Selected().Field)
	}
	f.Select(-1)
	if f.Selected().Field != Friction {
		t.Fatalf("wrap back = %v", f.Selected().Field)
	}
	f.Select(1)
	if f.Selected().Field != Near {
		t.Fatalf("wrap forward = %v", f.Selected().Field)
	}

	props, err := f.Nudge(2)
	if err != nil {
		t.Fatal(err)
	}
	if props[field.PropRadiusNear] != 50 {
		t.Errorf("nudge near = %v", props)
	}

	f.Select(5) // friction
	for i := 0; i < 20; i++ {
		f.Nudge(-1)
	}
	if _, err := f.Nudge(-1); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("nudge below zero err = %v", err)
	}
	if f.Value(Friction) != 0 {
		t.Errorf("friction = %v, want 0", f.Value(Friction))
	}
}
