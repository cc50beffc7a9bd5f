package main

import (
	"fmt"
	"image/color"
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/olivierh59500/node-field/internal/canvas/ebitencanvas"
	"github.com/olivierh59500/node-field/internal/config"
	"github.com/olivierh59500/node-field/internal/field"
	"github.com/olivierh59500/node-field/internal/pointer"
	"github.com/olivierh59500/node-field/internal/tuning"
)

var background = color.RGBA{0xf4, 0xf1, 0xea, 0xff}

// Simulation is the ebiten Game hosting the node field.
type Simulation struct {
	Width, Height float64 // Viewport, updated by Layout

	cfg     *config.Config
	cfgPath string

	nodes   *field.Collection
	handles []*field.Handle
	loop    *field.Loop
	screen  *ebitencanvas.Screen
	spawner *field.Spawner
	form    *tuning.Form

	mouse     *pointer.Mouse
	autopilot *pointer.Autopilot

	Paused  bool
	ShowHUD bool
	status  string
	rng     *rand.Rand
}

// NewSimulation creates the field, spawns the initial nodes and starts the loop.
func NewSimulation(cfg *config.Config, cfgPath string) (*Simulation, error) {
	seed := cfg.Nodes.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	form, err := tuning.NewForm(cfg.Tuning)
	if err != nil {
		return nil, fmt.Errorf("tuning: %w", err)
	}

	s := &Simulation{
		Width:   float64(cfg.Window.Width),
		Height:  float64(cfg.Window.Height),
		cfg:     cfg,
		cfgPath: cfgPath,
		nodes:   field.NewCollection(),
		screen:  ebitencanvas.NewScreen(cfg.Window.Width, cfg.Window.Height),
		form:    form,
		mouse:   pointer.NewMouse(cfg.Pointer.Force, cfg.Pointer.Radius),
		ShowHUD: true,
		rng:     rand.New(rand.NewSource(seed)),
	}
	s.spawner = field.NewSpawner(s.rng)
	if cfg.Autopilot.Enabled {
		s.autopilot = pointer.NewAutopilot(cfg.Autopilot.Seed, cfg.Autopilot.Speed, cfg.Pointer.Force, cfg.Pointer.Radius)
	}

	s.loop, err = field.NewLoop(s.screen, s, s.nodes, field.WithRand(s.rng))
	if err != nil {
		return nil, err
	}

	for i := 0; i < cfg.Nodes.Count; i++ {
		s.spawn()
	}
	return s, nil
}

// Viewport implements field.ViewportProvider.
func (s *Simulation) Viewport() field.Viewport {
	return field.Viewport{Width: s.Width, Height: s.Height}
}

// Update is called each tick by Ebitengine
func (s *Simulation) Update() error {
	if ebiten.IsWindowBeingClosed() {
		s.loop.Stop()
	}
	if s.loop.State() == field.Stopped {
		return ebiten.Termination
	}

	s.handleInput()

	if s.Paused {
		s.loop.Flush()
		return nil
	}
	s.loop.Tick()
	return nil
}

// Draw is called each frame by Ebitengine
func (s *Simulation) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	screen.DrawImage(s.screen.Image(), nil)

	if s.ShowHUD {
		hud := fmt.Sprintf("W: %.0f, H: %.0f  nodes: %d  tick: %d\n%s",
			s.Width, s.Height, s.nodes.Len(), s.loop.Ticks(), s.form.Describe())
		if s.status != "" {
			hud += "\n" + s.status
		}
		ebitenutil.DebugPrint(screen, hud)
	}
}

// Layout tracks the window size as the viewport
func (s *Simulation) Layout(outsideWidth, outsideHeight int) (int, int) {
	s.Width = float64(outsideWidth)
	s.Height = float64(outsideHeight)
	s.screen.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// handleInput queues keyboard and mouse input for the next tick
func (s *Simulation) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.loop.Stop()
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.Paused = !s.Paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		s.ShowHUD = !s.ShowHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		s.spawn()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		s.despawn()
	}

	// Property form
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) || inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		s.form.Select(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		s.form.Select(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		s.nudge(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		s.nudge(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		s.saveTuning()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		s.loadTuning()
	}

	// Blasts only add velocity, so a paused field ignores the pointer.
	if s.Paused {
		return
	}
	mx, my := ebiten.CursorPosition()
	if req, ok := s.mouse.Observe(mx, my); ok {
		s.loop.Post(func(nodes *field.Collection) { req.Apply(nodes) })
	} else if s.autopilot != nil && s.mouse.IdleFrames() >= s.cfg.Autopilot.IdleFrames {
		req := s.autopilot.Next(s.Viewport())
		s.loop.Post(func(nodes *field.Collection) { req.Apply(nodes) })
	}
}

func (s *Simulation) spawn() {
	n := s.spawner.Spawn(s.Viewport(),
		field.WithProperties(s.form.Properties()),
		field.WithSize(s.cfg.Nodes.Size),
	)
	s.loop.Post(func(nodes *field.Collection) {
		s.handles = append(s.handles, nodes.Add(n))
	})
}

func (s *Simulation) despawn() {
	s.loop.Post(func(*field.Collection) {
		if len(s.handles) == 0 {
			return
		}
		last := len(s.handles) - 1
		s.handles[last].Dispose()
		s.handles = s.handles[:last]
	})
}

func (s *Simulation) nudge(delta int) {
	props, err := s.form.Nudge(delta)
	if err != nil {
		s.status = err.Error()
		return
	}
	s.status = ""
	s.broadcast(props)
}

func (s *Simulation) broadcast(props field.Properties) {
	s.loop.Post(func(nodes *field.Collection) {
		if err := nodes.Broadcast(props); err != nil {
			log.Printf("broadcast: %v", err)
		}
	})
}

// saveTuning writes the current form values to the config file
func (s *Simulation) saveTuning() {
	path := s.cfgPath
	if path == "" {
		path = "nodefield.toml"
	}
	s.cfg.Tuning = s.form.Snapshot()
	if err := config.Save(s.cfg, path); err != nil {
		s.status = "save failed: " + err.Error()
		log.Printf("save tuning: %v", err)
		return
	}
	s.cfgPath = path
	s.status = "saved " + path
}

// loadTuning re-reads the tuning section and broadcasts it to every node
func (s *Simulation) loadTuning() {
	if s.cfgPath == "" {
		s.status = "no config file to load"
		return
	}
	cfg, _, err := config.Load(s.cfgPath)
	if err != nil {
		s.status = "load failed: " + err.Error()
		log.Printf("load tuning: %v", err)
		return
	}
	if err := s.form.Reset(cfg.Tuning); err != nil {
		s.status = "load failed: " + err.Error()
		return
	}
	s.cfg.Tuning = cfg.Tuning
	s.status = "loaded " + s.cfgPath
	s.broadcast(s.form.Properties())
}

// runWindow opens the window and blocks until it closes
func runWindow(cfg *config.Config, cfgPath string) error {
	sim, err := NewSimulation(cfg, cfgPath)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Window.TPS)
	ebiten.SetWindowClosingHandled(true)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	return ebiten.RunGame(sim)
}
