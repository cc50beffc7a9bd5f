package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olivierh59500/node-field/internal/canvas"
	"github.com/olivierh59500/node-field/internal/config"
	"github.com/olivierh59500/node-field/internal/field"
	"github.com/olivierh59500/node-field/internal/pointer"
	"github.com/olivierh59500/node-field/internal/tuning"
)

// Summary describes the last frame of a headless run.
type Summary struct {
	Ticks     uint64
	Nodes     int
	InBounds  int
	MeanSpeed float64
	Circles   int
	Links     int
	Elapsed   time.Duration
}

func headlessCmd() *cobra.Command {
	var (
		ticks     int
		fps       float64
		autopilot bool
	)

	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run the simulation without a window and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if autopilot {
				cfg.Autopilot.Enabled = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			Brand.Printf("nodefield headless: %d nodes, %d ticks\n", cfg.Nodes.Count, ticks)
			sum, err := RunHeadless(ctx, cfg, ticks, fps)
			if err != nil {
				return err
			}
			printSummary(sum)
			return nil
		},
	}

	cmd.Flags().IntVarP(&ticks, "ticks", "t", 600, "Number of ticks to run")
	cmd.Flags().Float64Var(&fps, "fps", 0, "Frame rate, 0 runs as fast as possible")
	cmd.Flags().BoolVar(&autopilot, "autopilot", false, "Perturb nodes with the noise-driven pointer")
	return cmd
}

// RunHeadless drives a loop against a recording surface for a fixed number of ticks.
func RunHeadless(ctx context.Context, cfg *config.Config, ticks int, fps float64) (Summary, error) {
	seed := cfg.Nodes.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	form, err := tuning.NewForm(cfg.Tuning)
	if err != nil {
		return Summary{}, fmt.Errorf("tuning: %w", err)
	}

	vp := field.Viewport{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)}
	rec := canvas.NewFrameRecorder()
	nodes := field.NewCollection()
	loop, err := field.NewLoop(rec, field.Fixed(vp.Width, vp.Height), nodes, field.WithRand(rng))
	if err != nil {
		return Summary{}, err
	}

	spawner := field.NewSpawner(rng)
	for i := 0; i < cfg.Nodes.Count; i++ {
		nodes.Add(spawner.Spawn(vp, field.WithProperties(form.Properties()), field.WithSize(cfg.Nodes.Size)))
	}

	var pilot *pointer.Autopilot
	if cfg.Autopilot.Enabled {
		pilot = pointer.NewAutopilot(cfg.Autopilot.Seed, cfg.Autopilot.Speed, cfg.Pointer.Force, cfg.Pointer.Radius)
	}

	frames := make(chan time.Time)
	go func() {
		defer close(frames)
		var tick <-chan time.Time
		if fps > 0 {
			t := time.NewTicker(time.Duration(float64(time.Second) / fps))
			defer t.Stop()
			tick = t.C
		}
		for i := 0; i < ticks; i++ {
			now := time.Now()
			if tick != nil {
				select {
				case now = <-tick:
				case <-ctx.Done():
					return
				}
			}
			if pilot != nil {
				req := pilot.Next(vp)
				loop.Post(func(nodes *field.Collection) { req.Apply(nodes) })
			}
			select {
			case frames <- now:
			case <-ctx.Done():
				return
			}
		}
	}()

	start := time.Now()
	// An interrupt still reports what ran so far.
	if err := loop.Run(ctx, frames); err != nil && !errors.Is(err, context.Canceled) {
		return Summary{}, fmt.Errorf("run: %w", err)
	}

	sum := Summary{
		Ticks:   loop.Ticks(),
		Nodes:   nodes.Len(),
		Circles: rec.Count(canvas.OpArc),
		Links:   rec.Count(canvas.OpLineTo),
		Elapsed: time.Since(start),
	}
	sum.InBounds = len(nodes.Filter(func(n *field.Node) bool { return vp.Contains(n.X, n.Y) }))
	speeds := field.Map(nodes, (*field.Node).Speed)
	for _, v := range speeds {
		sum.MeanSpeed += v
	}
	if len(speeds) > 0 {
		sum.MeanSpeed /= float64(len(speeds))
	}
	return sum, nil
}

func printSummary(s Summary) {
	fmt.Printf("  %s %d\n", Subtle.Sprint("ticks     "), s.Ticks)
	fmt.Printf("  %s %d\n", Subtle.Sprint("nodes     "), s.Nodes)
	inBounds := Good.Sprintf("%d", s.InBounds)
	if s.InBounds != s.Nodes {
		inBounds = Warn.Sprintf("%d", s.InBounds)
	}
	fmt.Printf("  %s %s\n", Subtle.Sprint("in bounds "), inBounds)
	fmt.Printf("  %s %.3f px/tick\n", Subtle.Sprint("mean speed"), s.MeanSpeed)
	fmt.Printf("  %s %d circles, %d links\n", Subtle.Sprint("last frame"), s.Circles, s.Links)
	fmt.Printf("  %s %s\n", Subtle.Sprint("elapsed   "), s.Elapsed.Round(time.Millisecond))
}
