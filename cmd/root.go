package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/olivierh59500/node-field/internal/config"
)

var version = "0.3.0"

// WindowRunner opens the interactive window. It lives in package main
// because it owns the ebiten game.
type WindowRunner func(cfg *config.Config, cfgPath string) error

var (
	runWindow WindowRunner

	configPath string
	nodeCount  int
	width      int
	height     int
	seed       int64
)

// SetWindowRunner installs the function the root command runs.
func SetWindowRunner(fn WindowRunner) {
	runWindow = fn
}

var rootCmd = &cobra.Command{
	Use:     "nodefield",
	Short:   "Animated particle field with banded attraction and repulsion",
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runWindow == nil {
			return errors.New("no window runner installed")
		}
		cfg, path, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := runWindow(cfg, path); err != nil {
			log.Printf("window: %v", err)
			return err
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("nodefield {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (.toml, .yaml)")
	rootCmd.PersistentFlags().IntVarP(&nodeCount, "nodes", "n", 0, "Initial node count (overrides config)")
	rootCmd.PersistentFlags().IntVar(&width, "width", 0, "Viewport width in px (overrides config)")
	rootCmd.PersistentFlags().IntVar(&height, "height", 0, "Viewport height in px (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Random seed, 0 for time based")

	rootCmd.AddCommand(
		headlessCmd(),
		configCmd(),
	)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg, path, err := config.Load(configPath)
	if err != nil {
		return nil, path, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("nodes") {
		cfg.Nodes.Count = nodeCount
	}
	if flags.Changed("width") && width > 0 {
		cfg.Window.Width = width
	}
	if flags.Changed("height") && height > 0 {
		cfg.Window.Height = height
	}
	if flags.Changed("seed") {
		cfg.Nodes.Seed = seed
	}
	return cfg, path, nil
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		Bad.Printf("nodefield: %v\n", err)
	}
	return err
}
