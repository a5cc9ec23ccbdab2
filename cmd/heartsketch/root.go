package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ayusman/heartsketch/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "heartsketch",
	Short: "Draw a heart in the air, then pinch to zoom and drag to rotate",
	Long: `heartsketch tracks your index fingertip through a webcam. Trace a heart
and the sketch switches to manipulation mode, where pinching scales the
model and moving your hand rotates it. Reset returns to drawing.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.heartsketch/config.yaml)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// loadConfig reads the config file named by --config, or the default one.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, config.DataDirName, "config.yaml")
		}
	}
	return config.Load(path)
}
