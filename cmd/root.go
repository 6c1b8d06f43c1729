// Package cmd provides the CLI commands for the TaskPulse application.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/taskpulse/internal/adapters/tui"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	configPath string
	dataDir    string
	jsonOutput bool

	tuiTestMode bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskpulse",
	Short: "TaskPulse - countdown sessions, pomodoros and focus statistics",
	Long: `TaskPulse runs several countdown sessions side by side, chains
pomodoros and breaks, and keeps daily and per-task statistics.

Run "taskpulse" with no arguments to open the interactive dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_ = cleanupServices()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.taskpulse/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding the statistics and task records")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.Flags().BoolVar(&tuiTestMode, "test-mode", false, "Offer a 5-second preset for trying out completions")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("TaskPulse\nVersion: {{.Version}}\n")
}

// runTUI opens the full-screen dashboard.
func runTUI(cmd *cobra.Command, args []string) error {
	ctx := setupSignalHandler()

	userCfg, err := app.tasks.UserConfig(ctx)
	if err != nil {
		app.logger.Warn("user config unavailable", "error", err)
	}

	return tui.Run(ctx, tui.Options{
		Tracker:      newTracker(),
		Stats:        app.stats,
		Config:       app.config,
		TaskTitles:   knownTitles(ctx),
		DefaultTitle: defaultTitle(ctx),
		TestMode:     tuiTestMode || userCfg.TestMode,
		Logger:       app.logger,
	})
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// formatMinutes formats a duration as a human-friendly string like "25m" or "1h30m".
func formatMinutes(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d >= time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}
