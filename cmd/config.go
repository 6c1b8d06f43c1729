package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/taskpulse/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit the configuration file",
	Long: `View and edit ~/.taskpulse/config.toml: cycle lengths, quick presets,
notifications, storage backend, logging and theme colors.`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every configuration key and its value",
	RunE: func(cmd *cobra.Command, args []string) error {
		values := make(map[string]string)
		for _, key := range config.Keys() {
			v, err := config.Get(app.configPath, key)
			if err != nil {
				return err
			}
			values[key] = v
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, values)
		}
		for _, key := range config.Keys() {
			fmt.Fprintf(out, "%-30s %s\n", key, values[key])
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.Get(app.configPath, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]string{args[0]: v})
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one configuration value",
	Long: `Change one configuration value. Durations take Go syntax ("25m",
"90s"); quick_minutes takes a comma separated list ("5,15,25").`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Set(app.configPath, args[0], args[1]); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		app.logger.Info("config updated", "key", args[0], "value", args[1])
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]string{args[0]: args[1]})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s = %s\n", args[0], args[1])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), app.configPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configListCmd, configGetCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
