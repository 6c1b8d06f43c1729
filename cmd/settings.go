package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/taskpulse/internal/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings [key] [on|off]",
	Short: "Show or change the stored user toggles",
	Long: `Show or change the toggles kept with the task list:
engineer_mode, auto_start, auto_chain, test_mode and deepseek_enabled.

auto_chain makes "taskpulse start" chain breaks and pomodoros without
asking. test_mode adds a 5-second preset to the dashboard. auto_start
is the launch-at-login flag and is only stored here.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		if len(args) == 2 {
			value, err := parseToggle(args[1])
			if err != nil {
				return err
			}
			if err := app.tasks.UpdateConfig(ctx, args[0], value); err != nil {
				return fmt.Errorf("failed to update setting: %w", err)
			}
		}

		userCfg, err := app.tasks.UserConfig(ctx)
		if err != nil {
			return fmt.Errorf("failed to read settings: %w", err)
		}

		keys := domain.SettingNames
		if len(args) > 0 {
			keys = args[:1]
		}

		values := make(map[string]bool, len(keys))
		for _, key := range keys {
			v, err := userCfg.Get(key)
			if err != nil {
				return err
			}
			values[key] = v
		}

		if jsonOutput {
			return printJSON(out, values)
		}
		for _, key := range keys {
			state := "off"
			if values[key] {
				state = "on"
			}
			fmt.Fprintf(out, "%-18s %s\n", key, state)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

func parseToggle(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid value %q: use on or off", s)
	}
	return v, nil
}
