package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/taskpulse/internal/adapters/tui"
	"github.com/xvierd/taskpulse/internal/domain"
	"github.com/xvierd/taskpulse/internal/services"
)

var (
	startMinutes float64
	startKind    string
	startSnap    bool
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [title]",
	Short: "Run a countdown session in the foreground",
	Long: `Start a countdown and wait for it in the terminal. When it finishes
you are asked what to do next: a pomodoro offers a break, a break offers
the next pomodoro. The command returns once nothing is left running.

Without a title, pomodoros are named after the current git branch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		kind, err := domain.ParseKind(startKind)
		if err != nil {
			return err
		}

		tracker := newTracker()
		minutes := resolveMinutes(kind, tracker.Config(), tracker.PomodoroCount())

		title := strings.TrimSpace(strings.Join(args, " "))
		if title == "" {
			title, err = promptTitle(ctx, kind)
			if err != nil {
				return err
			}
		}

		if _, err := tracker.StartSession(title, minutes, kind); err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		userCfg, err := app.tasks.UserConfig(ctx)
		if err != nil {
			app.logger.Warn("failed to read user config", "error", err)
		}
		choose := chooserFor(userCfg, isInteractive() && !jsonOutput)

		ticker := time.NewTicker(app.config.TickInterval())
		defer ticker.Stop()

		return runForeground(ctx, tracker, cmd.OutOrStdout(), ticker.C, choose)
	},
}

func init() {
	startCmd.Flags().Float64VarP(&startMinutes, "minutes", "m", 0, "Countdown length in minutes, fractions allowed (default depends on kind)")
	startCmd.Flags().StringVarP(&startKind, "kind", "k", string(domain.KindPomodoro), "Session kind: manual, pomodoro or break")
	startCmd.Flags().BoolVar(&startSnap, "snap", false, "Round --minutes onto the 0-120 slider marks")
	rootCmd.AddCommand(startCmd)
}

// resolveMinutes picks the countdown length from --minutes or the kind's default.
func resolveMinutes(kind domain.SessionKind, cfg domain.PomodoroConfig, count int) float64 {
	if startMinutes != 0 {
		if startSnap {
			return float64(domain.SnapMinutes(int(math.Round(startMinutes))))
		}
		return startMinutes
	}
	switch kind {
	case domain.KindBreak:
		return cfg.BreakAfter(count).Minutes()
	default:
		return cfg.WorkDuration.Minutes()
	}
}

func promptTitle(ctx context.Context, kind domain.SessionKind) (string, error) {
	switch kind {
	case domain.KindBreak:
		return "", nil
	case domain.KindPomodoro:
		if title := defaultTitle(ctx); title != "" {
			return title, nil
		}
	}
	if !isInteractive() {
		return "", fmt.Errorf("a title is required for %s sessions", kind)
	}
	res := tui.RunTextPrompt("What are you working on?", "task title", &app.config.Theme)
	if res.Aborted {
		return "", fmt.Errorf("no title given")
	}
	return res.Value, nil
}

// chooseFunc answers a completion prompt.
type chooseFunc func(evt domain.CompletionEvent) domain.Choice

// chooserFor picks how completion prompts are answered: auto_chain
// always takes the first option, otherwise the picker runs when a
// terminal is attached and the prompt is dismissed when not.
func chooserFor(userCfg domain.UserConfig, interactive bool) chooseFunc {
	switch {
	case userCfg.AutoChain:
		return autoChoice
	case interactive:
		return pickChoice
	default:
		return dismissChoice
	}
}

// dismissChoice picks the last option, which never starts a session.
func dismissChoice(evt domain.CompletionEvent) domain.Choice {
	if len(evt.Options) == 0 {
		return ""
	}
	return evt.Options[len(evt.Options)-1].Choice
}

// autoChoice picks the first option, chaining into the next session.
func autoChoice(evt domain.CompletionEvent) domain.Choice {
	if len(evt.Options) == 0 {
		return ""
	}
	return evt.Options[0].Choice
}

func pickChoice(evt domain.CompletionEvent) domain.Choice {
	res := tui.RunPicker(evt.Heading, tui.CompletionItems(evt), evt.Message, &app.config.Theme)
	if res.Aborted {
		return dismissChoice(evt)
	}
	return evt.Options[res.Index].Choice
}

// completionOutput is the JSON form of a completion event.
type completionOutput struct {
	Event         string    `json:"event"`
	SessionID     string    `json:"session_id"`
	Title         string    `json:"title"`
	Kind          string    `json:"kind"`
	FinishedAt    time.Time `json:"finished_at"`
	PomodoroCount int       `json:"pomodoro_count,omitempty"`
	DailyCount    int       `json:"daily_count,omitempty"`
	Choice        string    `json:"choice"`
	NextSessionID string    `json:"next_session_id,omitempty"`
}

// runForeground drives tracker from ticks until no session is running or
// ctx is cancelled. It is the only goroutine touching tracker.
func runForeground(ctx context.Context, tracker *services.SessionTracker, out io.Writer, ticks <-chan time.Time, choose chooseFunc) error {
	for {
		select {
		case <-ctx.Done():
			for _, s := range tracker.Sessions() {
				tracker.CancelSession(s.ID, true)
			}
			fmt.Fprintln(out, "\nStopped.")
			return nil

		case id := <-tracker.FiredC():
			tracker.Fired(id)

		case now := <-ticks:
			tracker.Tick(ctx, now)
			for _, evt := range tracker.DrainCompletions() {
				choice := choose(evt)
				next, err := tracker.Resolve(evt, choice)
				if err != nil {
					return fmt.Errorf("failed to resolve %s: %w", evt.Title, err)
				}
				if err := printCompletion(out, evt, choice, next); err != nil {
					return err
				}
			}

			running := runningSessions(tracker.Sessions())
			if len(running) == 0 {
				return nil
			}
			if !jsonOutput {
				s := running[0]
				fmt.Fprintf(out, "\r%-8s %-30s %s ", s.Kind.Label(), s.Title, formatCmdDuration(s.Remaining(now)))
			}
		}
	}
}

func printCompletion(out io.Writer, evt domain.CompletionEvent, choice domain.Choice, next string) error {
	if jsonOutput {
		data := completionOutput{
			Event:         "completed",
			SessionID:     evt.SessionID,
			Title:         evt.Title,
			Kind:          string(evt.Kind),
			FinishedAt:    evt.FinishedAt,
			PomodoroCount: evt.PomodoroCount,
			DailyCount:    evt.DailyCount,
			Choice:        string(choice),
			NextSessionID: next,
		}
		return printJSON(out, data)
	}

	fmt.Fprintf(out, "\n\n%s\n%s\n", evt.Heading, evt.Message)
	if evt.DailyCount > 0 {
		fmt.Fprintf(out, "%d pomodoro(s) today\n", evt.DailyCount)
	}
	for _, opt := range evt.Options {
		if opt.Choice == choice && next != "" {
			fmt.Fprintf(out, "→ %s\n\n", opt.Label)
		}
	}
	return nil
}

func runningSessions(sessions []domain.Session) []domain.Session {
	var running []domain.Session
	for _, s := range sessions {
		if !s.Finished {
			running = append(running, s)
		}
	}
	return running
}

// formatCmdDuration formats a duration as MM:SS.
func formatCmdDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
