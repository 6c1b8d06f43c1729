package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/taskpulse/internal/adapters/storage"
	"github.com/xvierd/taskpulse/internal/config"
	"github.com/xvierd/taskpulse/internal/logging"
	"github.com/xvierd/taskpulse/internal/services"
)

// executeCmd is a helper to execute a cobra command in tests
func executeCmd(cmd *cobra.Command, args ...string) (stdout string, stderr string, err error) {
	bufOut := new(bytes.Buffer)
	bufErr := new(bytes.Buffer)

	cmd.SetOut(bufOut)
	cmd.SetErr(bufErr)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return bufOut.String(), bufErr.String(), err
}

// testEnv is an isolated config file and data directory.
type testEnv struct {
	configPath string
	dataDir    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		configPath: filepath.Join(dir, "config.toml"),
		dataDir:    filepath.Join(dir, "data"),
	}
	cfg := config.DefaultConfig()
	cfg.Notifications.Enabled = false
	require.NoError(t, config.SaveTo(env.configPath, cfg))
	return env
}

// run executes the root command with fresh flag values against env.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	full := append([]string{"--config", e.configPath, "--data-dir", e.dataDir}, args...)
	stdout, _, err := executeCmd(rootCmd, full...)
	if err != nil {
		_ = cleanupServices()
	}
	return stdout, err
}

// seedCompletions records pomodoros straight into env's data directory.
func (e *testEnv) seedCompletions(t *testing.T, when time.Time, names ...string) {
	t.Helper()
	store, err := storage.Open(storage.BackendJSON, e.dataDir)
	require.NoError(t, err)
	defer store.Close()

	stats := services.NewStatsService(store, logging.Discard())
	for _, name := range names {
		stats.RecordCompletion(context.Background(), name, when)
	}
}

func resetFlags() {
	configPath, dataDir, jsonOutput, tuiTestMode = "", "", false, false
	addType, addParams = "manual", nil
	listStatus = ""
	deleteYes = false
	startMinutes, startKind, startSnap = 0, "pomodoro", false
	statsWeeks = 0
	tagsLimit, tagsClearYes = 0, false
	exportFormat, exportPeriod = "md", "week"
}

func decodeJSON(t *testing.T, out string, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(out), v), "output: %s", out)
}

func TestRootCmd_Structure(t *testing.T) {
	if rootCmd.Use != "taskpulse" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "taskpulse")
	}

	want := []string{"start", "stats", "tags", "task", "settings", "config", "export", "mcp"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCmd_Help(t *testing.T) {
	resetFlags()
	stdout, _, err := executeCmd(rootCmd, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	if !strings.Contains(stdout, "taskpulse") {
		t.Error("help output should contain 'taskpulse'")
	}
}

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"config", "data-dir", "json"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("--%s flag should be registered", name)
		}
	}
	if rootCmd.Flags().Lookup("test-mode") == nil {
		t.Error("--test-mode flag should be registered")
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"30 seconds", 30 * time.Second, "30s"},
		{"25 minutes", 25 * time.Minute, "25m"},
		{"60 minutes", 60 * time.Minute, "1h"},
		{"90 minutes", 90 * time.Minute, "1h30m"},
		{"120 minutes", 120 * time.Minute, "2h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatMinutes(tt.d); got != tt.want {
				t.Errorf("formatMinutes(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestTaskCommands(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "task", "add", "Review", "pull", "request", "--param", "repo=focus-notes", "--json")
	require.NoError(t, err)
	var added struct {
		ID     string            `json:"id"`
		Title  string            `json:"title"`
		Type   string            `json:"type"`
		Params map[string]string `json:"params"`
		Status string            `json:"status"`
	}
	decodeJSON(t, out, &added)
	assert.Equal(t, "Review pull request", added.Title)
	assert.Equal(t, "manual", added.Type)
	assert.Equal(t, "focus-notes", added.Params["repo"])
	assert.Equal(t, "active", added.Status)

	_, err = env.run(t, "task", "add", "Write docs")
	require.NoError(t, err)

	out, err = env.run(t, "task", "list", "--json")
	require.NoError(t, err)
	var listed struct {
		Count int `json:"count"`
	}
	decodeJSON(t, out, &listed)
	assert.Equal(t, 2, listed.Count)

	out, err = env.run(t, "task", "find", "rvw")
	require.NoError(t, err)
	assert.Contains(t, out, "Review pull request")
	assert.NotContains(t, out, "Write docs")

	out, err = env.run(t, "task", "delete", added.ID, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	_, err = env.run(t, "task", "delete", added.ID, "--yes")
	assert.Error(t, err)

	out, err = env.run(t, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Tasks (1)")
}

func TestTaskAdd_RequiresTitle(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"no args", []string{}, true},
		{"single word", []string{"task"}, false},
		{"multi word", []string{"my", "task", "name"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := addCmd.Args(addCmd, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("Args(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestSettingsCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "settings", "auto_start", "on", "--json")
	require.NoError(t, err)
	var values map[string]bool
	decodeJSON(t, out, &values)
	assert.Equal(t, map[string]bool{"auto_start": true}, values)

	out, err = env.run(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "auto_start")
	assert.Contains(t, out, "auto_chain")
	assert.Contains(t, out, "engineer_mode")

	_, err = env.run(t, "settings", "dark_mode", "on")
	assert.Error(t, err)

	_, err = env.run(t, "settings", "test_mode", "maybe")
	assert.Error(t, err)
}

func TestParseToggle(t *testing.T) {
	for in, want := range map[string]bool{"on": true, "ON": true, "yes": true, "true": true, "1": true, "off": false, "no": false, "false": false} {
		got, err := parseToggle(in)
		if err != nil || got != want {
			t.Errorf("parseToggle(%q) = %v, %v", in, got, err)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "config", "set", "pomodoro.work_duration", "30m")
	require.NoError(t, err)

	out, err := env.run(t, "config", "get", "pomodoro.work_duration")
	require.NoError(t, err)
	assert.Equal(t, "30m", strings.TrimSpace(out))

	out, err = env.run(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, env.configPath, strings.TrimSpace(out))

	out, err = env.run(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "storage.backend")

	_, err = env.run(t, "config", "set", "pomodoro.nope", "1")
	assert.Error(t, err)
}

func TestTagsCommands(t *testing.T) {
	env := newTestEnv(t)
	env.seedCompletions(t, time.Now(), "Write docs", "Write docs", "Review")

	out, err := env.run(t, "tags", "--json")
	require.NoError(t, err)
	var ranking struct {
		Ranking []struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"ranking"`
	}
	decodeJSON(t, out, &ranking)
	require.Len(t, ranking.Ranking, 2)
	assert.Equal(t, "Write docs", ranking.Ranking[0].Name)
	assert.Equal(t, 2, ranking.Ranking[0].Count)

	out, err = env.run(t, "tags", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Write docs")
	assert.NotContains(t, out, "Review")

	_, err = env.run(t, "tags", "clear", "--yes")
	require.NoError(t, err)

	out, err = env.run(t, "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "No completed pomodoros yet.")

	out, err = env.run(t, "stats", "--json")
	require.NoError(t, err)
	var stats struct {
		Today int `json:"today"`
	}
	decodeJSON(t, out, &stats)
	assert.Equal(t, 3, stats.Today, "clearing tags keeps the daily counts")
}

func TestStatsCommand_Text(t *testing.T) {
	env := newTestEnv(t)
	env.seedCompletions(t, time.Now(), "Write docs")

	out, err := env.run(t, "stats", "--weeks", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "1 pomodoros")
	assert.Contains(t, out, "in 4 weeks")
	assert.Contains(t, out, "Write docs")
}

func TestExportCommand(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()
	env.seedCompletions(t, now, "Write docs", "Write docs")
	env.seedCompletions(t, now.AddDate(0, -2, 0), "Old work")

	out, err := env.run(t, "export", "--format", "csv", "--period", "all")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,pomodoros", lines[0])
	assert.Equal(t, now.AddDate(0, -2, 0).Format("2006-01-02")+",1", lines[1])
	assert.Equal(t, now.Format("2006-01-02")+",2", lines[2])

	out, err = env.run(t, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "# TaskPulse Export")
	assert.Contains(t, out, "Total: 2")
	assert.Contains(t, out, "1. Write docs (2)")

	_, err = env.run(t, "export", "--format", "xml")
	assert.Error(t, err)
}

func TestStartCommand_ManualRunsToCompletion(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "start", "Quick check", "--kind", "manual", "--minutes", "0.02")
	require.NoError(t, err)
	assert.Contains(t, out, "Focus complete!")
	assert.Contains(t, out, "Quick check")
}

func TestStartCommand_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "start", "Quick", "--kind", "nap")
	assert.Error(t, err)

	_, err = env.run(t, "start", "Quick", "--minutes", "-1")
	assert.Error(t, err)
}
