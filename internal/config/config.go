// Package config provides configuration management for TaskPulse.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/taskpulse/internal/domain"
)

// AppDirName is the directory under $HOME holding config and data.
const AppDirName = ".taskpulse"

// Config holds all configuration for the TaskPulse application.
type Config struct {
	Pomodoro      PomodoroConfig     `mapstructure:"pomodoro"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Log           LogConfig          `mapstructure:"log"`
	UI            UIConfig           `mapstructure:"ui"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// PomodoroConfig holds pomodoro timer settings.
type PomodoroConfig struct {
	WorkDuration       Duration `mapstructure:"work_duration"`
	ShortBreak         Duration `mapstructure:"short_break"`
	LongBreak          Duration `mapstructure:"long_break"`
	SessionsBeforeLong int      `mapstructure:"sessions_before_long"`
	QuickMinutes       []int    `mapstructure:"quick_minutes"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	TickInterval Duration `mapstructure:"tick_interval"`
	HeatmapWeeks int      `mapstructure:"heatmap_weeks"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorPomodoro string `mapstructure:"color_pomodoro"`
	ColorBreak    string `mapstructure:"color_break"`
	ColorManual   string `mapstructure:"color_manual"`
	ColorTitle    string `mapstructure:"color_title"`
	ColorHelp     string `mapstructure:"color_help"`
	HeatLow       string `mapstructure:"heat_low"`
	HeatHigh      string `mapstructure:"heat_high"`
	IconApp       string `mapstructure:"icon_app"`
	IconStats     string `mapstructure:"icon_stats"`
	IconDone      string `mapstructure:"icon_done"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorPomodoro: "#E06C75",
		ColorBreak:    "#4ECDC4",
		ColorManual:   "#7C6FE0",
		ColorTitle:    "#6B7280",
		ColorHelp:     "#95A5A6",
		HeatLow:       "#0E4429",
		HeatHigh:      "#39D353",
		IconApp:       "🍅",
		IconStats:     "📊",
		IconDone:      "✔",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Pomodoro: PomodoroConfig{
			WorkDuration:       Duration(25 * time.Minute),
			ShortBreak:         Duration(5 * time.Minute),
			LongBreak:          Duration(15 * time.Minute),
			SessionsBeforeLong: 4,
			QuickMinutes:       []int{5, 15, 25, 45, 60, 90, 120},
		},
		Notifications: NotificationConfig{Enabled: true},
		Storage: StorageConfig{
			Backend: "json",
			DataDir: "~/" + AppDirName,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		UI: UIConfig{
			TickInterval: Duration(time.Second),
			HeatmapWeeks: 12,
		},
		Theme: DefaultThemeConfig(),
	}
}

// ErrInvalidConfig is returned with the default configuration when the
// config file cannot be read or decoded.
var ErrInvalidConfig = errors.New("invalid config file, using defaults")

// Load loads the configuration from ~/.taskpulse/config.toml, creating
// it with defaults when missing.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath, creating it with
// defaults when missing.
func LoadFrom(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(configPath)
	cfg, err := read(v)
	if err != nil {
		cfg = DefaultConfig()
		err = fmt.Errorf("%w: %s: %v", ErrInvalidConfig, configPath, err)
	}
	if expandErr := cfg.expandDataDir(); expandErr != nil {
		return nil, expandErr
	}
	return cfg, err
}

func read(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return decode(v)
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg to configPath.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)
	for key, value := range cfg.values() {
		v.Set(key, value)
	}
	return v.WriteConfigAs(configPath)
}

// Get returns the string form of a single key from the config file.
func Get(configPath, key string) (string, error) {
	if !isKnownKey(key) {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read config: %w", err)
	}
	return fmt.Sprint(v.Get(key)), nil
}

// Set updates a single key in the config file. The value is parsed
// according to the key's type and the result must still decode.
func Set(configPath, key, value string) error {
	def, ok := DefaultConfig().values()[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	parsed, err := parseValue(def, value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	v.Set(key, parsed)
	if _, err := decode(v); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return v.WriteConfigAs(configPath)
}

func parseValue(def interface{}, value string) (interface{}, error) {
	value = strings.TrimSpace(value)
	switch def.(type) {
	case bool:
		return strconv.ParseBool(value)
	case int:
		return strconv.Atoi(value)
	case []int:
		var out []int
		for _, part := range strings.Split(value, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	default:
		return value, nil
	}
}

// Keys lists every supported config key in sorted order.
func Keys() []string {
	values := DefaultConfig().values()
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, AppDirName, "config.toml"), nil
}

// LogPath returns the path of the log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Storage.DataDir, "taskpulse.log")
}

// ToPomodoroConfig converts the config to the domain PomodoroConfig.
func (c *Config) ToPomodoroConfig() domain.PomodoroConfig {
	cfg := domain.PomodoroConfig{
		WorkDuration:       time.Duration(c.Pomodoro.WorkDuration),
		ShortBreakDuration: time.Duration(c.Pomodoro.ShortBreak),
		LongBreakDuration:  time.Duration(c.Pomodoro.LongBreak),
		SessionsBeforeLong: c.Pomodoro.SessionsBeforeLong,
	}
	defaults := domain.DefaultPomodoroConfig()
	if cfg.WorkDuration <= 0 {
		cfg.WorkDuration = defaults.WorkDuration
	}
	if cfg.ShortBreakDuration <= 0 {
		cfg.ShortBreakDuration = defaults.ShortBreakDuration
	}
	if cfg.LongBreakDuration <= 0 {
		cfg.LongBreakDuration = defaults.LongBreakDuration
	}
	if cfg.SessionsBeforeLong <= 0 {
		cfg.SessionsBeforeLong = defaults.SessionsBeforeLong
	}
	return cfg
}

// TickInterval returns the UI refresh interval. Values below 100ms
// fall back to one second and longer values are capped at one second.
func (c *Config) TickInterval() time.Duration {
	d := time.Duration(c.UI.TickInterval)
	if d < 100*time.Millisecond || d > time.Second {
		return time.Second
	}
	return d
}

func (c *Config) expandDataDir() error {
	dir := c.Storage.DataDir
	if dir == "" || dir == "~" || strings.HasPrefix(dir, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		rest := strings.TrimPrefix(strings.TrimPrefix(dir, "~"), "/")
		if rest == "" {
			rest = AppDirName
		}
		c.Storage.DataDir = filepath.Join(homeDir, rest)
	}
	return nil
}

// values flattens the config into viper keys.
func (c *Config) values() map[string]interface{} {
	return map[string]interface{}{
		"pomodoro.work_duration":        c.Pomodoro.WorkDuration.String(),
		"pomodoro.short_break":          c.Pomodoro.ShortBreak.String(),
		"pomodoro.long_break":           c.Pomodoro.LongBreak.String(),
		"pomodoro.sessions_before_long": c.Pomodoro.SessionsBeforeLong,
		"pomodoro.quick_minutes":        c.Pomodoro.QuickMinutes,
		"notifications.enabled":         c.Notifications.Enabled,
		"storage.backend":               c.Storage.Backend,
		"storage.data_dir":              c.Storage.DataDir,
		"log.level":                     c.Log.Level,
		"log.format":                    c.Log.Format,
		"ui.tick_interval":              c.UI.TickInterval.String(),
		"ui.heatmap_weeks":              c.UI.HeatmapWeeks,
		"theme.color_pomodoro":          c.Theme.ColorPomodoro,
		"theme.color_break":             c.Theme.ColorBreak,
		"theme.color_manual":            c.Theme.ColorManual,
		"theme.color_title":             c.Theme.ColorTitle,
		"theme.color_help":              c.Theme.ColorHelp,
		"theme.heat_low":                c.Theme.HeatLow,
		"theme.heat_high":               c.Theme.HeatHigh,
		"theme.icon_app":                c.Theme.IconApp,
		"theme.icon_stats":              c.Theme.IconStats,
		"theme.icon_done":               c.Theme.IconDone,
	}
}

func isKnownKey(key string) bool {
	_, ok := DefaultConfig().values()[key]
	return ok
}

// newViper returns a viper instance bound to configPath with every
// default registered.
func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	for key, value := range DefaultConfig().values() {
		v.SetDefault(key, value)
	}
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
