// Package domain contains the core business entities for TaskPulse.
// These entities represent the fundamental concepts of the focus timer
// and are independent of any external frameworks or infrastructure.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// RecordVersion is written to the meta section of a new tasks record.
const RecordVersion = "1.0.0"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusActive    TaskStatus = "active"
	StatusCompleted TaskStatus = "completed"
)

// Task is one entry of the persisted task list.
type Task struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Type      string            `json:"type"`
	Params    map[string]string `json:"params"`
	CreatedAt time.Time         `json:"created_at"`
	Status    TaskStatus        `json:"status"`
}

// NewTask creates a new active task with the given title.
func NewTask(title, taskType string, params map[string]string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTaskTitle
	}
	if taskType == "" {
		taskType = "manual"
	}
	if params == nil {
		params = map[string]string{}
	}
	return &Task{
		ID:        generateID(),
		Title:     title,
		Type:      taskType,
		Params:    params,
		CreatedAt: time.Now(),
		Status:    StatusActive,
	}, nil
}

// UserConfig holds the user-facing toggles kept with the task list.
type UserConfig struct {
	EngineerMode    bool `json:"engineer_mode"`
	AutoStart       bool `json:"auto_start"`
	AutoChain       bool `json:"auto_chain"`
	TestMode        bool `json:"test_mode"`
	DeepseekEnabled bool `json:"deepseek_enabled"`
}

// Setting names accepted by UserConfig.Set.
const (
	SettingEngineerMode    = "engineer_mode"
	SettingAutoStart       = "auto_start"
	SettingAutoChain       = "auto_chain"
	SettingTestMode        = "test_mode"
	SettingDeepseekEnabled = "deepseek_enabled"
)

// SettingNames lists the keys of UserConfig in record order.
var SettingNames = []string{SettingEngineerMode, SettingAutoStart, SettingAutoChain, SettingTestMode, SettingDeepseekEnabled}

// Get returns the value of a named setting.
func (c UserConfig) Get(key string) (bool, error) {
	switch key {
	case SettingEngineerMode:
		return c.EngineerMode, nil
	case SettingAutoStart:
		return c.AutoStart, nil
	case SettingAutoChain:
		return c.AutoChain, nil
	case SettingTestMode:
		return c.TestMode, nil
	case SettingDeepseekEnabled:
		return c.DeepseekEnabled, nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownSetting, key)
}

// Set updates a named setting.
func (c *UserConfig) Set(key string, value bool) error {
	switch key {
	case SettingEngineerMode:
		c.EngineerMode = value
	case SettingAutoStart:
		c.AutoStart = value
	case SettingAutoChain:
		c.AutoChain = value
	case SettingTestMode:
		c.TestMode = value
	case SettingDeepseekEnabled:
		c.DeepseekEnabled = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	return nil
}

// RecordMeta describes the tasks record itself.
type RecordMeta struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskRecord is the persisted tasks + user config record.
type TaskRecord struct {
	Tasks      []*Task    `json:"tasks"`
	UserConfig UserConfig `json:"user_config"`
	Meta       RecordMeta `json:"meta"`
}

// NewTaskRecord returns the record written on first use.
func NewTaskRecord(now time.Time) *TaskRecord {
	return &TaskRecord{
		Tasks: []*Task{},
		Meta: RecordMeta{
			Version:   RecordVersion,
			CreatedAt: now,
		},
	}
}
