// Package ports defines the interfaces (driven and driving ports)
// for the TaskPulse application following hexagonal architecture principles.
// These interfaces define the contracts between the core services and
// external infrastructure.
package ports

import (
	"context"
	"errors"
)

// Record names understood by every RecordStore.
const (
	RecordTasks      = "tasks"
	RecordDailyStats = "daily_stats"
	RecordTagStats   = "tag_stats"
)

// ErrRecordNotFound is returned by Load when a record was never saved.
var ErrRecordNotFound = errors.New("record not found")

// RecordStore is durable key-value storage for whole JSON records.
// This is a driven port (implemented by adapters).
type RecordStore interface {
	// Load decodes the named record into dst.
	Load(ctx context.Context, name string, dst any) error

	// Save replaces the named record with src.
	Save(ctx context.Context, name string, src any) error

	// Close releases the underlying resources.
	Close() error
}
