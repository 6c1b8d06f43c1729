package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xvierd/taskpulse/internal/ports"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// DatabaseFile is the SQLite file name inside the data directory.
const DatabaseFile = "taskpulse.db"

// Open returns the record store for backend rooted at dataDir. An empty
// backend selects the JSON files.
func Open(backend, dataDir string) (ports.RecordStore, error) {
	switch backend {
	case "", BackendJSON:
		return NewJSON(dataDir)
	case BackendSQLite:
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		return NewSQLite(filepath.Join(dataDir, DatabaseFile))
	default:
		return nil, fmt.Errorf("unknown storage backend %q: must be json or sqlite", backend)
	}
}
