package ports

import "time"

// Scheduler fires a callback once at or after a given time.
// This is a driven port (implemented by adapters).
type Scheduler interface {
	// ScheduleOnce registers fn to run at fireAt. A job already registered
	// under id is replaced.
	ScheduleOnce(id string, fireAt time.Time, fn func())

	// Cancel removes the job registered under id. Unknown ids are ignored.
	Cancel(id string)

	// Shutdown cancels every pending job.
	Shutdown()
}
