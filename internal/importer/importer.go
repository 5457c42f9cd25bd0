package importer

import "time"

const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Run records one importer invocation. A failed run keeps the counters
// accumulated up to the record that aborted it; the corresponding rows
// stay committed.
type Run struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     *time.Time
	Status         string
	RowsRead       int
	AuthorsCreated int
	BooksCreated   int
	Error          string
}
