package runlog

import (
	"context"
	"errors"
	"time"
)

var ErrNilLog = errors.New("runlog: log is required")

// Record is one logged tuning occurrence.
type Record struct {
	ID         string         `json:"id"`
	Verb       string         `json:"verb"`
	ObjectType string         `json:"object_type"`
	ObjectID   string         `json:"object_id"`
	RunID      string         `json:"run_id,omitempty"`
	Channel    string         `json:"channel,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Log appends and lists records for a single process lifetime.
type Log interface {
	Append(ctx context.Context, record Record) (Record, error)
	List(ctx context.Context) ([]Record, error)
}
