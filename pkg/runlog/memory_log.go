package runlog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLog is the in-memory Log implementation. Records are returned in
// append order.
type MemoryLog struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryLog constructs an empty log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Append stores a copy of record, assigning an ID and timestamp when missing.
func (l *MemoryLog) Append(_ context.Context, record Record) (Record, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now()
	}
	record.Metadata = cloneMetadata(record.Metadata)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	return record, nil
}

// List returns a defensive copy of all records.
func (l *MemoryLog) List(_ context.Context) ([]Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out, nil
}

// Len returns the number of stored records.
func (l *MemoryLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// ByVerb returns all records with the given verb, in append order.
func (l *MemoryLog) ByVerb(verb string) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Record
	for _, record := range l.records {
		if record.Verb == verb {
			out = append(out, record)
		}
	}
	return out
}

func cloneMetadata(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
