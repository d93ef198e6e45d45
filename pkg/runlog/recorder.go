package runlog

import (
	"context"

	"github.com/goliatone/go-tune/pkg/activity"
)

// Recorder bridges the activity hook interface onto a Log.
type Recorder struct {
	Log Log
}

// Notify maps the event into a Record and appends it.
func (r Recorder) Notify(ctx context.Context, event activity.Event) error {
	if r.Log == nil {
		return ErrNilLog
	}
	normalized := activity.NormalizeEvent(event)
	_, err := r.Log.Append(ctx, Record{
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		RunID:      normalized.RunID,
		Channel:    normalized.Channel,
		Metadata:   normalized.Metadata,
		OccurredAt: normalized.OccurredAt,
	})
	return err
}
