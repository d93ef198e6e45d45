package activity

import (
	"time"

	"github.com/google/uuid"
)

// TuneEventInput describes the common fields for tuning lifecycle events.
type TuneEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Recipients []string
	Metadata   map[string]any
	EffectID   string
	GoalID     string
	Mode       string
	Score      *float64
	Tries      int
	Optimized  bool
	OccurredAt time.Time
}

// BuildGoalCompletedEvent constructs a normalized activity event for a
// finished goal invocation.
func BuildGoalCompletedEvent(input TuneEventInput) Event {
	return buildTuneEvent("tune.goal.completed", "tune.goal", input)
}

// BuildRunCommittedEvent constructs an activity event for an effect set
// applied to live storage.
func BuildRunCommittedEvent(input TuneEventInput) Event {
	return buildTuneEvent("tune.run.committed", "tune.run", input)
}

// BuildStrategyRegisteredEvent constructs an activity event for an optimizer
// registration against an open goal.
func BuildStrategyRegisteredEvent(input TuneEventInput) Event {
	return buildTuneEvent("tune.strategy.registered", "tune.strategy", input)
}

func buildTuneEvent(verb, objectType string, input TuneEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.GoalID != "" {
		metadata = ensureMetadata(metadata)
		metadata["goal_id"] = input.GoalID
	}
	if input.Mode != "" {
		metadata = ensureMetadata(metadata)
		metadata["mode"] = input.Mode
	}
	if input.Score != nil {
		metadata = ensureMetadata(metadata)
		metadata["score"] = *input.Score
	}
	if input.Tries > 0 {
		metadata = ensureMetadata(metadata)
		metadata["tries"] = input.Tries
	}
	if input.Optimized {
		metadata = ensureMetadata(metadata)
		metadata["optimized"] = true
	}

	objectID := input.EffectID
	if objectID == "" {
		objectID = uuid.NewString()
	}

	return Event{
		Verb:       verb,
		ActorID:    input.ActorID,
		UserID:     input.UserID,
		TenantID:   input.TenantID,
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    input.Channel,
		RunID:      input.EffectID,
		Recipients: append([]string(nil), input.Recipients...),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return map[string]any{}
	}
	return metadata
}
