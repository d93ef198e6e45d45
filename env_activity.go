package tune

import (
	"context"

	"github.com/goliatone/go-tune/pkg/activity"
)

// WithActivityHooks attaches activity hooks to the Env. Goal completions,
// committed runs, and strategy registrations are fanned out to them. Hooks
// are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *envConfig) {
		cfg.hooks = normalized
	}
}

// WithActivityChannel overrides the default channel stamped on emitted
// events.
func WithActivityChannel(channel string) Option {
	return func(cfg *envConfig) {
		cfg.channel = channel
	}
}

// ActivityIdentity attributes emitted events to an actor, a user feed, and a
// tenant. IDs pass through as strings; sinks that need UUIDs parse them
// (see pkg/activity/usersink).
type ActivityIdentity struct {
	ActorID  string
	UserID   string
	TenantID string
}

// WithActivityIdentity stamps the identity on every emitted event.
func WithActivityIdentity(identity ActivityIdentity) Option {
	return func(cfg *envConfig) {
		cfg.identity = identity
	}
}

// WithActivityRecipients addresses emitted events to the given recipients.
func WithActivityRecipients(recipients ...string) Option {
	return func(cfg *envConfig) {
		cfg.recipients = append([]string(nil), recipients...)
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}

// Hook failures never affect the run that triggered them; emission is
// observation only.

func (e *Env) tuneEventInput(effectID string) activity.TuneEventInput {
	return activity.TuneEventInput{
		ActorID:    e.identity.ActorID,
		UserID:     e.identity.UserID,
		TenantID:   e.identity.TenantID,
		Recipients: e.recipients,
		EffectID:   effectID,
	}
}

func (e *Env) emitRunCommitted(es *EffectSet) {
	if !e.emitter.Enabled() {
		return
	}
	_ = e.emitter.Emit(context.Background(), activity.BuildRunCommittedEvent(e.tuneEventInput(es.ID())))
}

func (e *Env) emitGoalCompleted(baseline *EffectSet, optimized bool) {
	if !e.emitter.Enabled() {
		return
	}
	input := e.tuneEventInput(baseline.ID())
	input.Optimized = optimized
	_ = e.emitter.Emit(context.Background(), activity.BuildGoalCompletedEvent(input))
}

func (e *Env) emitStrategyRegistered() {
	if !e.emitter.Enabled() {
		return
	}
	_ = e.emitter.Emit(context.Background(), activity.BuildStrategyRegisteredEvent(e.tuneEventInput("")))
}
