package tune

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNilComputation indicates a nil computation was handed to Journal, Goal,
// or a search entry point.
var ErrNilComputation = errors.New("tune: computation must not be nil")

// ErrNilMeasure indicates a search strategy was dispatched without a measure.
var ErrNilMeasure = errors.New("tune: measure must not be nil")

// Computation is a unit of work whose reads and writes route through an Env.
type Computation func(e *Env, args ...any) (any, error)

// EffectSet captures one successful journaled run: the computation's result
// plus the read-memo and write-buffer it produced. Immutable once produced;
// Commit applies it at most once.
type EffectSet struct {
	id      string
	result  any
	reads   *effects
	writes  *effects
	applied bool
}

// ID returns the effect set's provenance identifier.
func (es *EffectSet) ID() string {
	if es == nil {
		return ""
	}
	return es.id
}

// Result returns the captured result without applying any buffered effect.
func (es *EffectSet) Result() any {
	if es == nil {
		return nil
	}
	return es.result
}

// Journal runs fn inside a fresh transaction context and captures its
// buffered effects without applying them. The enclosing context is saved and
// restored on every exit path, so journals nest: an inner journal sees no
// effects from an enclosing in-progress one. A failed computation produces
// no effect set.
func (e *Env) Journal(fn Computation, args ...any) (*EffectSet, error) {
	if fn == nil {
		return nil, ErrNilComputation
	}
	prev := e.txn
	t := newTxn()
	e.txn = t
	defer func() { e.txn = prev }()

	result, err := fn(e, args...)
	if err != nil {
		return nil, err
	}
	return &EffectSet{
		id:     uuid.NewString(),
		result: result,
		reads:  t.reads,
		writes: t.writes,
	}, nil
}

// Commit applies the effect set's buffered writes to live storage and
// returns the captured result. Keyed writes merge into their containers in
// first-touch order; whole-value writes re-dispatch the write override
// against the live value so capability values absorb them. Application
// bypasses any active transaction and happens at most once per effect set.
func (e *Env) Commit(es *EffectSet) any {
	if es == nil {
		return nil
	}
	if es.applied {
		return es.result
	}
	es.applied = true
	// Application is direct storage mutation: it bypasses any transaction
	// that happens to be active around the commit.
	prev := e.txn
	e.txn = nil
	defer func() { e.txn = prev }()
	for _, entry := range es.writes.order {
		if c, ok := entry.container.(Container); ok {
			for _, key := range entry.keyOrder {
				c.Set(key, entry.keys[key])
			}
		}
		if entry.hasWhole {
			// Plain values have no write override and stay transaction-local.
			e.Resolve(OpWrite, []any{entry.container}, entry.container, entry.whole)
		}
	}
	e.emitRunCommitted(es)
	return es.result
}
