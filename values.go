package tune

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-tune/internal/coerce"
)

// ErrInvalidBounds indicates a Bounded was constructed with its lower bound
// above its upper bound.
var ErrInvalidBounds = errors.New("tune: lower bound exceeds upper bound")

// Bounded is a float constrained to [lo, hi]. Reading returns the wrapped
// value clamped into range, or a fresh uniform draw from the range when no
// value is wrapped. Writing stores into the wrapped value; clamping happens
// on read only.
type Bounded struct {
	lo, hi float64
	v      any
	table  Table
}

// NewBounded wraps v into [lo, hi]. Pass nil for v to sample the range on
// every read.
func NewBounded(lo, hi float64, v any) (*Bounded, error) {
	if hi < lo {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrInvalidBounds, lo, hi)
	}
	b := &Bounded{lo: lo, hi: hi, v: v}
	b.table = Table{
		OpRead: func(e *Env, _ ...any) (any, bool) {
			return b.read(e), true
		},
		OpWrite: func(e *Env, args ...any) (any, bool) {
			b.write(e, writeArg(args))
			return b, true
		},
	}
	return b, nil
}

// MustBounded is NewBounded for statically known bounds.
func MustBounded(lo, hi float64, v any) *Bounded {
	b, err := NewBounded(lo, hi, v)
	if err != nil {
		panic(err)
	}
	return b
}

// Overrides implements Overridable.
func (b *Bounded) Overrides() Table { return b.table }

// Bounds returns the inclusive range.
func (b *Bounded) Bounds() (lo, hi float64) { return b.lo, b.hi }

func (b *Bounded) read(e *Env) any {
	if b.v == nil {
		return e.Uniform(b.lo, b.hi)
	}
	raw := e.ReadValue(b.v)
	f, ok := coerce.Float(raw)
	if !ok {
		return raw
	}
	if f < b.lo {
		return b.lo
	}
	if f > b.hi {
		return b.hi
	}
	return f
}

func (b *Bounded) write(e *Env, next any) {
	if b.v == nil {
		return
	}
	b.v = e.WriteValue(b.v, next)
}

// Walk is a drifting number: reading returns value plus a fresh read of the
// delta term. Writing stores into the value and leaves the delta untouched,
// so subsequent reads keep perturbing.
type Walk struct {
	v, d  any
	table Table
}

// NewWalk builds a Walk over value and delta; either may itself be a
// capability value.
func NewWalk(value, delta any) *Walk {
	w := &Walk{v: value, d: delta}
	w.table = Table{
		OpRead: func(e *Env, _ ...any) (any, bool) {
			base, _ := coerce.Float(e.ReadValue(w.v))
			drift, _ := coerce.Float(e.ReadValue(w.d))
			return base + drift, true
		},
		OpWrite: func(e *Env, args ...any) (any, bool) {
			w.v = e.WriteValue(w.v, writeArg(args))
			return w, true
		},
	}
	return w
}

// Overrides implements Overridable.
func (w *Walk) Overrides() Table { return w.table }

// Prob is a boolean with a known success probability. Reading returns a
// Bernoulli draw; writing stores 1.0 or 0.0 into the probability term.
type Prob struct {
	p     any
	table Table
}

// NewProb builds a Prob over p, which may itself be a capability value.
func NewProb(p any) *Prob {
	pr := &Prob{p: p}
	pr.table = Table{
		OpRead: func(e *Env, _ ...any) (any, bool) {
			chance, _ := coerce.Float(e.ReadValue(pr.p))
			return e.rand.Float64() < chance, true
		},
		OpWrite: func(e *Env, args ...any) (any, bool) {
			truth, _ := coerce.Bool(writeArg(args))
			stored := 0.0
			if truth {
				stored = 1.0
			}
			pr.p = e.WriteValue(pr.p, stored)
			return pr, true
		},
	}
	return pr
}

// Overrides implements Overridable.
func (p *Prob) Overrides() Table { return p.table }

// If selects between two branches on a boolean condition. The condition is
// evaluated through ReadValue for reads and writes alike, so within one
// transaction a memoized condition routes both the same way.
type If struct {
	cond, then, els any
	table           Table
}

// NewIf builds a conditional selector over condition, then, and else values.
func NewIf(condition, then, els any) *If {
	f := &If{cond: condition, then: then, els: els}
	f.table = Table{
		OpRead: func(e *Env, _ ...any) (any, bool) {
			if f.truth(e) {
				return e.ReadValue(f.then), true
			}
			return e.ReadValue(f.els), true
		},
		OpWrite: func(e *Env, args ...any) (any, bool) {
			next := writeArg(args)
			if f.truth(e) {
				f.then = e.WriteValue(f.then, next)
			} else {
				f.els = e.WriteValue(f.els, next)
			}
			return f, true
		},
	}
	return f
}

// Overrides implements Overridable.
func (f *If) Overrides() Table { return f.table }

func (f *If) truth(e *Env) bool {
	b, _ := coerce.Bool(e.ReadValue(f.cond))
	return b
}

// writeArg extracts the incoming value from a write override's (previous,
// next) argument pair.
func writeArg(args []any) any {
	if len(args) < 2 {
		return nil
	}
	return args[1]
}
