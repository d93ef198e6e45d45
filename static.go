package tune

import (
	"sort"

	"github.com/goliatone/go-tune/internal/coerce"
)

// Static is a fixed-schema record whose field access routes through the
// read/write primitives instead of touching backing storage directly. Loads
// write the resolved value back immediately, which is what lets capability
// values react to being read (a Walk drifts, a Bounded re-clamps).
type Static struct {
	fields map[string]any
	order  []string
}

// NewStatic declares a static storage record with the given initial fields.
func NewStatic(fields map[string]any) *Static {
	copied := make(map[string]any, len(fields))
	order := make([]string, 0, len(fields))
	for name, value := range fields {
		copied[name] = value
		order = append(order, name)
	}
	sort.Strings(order)
	return &Static{fields: copied, order: order}
}

// Get returns the raw stored value for name. Part of the Container
// interface; most callers want Load instead.
func (s *Static) Get(name string) (any, bool) {
	value, ok := s.fields[name]
	return value, ok
}

// Set stores a raw value under name. Part of the Container interface.
func (s *Static) Set(name string, value any) {
	if _, ok := s.fields[name]; !ok {
		s.order = append(s.order, name)
		sort.Strings(s.order)
	}
	s.fields[name] = value
}

// Fields returns the declared field names in sorted order.
func (s *Static) Fields() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Load reads the field through the transaction and override machinery and
// writes the resolved value back. Missing fields load as nil.
func (s *Static) Load(e *Env, name string) any {
	value, ok := e.Read(s, name)
	if !ok {
		return nil
	}
	e.Write(s, name, value)
	return value
}

// Store writes value to the field through the transaction and override
// machinery and returns the stored value.
func (s *Static) Store(e *Env, name string, value any) any {
	return e.Write(s, name, value)
}

// Float loads the field and coerces it to float64. Non-numeric and missing
// fields load as 0.
func (s *Static) Float(e *Env, name string) float64 {
	f, _ := coerce.Float(s.Load(e, name))
	return f
}

// Bool loads the field and coerces it to bool. Numeric fields count as true
// when non-zero.
func (s *Static) Bool(e *Env, name string) bool {
	b, _ := coerce.Bool(s.Load(e, name))
	return b
}

// Add increments a numeric field by delta and returns the stored sum.
func (s *Static) Add(e *Env, name string, delta float64) float64 {
	sum := s.Float(e, name) + delta
	s.Store(e, name, sum)
	return sum
}

// BindStatic declares static storage for a computation: fn receives the same
// Static record on every invocation, so journaled runs buffer and goal
// searches tune its fields.
func BindStatic(fields map[string]any, fn func(e *Env, s *Static, args ...any) (any, error)) Computation {
	s := NewStatic(fields)
	return func(e *Env, args ...any) (any, error) {
		return fn(e, s, args...)
	}
}
