package tune

// Op identifies a checked operation. Override tables are keyed by operation
// identity rather than by value type, so any value can opt into any known
// operation. Identities are pointers so two operations with the same name
// remain distinct.
type Op struct {
	name string
}

// NewOp creates a fresh operation identity. The name is informational only.
func NewOp(name string) *Op {
	return &Op{name: name}
}

// String returns the operation's informational name.
func (o *Op) String() string {
	if o == nil {
		return "<nil>"
	}
	return o.name
}

// Canonical operations consulted by the read/write primitives.
var (
	OpRead  = NewOp("read")
	OpWrite = NewOp("write")
)

// Override customizes one operation for the value that carries it. Returning
// ok=false defers to the operation's default body; ok=true decides the
// result, even when that result is nil. Deferral and a legitimate nil result
// are distinct outcomes.
type Override func(e *Env, args ...any) (result any, ok bool)

// Table maps operation identities to overrides. Attached per value so
// different instances can in principle override differently.
type Table map[*Op]Override

// Overridable is implemented by values that carry an override table.
type Overridable interface {
	Overrides() Table
}

// Resolve scans candidates in argument order and returns the first decided
// result from any candidate's override for op. Candidates past the first
// match are not consulted. ok=false means no candidate overrides op, or all
// of them deferred.
func (e *Env) Resolve(op *Op, candidates []any, args ...any) (any, bool) {
	for _, candidate := range candidates {
		value, ok := candidate.(Overridable)
		if !ok {
			continue
		}
		override := value.Overrides()[op]
		if override == nil {
			continue
		}
		if result, decided := override(e, args...); decided {
			return result, true
		}
	}
	return nil, false
}

// CheckedFunc is the default body of a checked operation.
type CheckedFunc func(e *Env, args ...any) (any, error)

// Checked wraps a function with its own operation identity so arguments can
// override it. On every call the arguments are scanned in order; the first
// decided override result is returned in place of the default body.
type Checked struct {
	op *Op
	fn CheckedFunc
}

// NewChecked builds a checked operation around fn. Each call mints a fresh
// operation identity.
func NewChecked(name string, fn CheckedFunc) *Checked {
	return &Checked{op: NewOp(name), fn: fn}
}

// Op returns the operation identity values key their overrides by.
func (c *Checked) Op() *Op {
	return c.op
}

// Call consults argument overrides for this operation before running the
// default body.
func (c *Checked) Call(e *Env, args ...any) (any, error) {
	if result, ok := e.Resolve(c.op, args, args...); ok {
		return result, nil
	}
	if c.fn == nil {
		return nil, nil
	}
	return c.fn(e, args...)
}
