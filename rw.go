package tune

// Container is any value addressable by the keyed read/write primitives.
// Implementations are expected to be reference types (pointers or maps) so
// buffered effects can be applied back to them at commit.
type Container interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// Vars is a plain map container, handy for ad-hoc storage in computations
// and tests.
type Vars map[string]any

// Get returns the stored value for key.
func (v Vars) Get(key string) (any, bool) {
	value, ok := v[key]
	return value, ok
}

// Set stores value under key.
func (v Vars) Set(key string, value any) {
	v[key] = value
}

// Read resolves the value stored under (container, key). Inside an active
// transaction the write-buffer is consulted first, then the read-memo; hits
// are returned verbatim, with no override consulted. On a miss the raw
// stored value runs through the read override; a decided result is memoized
// once per (container, key) and returned. Missing entries yield ok=false,
// never an error.
func (e *Env) Read(c Container, key string) (any, bool) {
	if t := e.txn; t != nil {
		if value, ok := t.writes.getKey(c, key); ok {
			return value, true
		}
		if value, ok := t.reads.getKey(c, key); ok {
			return value, true
		}
	}
	raw, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	if resolved, decided := e.Resolve(OpRead, []any{raw}, raw); decided {
		if e.txn != nil {
			e.txn.reads.setKey(c, key, resolved)
		}
		return resolved, true
	}
	return raw, true
}

// ReadValue treats v itself as the read target (the key-none address). The
// transaction memo is consulted and populated the same way as for keyed
// reads; plain values without a read override read as themselves.
func (e *Env) ReadValue(v any) any {
	if t := e.txn; t != nil {
		if cached, ok := t.writes.getWhole(v); ok {
			return cached
		}
		if cached, ok := t.reads.getWhole(v); ok {
			return cached
		}
	}
	if resolved, decided := e.Resolve(OpRead, []any{v}, v); decided {
		if e.txn != nil {
			e.txn.reads.setWhole(v, resolved)
		}
		return resolved
	}
	return v
}

// Write stores next under (container, key) and returns the stored value.
// Inside an active transaction the write is buffered verbatim, with no
// override consulted. Untransacted, the previous stored value's write
// override is consulted with (previous, next); a decided result is stored in
// place of next. Missing previous entries fall back to storing next.
func (e *Env) Write(c Container, key string, next any) any {
	if t := e.txn; t != nil {
		t.writes.setKey(c, key, next)
		return next
	}
	if prev, ok := c.Get(key); ok {
		if resolved, decided := e.Resolve(OpWrite, []any{prev}, prev, next); decided {
			c.Set(key, resolved)
			return resolved
		}
	}
	c.Set(key, next)
	return next
}

// WriteValue treats v itself as the write target. Inside a transaction the
// write is buffered under v's identity and next is returned. Untransacted,
// v's write override is consulted with (v, next); capability values absorb
// the write and decide themselves as the value the caller should keep.
func (e *Env) WriteValue(v any, next any) any {
	if t := e.txn; t != nil {
		t.writes.setWhole(v, next)
		return next
	}
	if resolved, decided := e.Resolve(OpWrite, []any{v}, v, next); decided {
		return resolved
	}
	return next
}
