package tune

import "testing"

// seqRand replays a fixed sequence of deviates for deterministic tests.
type seqRand struct {
	values []float64
	i      int
}

func (r *seqRand) Float64() float64 {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v
}

func TestReadWriteRoundTrip(t *testing.T) {
	env := New()
	vars := Vars{}

	stored := env.Write(vars, "x", 42)
	if stored != 42 {
		t.Fatalf("expected write to return 42, got %v", stored)
	}
	value, ok := env.Read(vars, "x")
	if !ok || value != 42 {
		t.Fatalf("expected read back 42, got %v (ok=%v)", value, ok)
	}
}

func TestReadMissingEntryYieldsNoValue(t *testing.T) {
	env := New()
	vars := Vars{}

	value, ok := env.Read(vars, "absent")
	if ok {
		t.Fatalf("expected no value for missing entry, got %v", value)
	}
	if value != nil {
		t.Fatalf("expected nil for missing entry, got %v", value)
	}
}

func TestDirectWritePreservesCapabilityValue(t *testing.T) {
	env := New()
	vars := Vars{}
	bounded := MustBounded(0, 1, 0.5)
	vars["level"] = bounded

	stored := env.Write(vars, "level", 0.9)
	if stored != bounded {
		t.Fatalf("expected write override to keep the bounded value, got %T", stored)
	}
	if vars["level"] != bounded {
		t.Fatalf("expected storage to retain the bounded value, got %T", vars["level"])
	}
	value, ok := env.Read(vars, "level")
	if !ok || value != 0.9 {
		t.Fatalf("expected clamped read of written value, got %v (ok=%v)", value, ok)
	}
}

func TestReadValuePlainValueReadsAsItself(t *testing.T) {
	env := New()
	if got := env.ReadValue(3.5); got != 3.5 {
		t.Fatalf("expected plain value to read as itself, got %v", got)
	}
}

func TestWriteValueUntransactedConsultsOverride(t *testing.T) {
	env := New()
	bounded := MustBounded(0, 10, 2.0)

	kept := env.WriteValue(bounded, 7.0)
	if kept != bounded {
		t.Fatalf("expected capability value to absorb the write, got %T", kept)
	}
	if got := env.ReadValue(bounded); got != 7.0 {
		t.Fatalf("expected read of absorbed write, got %v", got)
	}
}

func TestTransactedReadMemoizesOverrideResult(t *testing.T) {
	env := New(WithRand(&seqRand{values: []float64{0.25, 0.75}}))
	vars := Vars{"p": MustBounded(0, 1, nil)}

	es, err := env.Journal(func(e *Env, _ ...any) (any, error) {
		first, _ := e.Read(vars, "p")
		second, _ := e.Read(vars, "p")
		return [2]any{first, second}, nil
	})
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	pair := es.Result().([2]any)
	if pair[0] != pair[1] {
		t.Fatalf("expected memoized read within a transaction, got %v and %v", pair[0], pair[1])
	}
}

func TestUntransactedReadsResample(t *testing.T) {
	env := New(WithRand(&seqRand{values: []float64{0.25, 0.75}}))
	vars := Vars{"p": MustBounded(0, 1, nil)}

	first, _ := env.Read(vars, "p")
	second, _ := env.Read(vars, "p")
	if first == second {
		t.Fatalf("expected direct reads to resample, got %v twice", first)
	}
}

func TestIdentityKeyDistinguishesMaps(t *testing.T) {
	a := Vars{}
	b := Vars{}
	if identityKey(a) == identityKey(b) {
		t.Fatalf("expected distinct identity keys for distinct maps")
	}
	if identityKey(a) != identityKey(a) {
		t.Fatalf("expected stable identity key for the same map")
	}
}

func TestIdentityKeyDistinguishesEqualPointerContainers(t *testing.T) {
	a := NewStatic(map[string]any{"x": 1.0})
	b := NewStatic(map[string]any{"x": 1.0})
	if identityKey(a) == identityKey(b) {
		t.Fatalf("expected equal-valued records to stay distinct containers")
	}
}

type listHolder struct {
	items []int
}

func TestIdentityKeyToleratesUncomparableValues(t *testing.T) {
	holder := listHolder{items: []int{1}}
	// Keys must be safe to hash even when the value itself is not.
	seen := map[any]bool{}
	seen[identityKey(holder)] = true
	seen[identityKey([2][]int{})] = true
	if len(seen) != 2 {
		t.Fatalf("expected fresh keys per touch, got %d", len(seen))
	}
}

func TestJournalToleratesUncomparableValues(t *testing.T) {
	env := New()
	holder := listHolder{items: []int{1}}

	es, err := env.Journal(func(e *Env, _ ...any) (any, error) {
		if got := e.WriteValue(holder, 2); got != 2 {
			return nil, errTestBoom
		}
		return e.ReadValue(holder), nil
	})
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	// No stable identity and no override: reads fall through to the value.
	result, ok := es.Result().(listHolder)
	if !ok || len(result.items) != 1 {
		t.Fatalf("expected the value itself back, got %v", es.Result())
	}
	env.Commit(es)
}
