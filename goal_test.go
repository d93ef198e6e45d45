package tune

import (
	"errors"
	"testing"
)

func floatMeasure(result any) (float64, error) {
	f, ok := result.(float64)
	if !ok {
		return 0, errors.New("not a float")
	}
	return f, nil
}

func TestGoalWithoutOptimizerCommitsBaseline(t *testing.T) {
	env := New()
	vars := Vars{"x": 1.0}

	result, err := env.Goal(floatMeasure, func(e *Env, _ ...any) (any, error) {
		e.Write(vars, "x", 2.0)
		value, _ := e.Read(vars, "x")
		return value, nil
	})
	if err != nil {
		t.Fatalf("goal: %v", err)
	}
	if result != 2.0 {
		t.Fatalf("expected baseline result, got %v", result)
	}
	if vars["x"] != 2.0 {
		t.Fatalf("expected baseline auto-committed, got %v", vars["x"])
	}
}

func TestGoalDispatchesRegisteredStrategy(t *testing.T) {
	env := New()
	vars := Vars{"x": 1.0}
	dispatched := false

	result, err := env.Goal(floatMeasure, func(e *Env, _ ...any) (any, error) {
		e.OnGoal(func(measure Measure, fn Computation, args ...any) (any, error) {
			dispatched = true
			return e.Commit(e.Baseline()), nil
		})
		e.Write(vars, "x", 3.0)
		return 3.0, nil
	})
	if err != nil {
		t.Fatalf("goal: %v", err)
	}
	if !dispatched {
		t.Fatalf("expected the registered strategy to run")
	}
	if result != 3.0 || vars["x"] != 3.0 {
		t.Fatalf("expected the strategy's committed baseline, got result %v storage %v", result, vars["x"])
	}
}

func TestGoalCompositionFirstRegisteredOutermost(t *testing.T) {
	env := New()
	var order []string

	_, err := env.Goal(floatMeasure, func(e *Env, _ ...any) (any, error) {
		e.OnGoal(func(measure Measure, fn Computation, args ...any) (any, error) {
			order = append(order, "A")
			return fn(e)
		})
		e.OnGoal(func(measure Measure, fn Computation, args ...any) (any, error) {
			order = append(order, "B")
			return e.Commit(e.Baseline()), nil
		})
		return 0.0, nil
	})
	if err != nil {
		t.Fatalf("goal: %v", err)
	}
	if len(order) != 2 || order[0] != "A" || order[1] != "B" {
		t.Fatalf("expected A to execute before B, got %v", order)
	}
}

func TestOnGoalIgnoredOutsideGoal(t *testing.T) {
	env := New()
	env.OnGoal(func(Measure, Computation, ...any) (any, error) {
		t.Fatalf("strategy registered outside a goal must never run")
		return nil, nil
	})
	if env.goal != nil {
		t.Fatalf("expected no goal frame")
	}
}

func TestOnGoalIgnoredInsideStrategy(t *testing.T) {
	env := New()
	nested := false

	_, err := env.Goal(floatMeasure, func(e *Env, _ ...any) (any, error) {
		e.OnGoal(func(measure Measure, fn Computation, args ...any) (any, error) {
			e.OnGoal(func(Measure, Computation, ...any) (any, error) {
				nested = true
				return nil, nil
			})
			return e.Commit(e.Baseline()), nil
		})
		return 0.0, nil
	})
	if err != nil {
		t.Fatalf("goal: %v", err)
	}
	if nested {
		t.Fatalf("expected registrations during strategy execution to be ignored")
	}
}

func TestGoalFailurePropagates(t *testing.T) {
	env := New()
	vars := Vars{"x": 1.0}
	boom := errors.New("boom")

	_, err := env.Goal(floatMeasure, func(e *Env, _ ...any) (any, error) {
		e.Write(vars, "x", 9.0)
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the computation's failure, got %v", err)
	}
	if vars["x"] != 1.0 {
		t.Fatalf("expected nothing committed on failure, got %v", vars["x"])
	}
	if env.goal != nil {
		t.Fatalf("expected goal frame restored after failure")
	}
}

func TestNestedGoalsRestoreFrames(t *testing.T) {
	env := New()
	vars := Vars{"outer": 1.0, "inner": 1.0}

	_, err := env.Goal(floatMeasure, func(e *Env, _ ...any) (any, error) {
		inner, err := e.Goal(floatMeasure, func(e *Env, _ ...any) (any, error) {
			e.Write(vars, "inner", 2.0)
			return 2.0, nil
		})
		if err != nil {
			return nil, err
		}
		e.Write(vars, "outer", inner.(float64)+1)
		return inner, nil
	})
	if err != nil {
		t.Fatalf("goal: %v", err)
	}
	if vars["inner"] != 2.0 {
		t.Fatalf("expected inner goal committed, got %v", vars["inner"])
	}
	if vars["outer"] != 3.0 {
		t.Fatalf("expected outer goal committed after inner, got %v", vars["outer"])
	}
	if env.goal != nil || env.txn != nil {
		t.Fatalf("expected all frames restored")
	}
}

func TestBaselineNilOutsideGoal(t *testing.T) {
	env := New()
	if env.Baseline() != nil {
		t.Fatalf("expected nil baseline outside a goal")
	}
}
