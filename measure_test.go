package tune

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

type mapCache struct {
	mu       sync.Mutex
	programs map[string]any
	gets     int
	sets     int
}

func newMapCache() *mapCache {
	return &mapCache{programs: map[string]any{}}
}

func (c *mapCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	value, ok := c.programs[key]
	return value, ok
}

func (c *mapCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.programs[key] = value
}

func TestMeasureFromExprExpression(t *testing.T) {
	env := New()
	measure, err := env.MeasureFrom("result * result - 5.0 * result")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	score, err := measure(2.0)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if score != -6.0 {
		t.Fatalf("expected -6.0, got %v", score)
	}
}

func TestMeasureFromSplatsMapResult(t *testing.T) {
	env := New()
	measure, err := env.MeasureFrom("score + bonus")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	score, err := measure(map[string]any{"score": 2.0, "bonus": 0.5})
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if score != 2.5 {
		t.Fatalf("expected 2.5, got %v", score)
	}
}

func TestMeasureFromEmptyExpression(t *testing.T) {
	env := New()
	if _, err := env.MeasureFrom(""); err == nil {
		t.Fatalf("expected an error for an empty expression")
	}
}

func TestMeasureFromCompileError(t *testing.T) {
	env := New()
	_, err := env.MeasureFrom("result +* 2")
	if err == nil {
		t.Fatalf("expected a compile error")
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected an EvaluationError, got %T: %v", err, err)
	}
	if evalErr.Engine != "expr" {
		t.Fatalf("expected the expr engine, got %q", evalErr.Engine)
	}
}

func TestMeasureFromNonNumericResult(t *testing.T) {
	env := New()
	measure, err := env.MeasureFrom(`"high"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := measure(1.0); !errors.Is(err, ErrNotNumeric) {
		t.Fatalf("expected ErrNotNumeric, got %v", err)
	}
}

func TestMeasureFromUsesProgramCache(t *testing.T) {
	cache := newMapCache()
	env := New(WithProgramCache(cache))

	if _, err := env.MeasureFrom("result + 1.0"); err != nil {
		t.Fatalf("first compile: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache store, got %d", cache.sets)
	}
	if _, err := env.MeasureFrom("result + 1.0"); err != nil {
		t.Fatalf("second compile: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected the second compile to reuse the cached program, got %d stores", cache.sets)
	}
}

func TestMeasureFromRegistryFunction(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("penalty", func(args ...any) (any, error) {
		x, _ := args[0].(float64)
		return x * 10, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	env := New(WithFunctionRegistry(registry))

	measure, err := env.MeasureFrom("penalty(result)")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	score, err := measure(0.3)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if score != 3.0 {
		t.Fatalf("expected 3.0, got %v", score)
	}
}

func TestMeasureFromLogsEvaluations(t *testing.T) {
	var events []MeasureLogEvent
	env := New(WithMeasureLogger(MeasureLoggerFunc(func(event MeasureLogEvent) {
		events = append(events, event)
	})))

	measure, err := env.MeasureFrom("result * 2.0")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := measure(1.5); err != nil {
		t.Fatalf("measure: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one logged event, got %d", len(events))
	}
	event := events[0]
	if event.Engine != "expr" || event.Expr != "result * 2.0" || event.Err != nil {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestMeasureFromCustomEvaluator(t *testing.T) {
	env := New(WithEvaluator(NewCELEvaluator()))

	measure, err := env.MeasureFrom("result * 3.0")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	score, err := measure(2.0)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if score != 6.0 {
		t.Fatalf("expected 6.0, got %v", score)
	}
}

func TestMeasureDrivesSearch(t *testing.T) {
	env := New()
	measure, err := env.MeasureFrom("result * result - 5.0 * result")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	result, err := env.Minimize(measure, nudger(), nil, WithTries(10))
	if err != nil {
		t.Fatalf("minimize: %v", err)
	}
	if _, ok := result.(float64); !ok {
		t.Fatalf("expected a float result, got %T", result)
	}
}

func TestEvaluationErrorWrapIdempotent(t *testing.T) {
	base := errors.New("kaput")
	wrapped := wrapEvaluationError("expr", "1 + 1", base)
	rewrapped := wrapEvaluationError("cel", "2 + 2", wrapped)
	if rewrapped != wrapped {
		t.Fatalf("expected re-wrapping to return the original error")
	}
	var evalErr *EvaluationError
	if !errors.As(rewrapped, &evalErr) || evalErr.Engine != "expr" || evalErr.Expr != "1 + 1" {
		t.Fatalf("expected the first wrap to stick, got %+v", evalErr)
	}
	if !errors.Is(rewrapped, base) {
		t.Fatalf("expected the cause to unwrap")
	}
	if !strings.HasPrefix(rewrapped.Error(), "tune:") {
		t.Fatalf("expected the tune prefix, got %q", rewrapped.Error())
	}
	if wrapEvaluationError("expr", "x", nil) != nil {
		t.Fatalf("expected nil to stay nil")
	}
}

func TestWrapEvaluatorErrorPreservesPrefixed(t *testing.T) {
	already := errors.New("tune: something domain specific")
	if got := wrapEvaluatorError("expr", already); got != already {
		t.Fatalf("expected prefixed errors to pass through, got %v", got)
	}
	plain := errors.New("plain")
	got := wrapEvaluatorError("expr", plain)
	if !errors.Is(got, plain) || !strings.Contains(got.Error(), "expr evaluator") {
		t.Fatalf("unexpected wrap %v", got)
	}
}
