package tune

import (
	"reflect"
	"strings"
	"testing"
)

func TestFunctionRegistryRegisterAndCall(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("Double", func(args ...any) (any, error) {
		x, _ := args[0].(float64)
		return x * 2, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Lookup is case-insensitive.
	result, err := registry.Call("double", 2.0)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if result != 4.0 {
		t.Fatalf("expected 4.0, got %v", result)
	}
	if _, err := registry.Call("DOUBLE", 2.0); err != nil {
		t.Fatalf("uppercase call: %v", err)
	}
}

func TestFunctionRegistryRejectsDuplicates(t *testing.T) {
	registry := NewFunctionRegistry()
	fn := func(args ...any) (any, error) { return nil, nil }
	if err := registry.Register("f", fn); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("F", fn); err == nil {
		t.Fatalf("expected a duplicate error")
	}
}

func TestFunctionRegistryRejectsInvalid(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("", func(args ...any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected an error for an empty name")
	}
	if err := registry.Register("nilfn", nil); err == nil {
		t.Fatalf("expected an error for a nil function")
	}
}

func TestFunctionRegistryCallUnknown(t *testing.T) {
	registry := NewFunctionRegistry()
	if _, err := registry.Call("missing"); err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Fatalf("expected a not-registered error, got %v", err)
	}
}

func TestFunctionRegistryNamesSorted(t *testing.T) {
	registry := NewFunctionRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := registry.Register(name, func(args ...any) (any, error) { return nil, nil }); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	want := []string{"alpha", "mid", "zeta"}
	if got := registry.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFunctionRegistryCloneIsolated(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("base", func(args ...any) (any, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	clone := registry.Clone()
	if err := clone.Register("extra", func(args ...any) (any, error) { return 2, nil }); err != nil {
		t.Fatalf("register on clone: %v", err)
	}
	if _, err := registry.Call("extra"); err == nil {
		t.Fatalf("expected the original to be unaffected by the clone")
	}
	if _, err := clone.Call("base"); err != nil {
		t.Fatalf("expected the clone to keep existing functions, got %v", err)
	}
}
