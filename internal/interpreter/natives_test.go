package interpreter

import (
	"testing"

	"golox/internal/environment"
)

func TestInstallNativesDefinesClock(t *testing.T) {
	globals := environment.New()
	installNatives(globals)

	v, ok := globals.Get("clock")
	if !ok {
		t.Fatal("globals.Get(\"clock\") ok = false, want true")
	}
	fn, ok := v.(*NativeFunction)
	if !ok {
		t.Fatalf("clock = %T, want *NativeFunction", v)
	}
	if fn.Arity() != 0 {
		t.Errorf("clock.Arity() = %d, want 0", fn.Arity())
	}
	result := fn.Call(nil, nil)
	if _, ok := result.(Number); !ok {
		t.Errorf("clock() returned %T, want Number", result)
	}
}
