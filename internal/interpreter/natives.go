package interpreter

import (
	"time"

	"golox/internal/environment"
)

// installNatives defines the host builtins of spec §6 in the global scope.
func installNatives(globals *environment.Environment) {
	globals.Define("clock", &NativeFunction{
		Name:   "clock",
		ArityN: 0,
		Fn: func(_ *Interpreter, _ []Value) Value {
			return Number{float64(time.Now().UnixMilli())}
		},
	})
}
