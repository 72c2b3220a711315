package main

import (
	"strings"

	"golox/internal/ast"
	"golox/internal/compiler"
	"golox/internal/diagnostics"
	"golox/internal/interpreter"
	"golox/internal/lexer"
	"golox/internal/parser"
	"golox/internal/resolver"
	"golox/internal/vm"
)

// runCase evaluates tc.Source through both backends and fills in the
// results. Treewalk runs the expression wrapped in a print statement (the
// treewalk pipeline only executes statements); the VM compiles the bare
// expression directly.
func runCase(tc *TestCase) {
	tc.TreewalkOK, tc.TreewalkResult, tc.TreewalkErr = runTreewalk(tc.Source)
	tc.VMOK, tc.VMResult, tc.VMErr = runVM(tc.Source)
}

func runTreewalk(src string) (ok bool, result, errMsg string) {
	diag := &diagnostics.Bag{}
	toks := lexer.New([]byte("print ("+src+");"), diag).Scan()
	if diag.HasErrors() {
		return false, "", diagString(diag)
	}

	arena := ast.NewArena()
	root := parser.New(toks, arena, diag).ParseProgram()
	if diag.HasErrors() {
		return false, "", diagString(diag)
	}

	locals := resolver.New(arena, diag).Resolve(root)
	if diag.HasErrors() {
		return false, "", diagString(diag)
	}

	var out strings.Builder
	it := interpreter.New(&out)
	if !it.Interpret(arena, locals, diag, root) {
		return false, "", diagString(diag)
	}
	return true, strings.TrimSuffix(out.String(), "\n"), ""
}

func runVM(src string) (ok bool, result, errMsg string) {
	diag := &diagnostics.Bag{}
	toks := lexer.New([]byte(src), diag).Scan()
	if diag.HasErrors() {
		return false, "", diagString(diag)
	}

	chunk := compiler.New(toks, diag).Compile()
	if chunk == nil || diag.HasErrors() {
		return false, "", diagString(diag)
	}

	machine := vm.New(diag)
	if res := machine.Interpret(chunk); res != vm.Ok {
		return false, "", diagString(diag)
	}
	return true, machine.Top().String(), ""
}

func diagString(diag *diagnostics.Bag) string {
	var b strings.Builder
	diag.Print(&b)
	return strings.TrimSuffix(b.String(), "\n")
}
