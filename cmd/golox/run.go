package main

import (
	"fmt"
	"io"
	"os"

	"golox/internal/ast"
	"golox/internal/diagnostics"
	"golox/internal/interpreter"
	"golox/internal/lexer"
	"golox/internal/parser"
	"golox/internal/resolver"
)

// runFile runs one script to completion: lex, parse, resolve, then
// interpret, reporting buffered diagnostics and mapping them to spec §6's
// exit codes (65 for anything caught before execution starts, 70 for a
// runtime error).
func runFile(path string, stdout, stderr io.Writer) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitCompile
	}

	diag := &diagnostics.Bag{}
	arena, root, locals, ok := compile(src, diag)
	if !ok {
		diag.Print(stderr)
		return exitCompile
	}

	it := interpreter.New(stdout)
	if !it.Interpret(arena, locals, diag, root) {
		diag.Print(stderr)
		return exitRuntime
	}
	return exitOK
}

// compile runs the lexer, parser and resolver and reports whether the
// result is clean enough to execute.
func compile(src []byte, diag *diagnostics.Bag) (*ast.Arena, ast.StmtIdx, resolver.Locals, bool) {
	toks := lexer.New(src, diag).Scan()
	if diag.HasErrors() {
		return nil, 0, nil, false
	}

	arena := ast.NewArena()
	root := parser.New(toks, arena, diag).ParseProgram()
	if diag.HasErrors() {
		return nil, 0, nil, false
	}

	locals := resolver.New(arena, diag).Resolve(root)
	if diag.HasErrors() {
		return nil, 0, nil, false
	}

	return arena, root, locals, true
}
