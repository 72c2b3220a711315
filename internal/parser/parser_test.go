package parser

import (
	"testing"

	"golox/internal/ast"
	"golox/internal/diagnostics"
	"golox/internal/lexer"
	"golox/internal/token"
)

func parseExpr(t *testing.T, src string) (*ast.Arena, ast.ExprIdx) {
	t.Helper()
	diag := &diagnostics.Bag{}
	toks := lexer.New([]byte(src), diag).Scan()
	arena := ast.NewArena()
	p := New(toks, arena, diag)
	root := p.ParseProgram()
	if diag.HasErrors() {
		t.Fatalf("parse(%q) reported errors: %v", src, diag.Errors)
	}
	block := arena.Stmt(root).(*ast.BlockStmt)
	if len(block.Stmts) != 1 {
		t.Fatalf("parse(%q) produced %d statements, want 1", src, len(block.Stmts))
	}
	exprStmt, ok := arena.Stmt(block.Stmts[0]).(*ast.ExpressionStmt)
	if !ok {
		t.Fatalf("parse(%q) top-level statement is %T, want *ast.ExpressionStmt", src, arena.Stmt(block.Stmts[0]))
	}
	return arena, exprStmt.Value
}

func TestParseBinaryPrecedence(t *testing.T) {
	arena, idx := parseExpr(t, "1 + 2 * 3;")
	bin, ok := arena.Expr(idx).(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.BinaryExpr", arena.Expr(idx))
	}
	if bin.Op.Type != token.PLUS {
		t.Errorf("top operator = %v, want PLUS", bin.Op.Type)
	}
	right, ok := arena.Expr(bin.Right).(*ast.BinaryExpr)
	if !ok || right.Op.Type != token.STAR {
		t.Errorf("right operand = %v, want a STAR BinaryExpr", arena.Expr(bin.Right))
	}
}

func TestParseGrouping(t *testing.T) {
	arena, idx := parseExpr(t, "(1 + 2) * 3;")
	bin, ok := arena.Expr(idx).(*ast.BinaryExpr)
	if !ok || bin.Op.Type != token.STAR {
		t.Fatalf("got %T, want top-level STAR BinaryExpr", arena.Expr(idx))
	}
	if _, ok := arena.Expr(bin.Left).(*ast.GroupExpr); !ok {
		t.Errorf("left operand = %T, want *ast.GroupExpr", arena.Expr(bin.Left))
	}
}

func TestParseAssignmentTarget(t *testing.T) {
	arena, idx := parseExpr(t, "a = 1;")
	assign, ok := arena.Expr(idx).(*ast.AssignExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.AssignExpr", arena.Expr(idx))
	}
	if assign.Name.Lexeme() != "a" {
		t.Errorf("assignment target = %q, want \"a\"", assign.Name.Lexeme())
	}
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	diag := &diagnostics.Bag{}
	toks := lexer.New([]byte("1 = 2;"), diag).Scan()
	arena := ast.NewArena()
	New(toks, arena, diag).ParseProgram()
	if !diag.HasErrors() {
		t.Fatal("expected an ExpectedLVal diagnostic for an invalid assignment target")
	}
	if diag.Errors[0].Kind != diagnostics.ExpectedLVal {
		t.Errorf("Kind = %v, want ExpectedLVal", diag.Errors[0].Kind)
	}
}

func TestParseCallAndGet(t *testing.T) {
	arena, idx := parseExpr(t, "a.b(1, 2);")
	call, ok := arena.Expr(idx).(*ast.CallExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.CallExpr", arena.Expr(idx))
	}
	if len(call.Args) != 2 {
		t.Errorf("len(Args) = %d, want 2", len(call.Args))
	}
	if _, ok := arena.Expr(call.Callee).(*ast.GetExpr); !ok {
		t.Errorf("callee = %T, want *ast.GetExpr", arena.Expr(call.Callee))
	}
}

func TestForStmtDesugaring(t *testing.T) {
	diag := &diagnostics.Bag{}
	src := "for (var i = 0; i < 3; i = i + 1) print i;"
	toks := lexer.New([]byte(src), diag).Scan()
	arena := ast.NewArena()
	root := New(toks, arena, diag).ParseProgram()
	if diag.HasErrors() {
		t.Fatalf("parse(%q) reported errors: %v", src, diag.Errors)
	}

	program := arena.Stmt(root).(*ast.BlockStmt)
	outer, ok := arena.Stmt(program.Stmts[0]).(*ast.BlockStmt)
	if !ok {
		t.Fatalf("desugared for-loop top-level statement is %T, want *ast.BlockStmt", arena.Stmt(program.Stmts[0]))
	}
	if len(outer.Stmts) != 2 {
		t.Fatalf("desugared block has %d statements, want 2 (initializer, while)", len(outer.Stmts))
	}
	if _, ok := arena.Stmt(outer.Stmts[0]).(*ast.VarStmt); !ok {
		t.Errorf("first desugared statement = %T, want *ast.VarStmt", arena.Stmt(outer.Stmts[0]))
	}
	whileStmt, ok := arena.Stmt(outer.Stmts[1]).(*ast.WhileStmt)
	if !ok {
		t.Fatalf("second desugared statement = %T, want *ast.WhileStmt", arena.Stmt(outer.Stmts[1]))
	}
	body, ok := arena.Stmt(whileStmt.Body).(*ast.BlockStmt)
	if !ok || len(body.Stmts) != 2 {
		t.Errorf("desugared while body = %#v, want a 2-statement block (print, increment)", arena.Stmt(whileStmt.Body))
	}
}

func TestParseClassWithSuperclass(t *testing.T) {
	diag := &diagnostics.Bag{}
	src := "class B < A { m() { return 1; } }"
	toks := lexer.New([]byte(src), diag).Scan()
	arena := ast.NewArena()
	root := New(toks, arena, diag).ParseProgram()
	if diag.HasErrors() {
		t.Fatalf("parse(%q) reported errors: %v", src, diag.Errors)
	}
	program := arena.Stmt(root).(*ast.BlockStmt)
	class, ok := arena.Stmt(program.Stmts[0]).(*ast.ClassStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.ClassStmt", arena.Stmt(program.Stmts[0]))
	}
	if !class.HasSuperclass {
		t.Error("HasSuperclass = false, want true")
	}
	if len(class.Methods) != 1 {
		t.Errorf("len(Methods) = %d, want 1", len(class.Methods))
	}
}

func TestParseErrorRecoverySynchronizes(t *testing.T) {
	diag := &diagnostics.Bag{}
	src := "var = ; var ok = 1;"
	toks := lexer.New([]byte(src), diag).Scan()
	arena := ast.NewArena()
	root := New(toks, arena, diag).ParseProgram()
	if !diag.HasErrors() {
		t.Fatal("expected a parse error from the malformed declaration")
	}
	program := arena.Stmt(root).(*ast.BlockStmt)
	found := false
	for _, s := range program.Stmts {
		if v, ok := arena.Stmt(s).(*ast.VarStmt); ok && v.Name.Lexeme() == "ok" {
			found = true
		}
	}
	if !found {
		t.Error("parser did not recover and parse the declaration following the error")
	}
}
