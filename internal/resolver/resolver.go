// Package resolver implements the static lexical-scope pass of spec §4.3.
// It walks the AST once, without evaluating anything, and records for each
// variable reference how many enclosing scopes to skip to reach its
// binding. The side-table is keyed by ast.ExprIdx: because the AST is
// already an arena of stable indices (spec §3), there is no need for the
// token-identity keying spec §5 describes for pointer-based ASTs — an
// ExprIdx already uniquely and stably names "this particular reference
// site" (see DESIGN.md).
package resolver

import (
	"golox/internal/ast"
	"golox/internal/diagnostics"
	"golox/internal/token"
)

type functionType int

const (
	funcNone functionType = iota
	funcFunction
	funcInitializer
	funcMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Locals maps a variable-reference expression to the number of enclosing
// scopes to skip to reach its binding. Absence means "look up globally."
type Locals map[ast.ExprIdx]int

type scope map[string]bool // name -> defined?

type Resolver struct {
	arena   *ast.Arena
	diag    *diagnostics.Bag
	locals  Locals
	scopes  []scope
	funcTyp functionType
	classTy classType
}

func New(arena *ast.Arena, diag *diagnostics.Bag) *Resolver {
	return &Resolver{arena: arena, diag: diag, locals: make(Locals)}
}

// Resolve walks root (the synthetic top-level BlockStmt parser.ParseProgram
// wraps a program in) and returns the completed side-table. The top-level block
// itself never gets beginScope/endScope treatment: its declarations are
// globals, and globals are never tracked in the scope stack (mirrors the
// interpreter executing root's statements directly against its persistent
// global environment instead of a throwaway child scope).
func (r *Resolver) Resolve(root ast.StmtIdx) Locals {
	block := r.arena.Stmt(root).(*ast.BlockStmt)
	for _, d := range block.Stmts {
		r.resolveStmt(d)
	}
	return r.locals
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	s := r.scopes[len(r.scopes)-1]
	if _, ok := s[name.Lexeme()]; ok {
		r.diag.ReportError(diagnostics.Context{
			Kind: diagnostics.VariableRedeclaration,
			Message: "Already a variable named '" + name.Lexeme() + "' in this scope.",
			Line: name.Pos.Line, Col: name.Pos.Col, Lexeme: name.Lexeme(),
		})
	}
	s[name.Lexeme()] = false
}

func (r *Resolver) declareName(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = false
}

func (r *Resolver) define(name token.Token) {
	r.defineName(name.Lexeme())
}

func (r *Resolver) defineName(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

// resolveLocal records, for expr, the distance from the current (innermost)
// scope to the scope that declares name. If name is never found, expr is
// left unresolved and the interpreter falls back to the global environment.
func (r *Resolver) resolveLocal(expr ast.ExprIdx, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) resolveStmt(idx ast.StmtIdx) {
	switch n := r.arena.Stmt(idx).(type) {
	case *ast.BlockStmt:
		r.beginScope()
		for _, d := range n.Stmts {
			r.resolveStmt(d)
		}
		r.endScope()

	case *ast.ClassStmt:
		enclosingClass := r.classTy
		r.classTy = classClass

		r.declare(n.Name)
		r.define(n.Name)

		if n.HasSuperclass {
			r.classTy = classSubclass
			if sup, ok := r.arena.Expr(n.Superclass).(*ast.VariableExpr); ok {
				if sup.Name.Lexeme() == n.Name.Lexeme() {
					r.diag.ReportError(diagnostics.Context{
						Kind: diagnostics.InheritanceCycle, Message: "A class can't inherit from itself.",
						Line: sup.Name.Pos.Line, Col: sup.Name.Pos.Col, Lexeme: sup.Name.Lexeme(),
					})
				}
			}
			r.resolveExpr(n.Superclass)

			r.beginScope()
			r.declareName("super")
			r.defineName("super")
		}

		r.beginScope()
		r.declareName("this")
		r.defineName("this")

		for _, m := range n.Methods {
			method := r.arena.Stmt(m).(*ast.FunctionStmt)
			ft := funcMethod
			if method.Name.Lexeme() == "init" {
				ft = funcInitializer
			}
			r.resolveFunction(method, ft)
		}

		r.endScope()
		if n.HasSuperclass {
			r.endScope()
		}
		r.classTy = enclosingClass

	case *ast.ExpressionStmt:
		r.resolveExpr(n.Value)

	case *ast.FunctionStmt:
		r.declare(n.Name)
		r.define(n.Name)
		r.resolveFunction(n, funcFunction)

	case *ast.IfStmt:
		r.resolveExpr(n.Condition)
		r.resolveStmt(n.Then)
		if n.HasElse {
			r.resolveStmt(n.Else)
		}

	case *ast.PrintStmt:
		r.resolveExpr(n.Value)

	case *ast.ReturnStmt:
		if r.funcTyp == funcNone {
			r.diag.ReportError(diagnostics.Context{
				Kind: diagnostics.ReturnFromTopLevel, Message: "Can't return from top-level code.",
				Line: n.Keyword.Pos.Line, Col: n.Keyword.Pos.Col, Lexeme: n.Keyword.Lexeme(),
			})
		}
		if n.HasValue {
			if r.funcTyp == funcInitializer {
				r.diag.ReportError(diagnostics.Context{
					Kind: diagnostics.InitializerReturnedValue, Message: "Can't return a value from an initializer.",
					Line: n.Keyword.Pos.Line, Col: n.Keyword.Pos.Col, Lexeme: n.Keyword.Lexeme(),
				})
			}
			r.resolveExpr(n.Value)
		}

	case *ast.VarStmt:
		r.declare(n.Name)
		if n.HasInitializer {
			r.resolveExpr(n.Initializer)
		}
		r.define(n.Name)

	case *ast.WhileStmt:
		r.resolveExpr(n.Condition)
		r.resolveStmt(n.Body)

	default:
		panic("resolver: unreachable statement variant")
	}
}

func (r *Resolver) resolveFunction(fd *ast.FunctionStmt, ft functionType) {
	enclosing := r.funcTyp
	r.funcTyp = ft

	r.beginScope()
	for _, param := range fd.Params {
		r.declare(param)
		r.define(param)
	}
	body := r.arena.Stmt(fd.Body).(*ast.BlockStmt)
	for _, s := range body.Stmts {
		r.resolveStmt(s)
	}
	r.endScope()

	r.funcTyp = enclosing
}

func (r *Resolver) resolveExpr(idx ast.ExprIdx) {
	switch n := r.arena.Expr(idx).(type) {
	case *ast.AssignExpr:
		r.resolveExpr(n.Value)
		r.resolveLocal(idx, n.Name.Lexeme())

	case *ast.BinaryExpr:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)

	case *ast.CallExpr:
		r.resolveExpr(n.Callee)
		for _, a := range n.Args {
			r.resolveExpr(a)
		}

	case *ast.GetExpr:
		r.resolveExpr(n.Object) // the field name is resolved dynamically

	case *ast.GroupExpr:
		r.resolveExpr(n.Inner)

	case *ast.LiteralExpr:
		// nothing to resolve

	case *ast.LogicalExpr:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)

	case *ast.SetExpr:
		r.resolveExpr(n.Value)
		r.resolveExpr(n.Object)

	case *ast.SuperExpr:
		if r.classTy == classNone {
			r.diag.ReportError(diagnostics.Context{
				Kind: diagnostics.SuperOutsideSubclass, Message: "Can't use 'super' outside of a class.",
				Line: n.Keyword.Pos.Line, Col: n.Keyword.Pos.Col, Lexeme: n.Keyword.Lexeme(),
			})
		} else if r.classTy != classSubclass {
			r.diag.ReportError(diagnostics.Context{
				Kind: diagnostics.SuperOutsideSubclass, Message: "Can't use 'super' in a class with no superclass.",
				Line: n.Keyword.Pos.Line, Col: n.Keyword.Pos.Col, Lexeme: n.Keyword.Lexeme(),
			})
		}
		r.resolveLocal(idx, "super")

	case *ast.ThisExpr:
		if r.classTy == classNone {
			r.diag.ReportError(diagnostics.Context{
				Kind: diagnostics.ThisOutsideClass, Message: "Can't use 'this' outside of a class.",
				Line: n.Keyword.Pos.Line, Col: n.Keyword.Pos.Col, Lexeme: n.Keyword.Lexeme(),
			})
		}
		r.resolveLocal(idx, "this")

	case *ast.UnaryExpr:
		r.resolveExpr(n.Expr)

	case *ast.VariableExpr:
		if last := len(r.scopes) - 1; last >= 0 {
			if defined, declared := r.scopes[last][n.Name.Lexeme()]; declared && !defined {
				r.diag.ReportError(diagnostics.Context{
					Kind: diagnostics.SelfreferenceInitializer, Message: "Can't read local variable in its own initializer.",
					Line: n.Name.Pos.Line, Col: n.Name.Pos.Col, Lexeme: n.Name.Lexeme(),
				})
			}
		}
		r.resolveLocal(idx, n.Name.Lexeme())

	default:
		panic("resolver: unreachable expression variant")
	}
}
