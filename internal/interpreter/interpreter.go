package interpreter

import (
	"fmt"
	"io"

	"golox/internal/ast"
	"golox/internal/diagnostics"
	"golox/internal/environment"
	"golox/internal/resolver"
	"golox/internal/token"
)

// Interpreter drives execution of a resolved AST. globals and out are fixed
// for the Interpreter's lifetime (so a REPL can reuse one Interpreter
// across lines and keep bindings alive); arena/locals/diag are swapped in
// by Interpret per top-level call, and arena/locals by Function.Call per
// invocation,
// since the REPL gives each accepted line its own arena, its own resolver
// side-table and its own diagnostics bag. The current environment is
// threaded explicitly through execStmt/evalExpr rather than stored as
// mutable state, so re-entrant evaluation never fights over "the" current
// scope.
type Interpreter struct {
	arena   *ast.Arena
	locals  resolver.Locals
	diag    *diagnostics.Bag
	globals *environment.Environment
	out     io.Writer
}

// New builds an Interpreter with its own persistent global scope, writing
// Print statement output to out. The clock() native (spec §6) is installed
// in globals.
func New(out io.Writer) *Interpreter {
	it := &Interpreter{globals: environment.New(), out: out}
	installNatives(it.globals)
	return it
}

// Globals exposes the persistent global scope so a REPL driver can reuse
// one Interpreter (and thus one set of bindings) across lines.
func (it *Interpreter) Globals() *environment.Environment { return it.globals }

type runtimeErr struct{ ctx diagnostics.Context }

func (e runtimeErr) Error() string { return e.ctx.String() }

// returnSignal implements the Return control-flow sentinel of spec §4.5 /
// §9: it unwinds exactly to the nearest Function.Call frame.
type returnSignal struct{ value Value }

func (it *Interpreter) fail(kind diagnostics.Kind, msg string, pos token.Pos, lexeme string) {
	panic(runtimeErr{diagnostics.Context{Kind: kind, Message: msg, Line: pos.Line, Col: pos.Col, Lexeme: lexeme}})
}

// Interpret runs the top-level declarations of root (from arena, using
// locals as the resolver side-table) directly against globals — the root
// Block itself never gets its own child scope, so top-level bindings land
// in globals and persist across repeated calls (spec §4.4 "Globals sit at
// the root"; spec §6 REPL persistence). Runtime diagnostics are reported
// into diag, which the caller owns (a fresh bag per file/line).
func (it *Interpreter) Interpret(arena *ast.Arena, locals resolver.Locals, diag *diagnostics.Bag, root ast.StmtIdx) (ok bool) {
	it.arena, it.locals, it.diag = arena, locals, diag

	defer func() {
		if r := recover(); r != nil {
			if re, isRuntime := r.(runtimeErr); isRuntime {
				it.diag.ReportError(re.ctx)
				ok = false
				return
			}
			panic(r)
		}
	}()

	block := it.arena.Stmt(root).(*ast.BlockStmt)
	for _, d := range block.Stmts {
		it.execStmt(d, it.globals)
	}
	return true
}

func (it *Interpreter) execStmt(idx ast.StmtIdx, env *environment.Environment) {
	switch n := it.arena.Stmt(idx).(type) {
	case *ast.BlockStmt:
		child := environment.NewChild(env)
		for _, s := range n.Stmts {
			it.execStmt(s, child)
		}

	case *ast.ClassStmt:
		it.execClassStmt(n, env)

	case *ast.ExpressionStmt:
		it.evalExpr(n.Value, env)

	case *ast.FunctionStmt:
		env.Define(n.Name.Lexeme(), &Function{Decl: n, Arena: it.arena, Locals: it.locals, Closure: env})

	case *ast.IfStmt:
		if IsTruthy(it.evalExpr(n.Condition, env)) {
			it.execStmt(n.Then, env)
		} else if n.HasElse {
			it.execStmt(n.Else, env)
		}

	case *ast.PrintStmt:
		fmt.Fprintln(it.out, it.evalExpr(n.Value, env).String())

	case *ast.ReturnStmt:
		var v Value = NilValue
		if n.HasValue {
			v = it.evalExpr(n.Value, env)
		}
		panic(returnSignal{v})

	case *ast.VarStmt:
		v := Value(NilValue)
		if n.HasInitializer {
			v = it.evalExpr(n.Initializer, env)
		}
		env.Define(n.Name.Lexeme(), v)

	case *ast.WhileStmt:
		for IsTruthy(it.evalExpr(n.Condition, env)) {
			it.execStmt(n.Body, env)
		}

	default:
		panic("interpreter: unreachable statement variant")
	}
}

func (it *Interpreter) execClassStmt(n *ast.ClassStmt, env *environment.Environment) {
	env.Define(n.Name.Lexeme(), NilValue)

	var superclass *Class
	if n.HasSuperclass {
		supVal := it.evalExpr(n.Superclass, env)
		sc, ok := supVal.(*Class)
		if !ok {
			supTok := it.arena.Expr(n.Superclass).(*ast.VariableExpr).Name
			it.fail(diagnostics.TypeMismatch, "Superclass must be a class.", supTok.Pos, supTok.Lexeme())
		}
		superclass = sc
	}

	methodEnv := env
	if n.HasSuperclass {
		methodEnv = environment.NewChild(env)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(n.Methods))
	for _, mIdx := range n.Methods {
		fd := it.arena.Stmt(mIdx).(*ast.FunctionStmt)
		methods[fd.Name.Lexeme()] = &Function{
			Decl:          fd,
			Arena:         it.arena,
			Locals:        it.locals,
			Closure:       methodEnv,
			IsInitializer: fd.Name.Lexeme() == "init",
		}
	}

	class := &Class{Name: n.Name.Lexeme(), Superclass: superclass, Methods: methods}
	env.Assign(n.Name.Lexeme(), class)
}

func (it *Interpreter) evalExpr(idx ast.ExprIdx, env *environment.Environment) Value {
	switch n := it.arena.Expr(idx).(type) {
	case *ast.AssignExpr:
		v := it.evalExpr(n.Value, env)
		it.assignVariable(idx, n.Name, v, env)
		return v

	case *ast.BinaryExpr:
		return it.evalBinary(n, env)

	case *ast.CallExpr:
		return it.evalCall(n, env)

	case *ast.GetExpr:
		obj := it.evalExpr(n.Object, env)
		inst, ok := obj.(*Instance)
		if !ok {
			it.fail(diagnostics.TypeMismatch, "Only instances have properties.", n.Name.Pos, n.Name.Lexeme())
		}
		v, found := inst.Get(n.Name.Lexeme())
		if !found {
			it.fail(diagnostics.UndefinedProperty, "Undefined property '"+n.Name.Lexeme()+"'.", n.Name.Pos, n.Name.Lexeme())
		}
		return v

	case *ast.GroupExpr:
		return it.evalExpr(n.Inner, env)

	case *ast.LiteralExpr:
		return literalValue(n.Value)

	case *ast.LogicalExpr:
		left := it.evalExpr(n.Left, env)
		if n.Op.Type == token.OR {
			if IsTruthy(left) {
				return left
			}
		} else { // AND
			if !IsTruthy(left) {
				return left
			}
		}
		return it.evalExpr(n.Right, env)

	case *ast.SetExpr:
		obj := it.evalExpr(n.Object, env)
		inst, ok := obj.(*Instance)
		if !ok {
			it.fail(diagnostics.TypeMismatch, "Only instances have fields.", n.Name.Pos, n.Name.Lexeme())
		}
		v := it.evalExpr(n.Value, env)
		inst.Set(n.Name.Lexeme(), v)
		return v

	case *ast.SuperExpr:
		return it.evalSuper(idx, n, env)

	case *ast.ThisExpr:
		return it.lookupVariable(idx, "this", env)

	case *ast.UnaryExpr:
		return it.evalUnary(n, env)

	case *ast.VariableExpr:
		return it.lookupVariable(idx, n.Name.Lexeme(), env)

	default:
		panic("interpreter: unreachable expression variant")
	}
}

func (it *Interpreter) evalSuper(idx ast.ExprIdx, n *ast.SuperExpr, env *environment.Environment) Value {
	depth, hasDepth := it.locals[idx]
	if !hasDepth {
		it.fail(diagnostics.UndefinedVariable, "Undefined variable 'super'.", n.Keyword.Pos, "super")
	}
	superVal, _ := env.GetAt(depth, "super")
	super := superVal.(*Class)
	thisVal, _ := env.GetAt(depth-1, "this")
	this := thisVal.(*Instance)

	method := super.FindMethod(n.Method.Lexeme())
	if method == nil {
		it.fail(diagnostics.MethodNotDefined, "Undefined property '"+n.Method.Lexeme()+"'.", n.Method.Pos, n.Method.Lexeme())
	}
	return method.Bind(this)
}

func (it *Interpreter) lookupVariable(idx ast.ExprIdx, name string, env *environment.Environment) Value {
	if depth, ok := it.locals[idx]; ok {
		v, _ := env.GetAt(depth, name)
		return v.(Value)
	}
	v, ok := it.globals.Get(name)
	if !ok {
		it.fail(diagnostics.UndefinedVariable, "Undefined variable '"+name+"'.", token.Pos{}, name)
	}
	return v.(Value)
}

func (it *Interpreter) assignVariable(idx ast.ExprIdx, name token.Token, v Value, env *environment.Environment) {
	if depth, ok := it.locals[idx]; ok {
		env.AssignAt(depth, name.Lexeme(), v)
		return
	}
	if !it.globals.Assign(name.Lexeme(), v) {
		it.fail(diagnostics.UndefinedVariable, "Undefined variable '"+name.Lexeme()+"'.", name.Pos, name.Lexeme())
	}
}

func (it *Interpreter) evalCall(n *ast.CallExpr, env *environment.Environment) Value {
	callee := it.evalExpr(n.Callee, env)

	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = it.evalExpr(a, env)
	}

	fn, ok := callee.(Callable)
	if !ok {
		it.fail(diagnostics.NotCallable, "Can only call functions and classes.", n.Paren.Pos, n.Paren.Lexeme())
	}
	if len(args) != fn.Arity() {
		it.fail(diagnostics.WrongNumberOfArgs,
			fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)),
			n.Paren.Pos, n.Paren.Lexeme())
	}
	return fn.Call(it, args)
}

func (it *Interpreter) evalUnary(n *ast.UnaryExpr, env *environment.Environment) Value {
	right := it.evalExpr(n.Expr, env)
	switch n.Op.Type {
	case token.BANG:
		return Bool{!IsTruthy(right)}
	case token.MINUS:
		num, ok := asNumber(right)
		if !ok {
			it.fail(diagnostics.InvalidOperands, "Operand must be a number.", n.Op.Pos, n.Op.Lexeme())
		}
		return Number{-num}
	}
	panic("interpreter: unreachable unary operator")
}

func (it *Interpreter) evalBinary(n *ast.BinaryExpr, env *environment.Environment) Value {
	left := it.evalExpr(n.Left, env)
	right := it.evalExpr(n.Right, env)

	switch n.Op.Type {
	case token.PLUS:
		if a, aok := asString(left); aok {
			if b, bok := asString(right); bok {
				return String{a + b}
			}
		}
		if a, aok := asNumber(left); aok {
			if b, bok := asNumber(right); bok {
				return Number{a + b}
			}
		}
		it.fail(diagnostics.InvalidOperands, "Operands must be two numbers or two strings.", n.Op.Pos, n.Op.Lexeme())

	case token.MINUS:
		a, b := it.bothNumbers(left, right, n.Op)
		return Number{a - b}
	case token.STAR:
		a, b := it.bothNumbers(left, right, n.Op)
		return Number{a * b}
	case token.SLASH:
		a, b := it.bothNumbers(left, right, n.Op)
		return Number{a / b}
	case token.GREATER:
		a, b := it.bothNumbers(left, right, n.Op)
		return Bool{a > b}
	case token.GREATER_EQUAL:
		a, b := it.bothNumbers(left, right, n.Op)
		return Bool{a >= b}
	case token.LESS:
		a, b := it.bothNumbers(left, right, n.Op)
		return Bool{a < b}
	case token.LESS_EQUAL:
		a, b := it.bothNumbers(left, right, n.Op)
		return Bool{a <= b}
	case token.EQUAL_EQUAL:
		return Bool{Equal(left, right)}
	case token.BANG_EQUAL:
		return Bool{!Equal(left, right)}
	}
	panic("interpreter: unreachable binary operator")
}

func (it *Interpreter) bothNumbers(left, right Value, op token.Token) (float64, float64) {
	a, aok := asNumber(left)
	b, bok := asNumber(right)
	if !aok || !bok {
		it.fail(diagnostics.InvalidOperands, "Operands must be numbers.", op.Pos, op.Lexeme())
	}
	return a, b
}

func literalValue(v ast.LiteralValue) Value {
	switch v.Kind {
	case ast.LitNil:
		return NilValue
	case ast.LitBool:
		return Bool{v.Bool}
	case ast.LitNumber:
		return Number{v.Number}
	case ast.LitString:
		return String{v.Str}
	}
	panic("interpreter: unreachable literal kind")
}
