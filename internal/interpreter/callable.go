package interpreter

import (
	"fmt"

	"golox/internal/ast"
	"golox/internal/environment"
	"golox/internal/resolver"
)

// Callable is any Value that may appear on the left of a call expression.
type Callable interface {
	Value
	Call(it *Interpreter, args []Value) Value
	Arity() int
}

// Function is a user-defined Lox function or method, closing over the
// environment active at its declaration site (spec §8's Closure property).
// It also pins the arena and resolver side-table it was declared against:
// in the REPL, each accepted line gets its own arena, so a function bound
// to globals on one line must still resolve its own body and locals
// correctly when called from a later line with a different "current" arena.
type Function struct {
	Decl          *ast.FunctionStmt
	Arena         *ast.Arena
	Locals        resolver.Locals
	Closure       *environment.Environment
	IsInitializer bool
}

func (*Function) Type() ValueType { return TypeCallable }
func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Decl.Name.Lexeme())
}

func (f *Function) Arity() int { return len(f.Decl.Params) }

// Call runs f's body's statements directly in a fresh environment parented
// on its closure, rather than dispatching the body's BlockStmt through the
// normal statement path — resolveFunction puts parameters and the body's
// statements in one shared scope (spec §4.3), so the runtime must nest them
// in exactly one environment too, not a parameter scope plus a nested block
// scope. The interpreter's current arena/locals are swapped to f's own for
// the duration of the call (see Function's doc comment) and restored on the
// way out, so calls can nest arbitrarily across arenas. A nested return
// unwinds as a returnSignal panic caught right here — the one place that
// panic is allowed to stop (spec §4.5's Return sentinel, spec §9's
// "intercepted at the call frame").
func (f *Function) Call(it *Interpreter, args []Value) (result Value) {
	callEnv := environment.NewChild(f.Closure)
	for i, param := range f.Decl.Params {
		callEnv.Define(param.Lexeme(), args[i])
	}

	prevArena, prevLocals := it.arena, it.locals
	it.arena, it.locals = f.Arena, f.Locals
	defer func() { it.arena, it.locals = prevArena, prevLocals }()

	result = NilValue
	func() {
		defer func() {
			if r := recover(); r != nil {
				if rs, ok := r.(returnSignal); ok {
					result = rs.value
					return
				}
				panic(r)
			}
		}()
		body := it.arena.Stmt(f.Decl.Body).(*ast.BlockStmt)
		for _, s := range body.Stmts {
			it.execStmt(s, callEnv)
		}
	}()

	if f.IsInitializer {
		this, _ := f.Closure.GetAt(0, "this")
		return this.(Value)
	}
	return result
}

// Bind returns a copy of f whose closure additionally defines "this" as
// instance, used for both bound methods (spec §4.5's Get semantics) and
// constructor dispatch.
func (f *Function) Bind(instance *Instance) *Function {
	env := environment.NewChild(f.Closure)
	env.Define("this", instance)
	return &Function{Decl: f.Decl, Arena: f.Arena, Locals: f.Locals, Closure: env, IsInitializer: f.IsInitializer}
}

// NativeFunction wraps a host-provided builtin, e.g. clock() (spec §6).
type NativeFunction struct {
	Name   string
	ArityN int
	Fn     func(it *Interpreter, args []Value) Value
}

func (*NativeFunction) Type() ValueType { return TypeCallable }
func (n *NativeFunction) String() string {
	return fmt.Sprintf("<native fn %s>", n.Name)
}
func (n *NativeFunction) Arity() int { return n.ArityN }
func (n *NativeFunction) Call(it *Interpreter, args []Value) Value {
	return n.Fn(it, args)
}

// Class is a Lox class value: a name, an optional superclass and a method
// table. Instances are created by calling the class itself.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (*Class) Type() ValueType { return TypeCallable }
func (c *Class) String() string { return c.Name }

func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(it *Interpreter, args []Value) Value {
	instance := &Instance{Class: c, Fields: make(map[string]Value)}
	if init := c.FindMethod("init"); init != nil {
		init.Bind(instance).Call(it, args)
	}
	return instance
}

// FindMethod looks up name on c, then walks the superclass chain.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Instance is a runtime object: a field map plus a reference to its class.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func (*Instance) Type() ValueType { return TypeInstance }
func (i *Instance) String() string {
	return i.Class.Name + " instance"
}

// Get implements spec §4.5's Get semantics: fields shadow methods, and a
// method access returns a bound function.
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m := i.Class.FindMethod(name); m != nil {
		return m.Bind(i), true
	}
	return nil, false
}

func (i *Instance) Set(name string, value Value) {
	i.Fields[name] = value
}
